// Package enrich augments classified break rows with a natural-language
// classification. A live model-backed classifier is used when a credential
// is configured; every failure path converges on a deterministic fallback
// taxonomy, so enrichment never propagates an error to the caller.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/divrecon-dev/divrecon/internal/model"
)

// Classifier produces a break classification for one slimmed-down report row.
type Classifier interface {
	Classify(ctx context.Context, row map[string]string) (model.BreakClassification, error)
}

const (
	defaultConfidence  = 0.6
	defaultExplanation = "Unclear break; needs review."
	defaultAction      = "Escalate to ops with evidence."
)

// decodeClassification parses a model response into a BreakClassification.
// The body may be wrapped in markdown code fences. A response that decodes
// as JSON but misses the schema is coerced field by field with safe defaults
// rather than discarded; only a total parse failure returns an error.
func decodeClassification(text string) (model.BreakClassification, error) {
	body := stripFences(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return model.BreakClassification{}, fmt.Errorf("decoding classification: %w", err)
	}

	var c model.BreakClassification
	if err := json.Unmarshal([]byte(body), &c); err == nil && c.Valid() {
		return c, nil
	}

	c = model.BreakClassification{
		BreakCode:      coerceCode(raw["break_code"]),
		Confidence:     coerceConfidence(raw["confidence"]),
		Explanation:    coerceString(raw["explanation_one_liner"], defaultExplanation),
		ProposedAction: coerceString(raw["proposed_action"], defaultAction),
		NeedsHuman:     coerceBool(raw["needs_human"], true),
	}
	return c, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// "json" language tag.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.Trim(text, "`")
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "json"); ok {
		text = strings.TrimSpace(rest)
	}
	return text
}

func coerceCode(v any) model.BreakCode {
	if s, ok := v.(string); ok && s != "" {
		return model.BreakCode(s)
	}
	return model.CodeOther
}

func coerceConfidence(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return defaultConfidence
		}
		f = parsed
	default:
		return defaultConfidence
	}
	if f < 0 || f > 1 {
		return defaultConfidence
	}
	return f
}

func coerceString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func coerceBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
