package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/divrecon-dev/divrecon/internal/model"
)

// DefaultModel is the model used when no override is configured. A small,
// cheap model is enough for one-line break triage.
const DefaultModel = "gemini-2.0-flash"

const systemPrompt = "You are a financial-ops analyst for equity dividend reconciliation. " +
	"Return ONLY valid JSON with keys: break_code, confidence, explanation_one_liner, proposed_action, needs_human. " +
	"break_code must be one of [MATCHED,MISSING_AT_OWNER,MISSING_AT_CUSTODIAN,DATE_MISMATCH,GROSS_MISMATCH," +
	"NET_MISMATCH,TAX_MISMATCH,FX_VARIANCE,ADR_FEE_HANDLING,POSITION_MISMATCH,OTHER]. " +
	"confidence is a number in [0,1]. " +
	"explanation_one_liner: concise root cause. " +
	"proposed_action: one specific next step. " +
	"needs_human: true if the break requires manual review, false if auto-fixable."

// GeminiClassifier is the live network-backed classifier. One synchronous
// call per row, no retries: any failure makes the gateway fall back.
type GeminiClassifier struct {
	client  *genai.Client
	modelID string
}

// NewGeminiClassifier builds a live classifier against the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey, modelID string) (*GeminiClassifier, error) {
	if modelID == "" {
		modelID = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClassifier{client: client, modelID: modelID}, nil
}

// Classify sends the slimmed row to the model and decodes its JSON verdict.
func (g *GeminiClassifier) Classify(ctx context.Context, row map[string]string) (model.BreakClassification, error) {
	prompt, err := buildPrompt(row)
	if err != nil {
		return model.BreakClassification{}, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelID, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		MaxOutputTokens:   256,
	})
	if err != nil {
		return model.BreakClassification{}, fmt.Errorf("classification call: %w", err)
	}

	c, err := decodeClassification(resp.Text())
	if err != nil {
		return model.BreakClassification{}, err
	}
	c.Source = model.SourceLive
	return c, nil
}

// buildPrompt renders the whitelisted row fields as indented JSON. Map keys
// marshal sorted, so the prompt for a given row is deterministic.
func buildPrompt(row map[string]string) (string, error) {
	data, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding row: %w", err)
	}
	return "Classify this reconciliation break and propose one next action.\n" +
		"Focus on the most critical issue if multiple breaks exist.\n" +
		"Data:\n" + string(data), nil
}
