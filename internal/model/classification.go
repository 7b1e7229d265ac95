package model

// ClassificationSource records whether a classification came from the live
// model or the deterministic fallback taxonomy, so classification cost can
// be audited downstream.
type ClassificationSource string

const (
	SourceLive     ClassificationSource = "live"
	SourceFallback ClassificationSource = "fallback"
)

// BreakClassification is the enrichment attached to a report row: a primary
// break code, a confidence in [0,1], a one-line root-cause explanation, a
// proposed next action, and whether a human needs to review it.
type BreakClassification struct {
	BreakCode      BreakCode            `json:"break_code"`
	Confidence     float64              `json:"confidence"`
	Explanation    string               `json:"explanation_one_liner"`
	ProposedAction string               `json:"proposed_action"`
	NeedsHuman     bool                 `json:"needs_human"`
	Source         ClassificationSource `json:"-"`
}

// Valid reports whether the classification satisfies its schema: a non-empty
// break code and explanation, and confidence within [0,1].
func (c BreakClassification) Valid() bool {
	if c.BreakCode == "" || c.Explanation == "" || c.ProposedAction == "" {
		return false
	}
	return c.Confidence >= 0 && c.Confidence <= 1
}
