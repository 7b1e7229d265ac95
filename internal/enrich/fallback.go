package enrich

import (
	"strings"

	"github.com/divrecon-dev/divrecon/internal/model"
)

// taxonomyEntry is one canned classification in the deterministic fallback
// table.
type taxonomyEntry struct {
	code       model.BreakCode
	confidence float64
	reason     string
	action     string
	needsHuman bool
}

// taxonomy is the fixed fallback table. Order matters: the first code found
// in a row's status string wins when several breaks fired at once.
var taxonomy = []taxonomyEntry{
	{model.CodeDateMismatch, 0.85, "Payment/Ex-date mismatch beyond tolerance.",
		"Confirm issuer timetable; adjust event dates; re-run accrual.", true},
	{model.CodeGrossMismatch, 0.80, "Gross differs in same currency; likely rounding or stale figure.",
		"Recalc gross from DPS × position; align currency; request cust statement.", true},
	{model.CodeNetMismatch, 0.80, "Net settlement differs.",
		"Rebuild net: gross - tax - ADR fee; confirm fees applied.", true},
	{model.CodeTaxMismatch, 0.90, "Tax amounts diverge.",
		"Verify withholding vs treaty; open tax-reclaim if needed.", true},
	{model.CodeFXVariance, 0.75, "FX variance over policy threshold.",
		"Align FX source & timestamp; adjust to reference rate.", true},
	{model.CodeADRFeeHandling, 0.80, "ADR fee treatment inconsistent.",
		"Post ADR fee as expense; adjust net settlement.", true},
	{model.CodePositionMismatch, 0.85, "Nominal basis differs between systems.",
		"Verify position file; reconcile corporate actions; align holdings.", true},
}

// MatchedClassification is the zero-cost enrichment for rows with no breaks.
// The live classifier is never invoked for these.
func MatchedClassification() model.BreakClassification {
	return model.BreakClassification{
		BreakCode:      model.CodeMatched,
		Confidence:     1.0,
		Explanation:    "No discrepancies.",
		ProposedAction: "None",
		NeedsHuman:     false,
		Source:         model.SourceFallback,
	}
}

// Fallback classifies a break from the fixed taxonomy: the first taxonomy
// code present in the status string wins; unknown breaks get the OTHER
// catch-all.
func Fallback(status model.ReconStatus) model.BreakClassification {
	if status.IsMatched() {
		return MatchedClassification()
	}
	for _, entry := range taxonomy {
		if strings.Contains(string(status), string(entry.code)) {
			return model.BreakClassification{
				BreakCode:      entry.code,
				Confidence:     entry.confidence,
				Explanation:    entry.reason,
				ProposedAction: entry.action,
				NeedsHuman:     entry.needsHuman,
				Source:         model.SourceFallback,
			}
		}
	}
	return model.BreakClassification{
		BreakCode:      model.CodeOther,
		Confidence:     defaultConfidence,
		Explanation:    defaultExplanation,
		ProposedAction: defaultAction,
		NeedsHuman:     true,
		Source:         model.SourceFallback,
	}
}
