package model

import (
	"sort"
	"strings"
)

// BreakCode identifies one kind of discrepancy between the two sides.
type BreakCode string

const (
	CodeMatched            BreakCode = "MATCHED"
	CodeMissingAtCustodian BreakCode = "MISSING_AT_CUSTODIAN"
	CodeMissingAtOwner     BreakCode = "MISSING_AT_OWNER"
	CodeDateMismatch       BreakCode = "DATE_MISMATCH"
	CodeGrossMismatch      BreakCode = "GROSS_MISMATCH"
	CodeNetMismatch        BreakCode = "NET_MISMATCH"
	CodeTaxMismatch        BreakCode = "TAX_MISMATCH"
	CodeFXVariance         BreakCode = "FX_VARIANCE"
	CodeADRFeeHandling     BreakCode = "ADR_FEE_HANDLING"
	CodePositionMismatch   BreakCode = "POSITION_MISMATCH"
	CodeOther              BreakCode = "OTHER"
)

// statusDelimiter joins multiple break codes into one status string.
const statusDelimiter = " | "

// ReconStatus is the combined label for a joined record: "MATCHED" or a
// sorted, de-duplicated, delimiter-joined list of break codes.
type ReconStatus string

// StatusMatched is the sentinel status for a row with no discrepancies.
const StatusMatched ReconStatus = ReconStatus(CodeMatched)

// NewStatus builds a ReconStatus from a set of break codes. Codes are
// de-duplicated and sorted so the result is stable regardless of the order
// checks fired in.
func NewStatus(codes []BreakCode) ReconStatus {
	if len(codes) == 0 {
		return StatusMatched
	}
	seen := make(map[BreakCode]bool, len(codes))
	uniq := make([]string, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, string(c))
		}
	}
	sort.Strings(uniq)
	return ReconStatus(strings.Join(uniq, statusDelimiter))
}

// IsMatched reports whether the status carries no break codes.
func (s ReconStatus) IsMatched() bool {
	return s == StatusMatched
}

// Contains reports whether the status includes the given break code.
func (s ReconStatus) Contains(code BreakCode) bool {
	for _, part := range strings.Split(string(s), statusDelimiter) {
		if part == string(code) {
			return true
		}
	}
	return false
}

// Codes returns the individual break codes in the status, in status order.
func (s ReconStatus) Codes() []BreakCode {
	parts := strings.Split(string(s), statusDelimiter)
	codes := make([]BreakCode, 0, len(parts))
	for _, p := range parts {
		codes = append(codes, BreakCode(p))
	}
	return codes
}
