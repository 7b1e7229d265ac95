// Package model defines the core domain types for dividend reconciliation.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Key is the composite natural key a dividend event is joined on.
type Key struct {
	EventKey string
	ISIN     string
	Account  string
}

// Record is one normalized dividend-event row from either side of the
// reconciliation. Optional fields are pointers: nil means the source did not
// report the figure, which is distinct from a reported zero.
type Record struct {
	EventKey string
	ISIN     string
	Account  string

	InstrumentDescription string
	Ticker                string
	Custodian             string // custodian-side only

	ExDate  *time.Time
	PayDate *time.Time

	// Currency is the currency the gross amount is stated in: the owner's
	// quotation currency or the custodian's settled currency.
	Currency       string
	SettleCurrency string // owner-side settlement currency

	Gross        *decimal.Decimal
	Net          *decimal.Decimal
	Tax          *decimal.Decimal
	TaxQuotation *decimal.Decimal // owner-side withholding tax in quotation currency
	TaxRate      *decimal.Decimal
	FXRate       *decimal.Decimal
	ADRFee       *decimal.Decimal
	Position     *decimal.Decimal // owner nominal basis / custodian holding quantity
}

// Key returns the composite join key for the record.
func (r Record) Key() Key {
	return Key{EventKey: r.EventKey, ISIN: r.ISIN, Account: r.Account}
}

// MatchOrigin tags a joined row with which sides contributed to it.
type MatchOrigin string

const (
	OriginBoth          MatchOrigin = "BOTH"
	OriginOwnerOnly     MatchOrigin = "OWNER_ONLY"
	OriginCustodianOnly MatchOrigin = "CUSTODIAN_ONLY"
)

// JoinedRecord pairs an owner record with its custodian counterpart, or
// carries a single side when no counterpart exists.
type JoinedRecord struct {
	Key       Key
	Owner     *Record
	Custodian *Record
	Origin    MatchOrigin
}

// ResultRow is one row of the reconciliation report: a joined record, its
// computed status, and the optional break classification.
type ResultRow struct {
	Joined         JoinedRecord
	Status         ReconStatus
	Classification *BreakClassification
}
