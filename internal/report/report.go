// Package report writes the reconciliation report CSV with a fixed column
// order so successive runs over the same inputs diff cleanly.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/divrecon-dev/divrecon/internal/model"
)

const dateFormat = "2006-01-02"

// baseColumns is the fixed report column order: join keys, descriptive
// fields, then dates, currencies, amounts, tax, FX, fee, and position from
// both sides, the join-origin tag, and the status.
var baseColumns = []string{
	"COAC_EVENT_KEY", "ISIN", "BANK_ACCOUNT",
	"INSTRUMENT_DESCRIPTION", "TICKER", "CUSTODIAN",
	"EVENT_EX_DATE", "EXDATE",
	"EVENT_PAYMENT_DATE", "PAYMENT_DATE",
	"SETTLED_CURRENCY", "QUOTATION_CURRENCY", "SETTLEMENT_CURRENCY",
	"GROSS_AMOUNT", "GROSS_AMOUNT_QUOTATION",
	"NET_AMOUNT_SC", "NET_AMOUNT_SETTLEMENT",
	"TAX", "WITHHOLDING_TAX_AMOUNT_QUOTATION",
	"FX_RATE", "AVG_FX_RATE_QUOTATION_TO_PORTFOLIO",
	"ADR_FEE", "TAX_RATE",
	"NOMINAL_BASIS", "HOLDING_QUANTITY",
	"MATCH_ORIGIN", "RECON_STATUS",
}

// enrichColumns are appended when classification was requested.
var enrichColumns = []string{
	"BREAK_CODE", "CONFIDENCE", "EXPLANATION", "PROPOSED_ACTION",
	"NEEDS_HUMAN", "CLASSIFICATION_SOURCE",
}

// Columns returns the header for a report, with or without the enrichment
// column set.
func Columns(enriched bool) []string {
	if !enriched {
		return baseColumns
	}
	cols := make([]string, 0, len(baseColumns)+len(enrichColumns))
	cols = append(cols, baseColumns...)
	return append(cols, enrichColumns...)
}

// WriteFile writes the report to path.
func WriteFile(path string, rows []model.ResultRow, enriched bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, rows, enriched); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Write writes the report as comma-separated CSV with a header row.
func Write(w io.Writer, rows []model.ResultRow, enriched bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Columns(enriched)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(marshalRow(row, enriched)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalRow(row model.ResultRow, enriched bool) []string {
	owner, cust := row.Joined.Owner, row.Joined.Custodian
	if owner == nil {
		owner = &model.Record{}
	}
	if cust == nil {
		cust = &model.Record{}
	}

	out := []string{
		row.Joined.Key.EventKey, row.Joined.Key.ISIN, row.Joined.Key.Account,
		first(owner.InstrumentDescription, cust.InstrumentDescription),
		first(owner.Ticker, cust.Ticker),
		cust.Custodian,
		fmtDate(cust.ExDate), fmtDate(owner.ExDate),
		fmtDate(cust.PayDate), fmtDate(owner.PayDate),
		cust.Currency, owner.Currency, owner.SettleCurrency,
		fmtDec(cust.Gross), fmtDec(owner.Gross),
		fmtDec(cust.Net), fmtDec(owner.Net),
		fmtDec(cust.Tax), fmtDec(owner.TaxQuotation),
		fmtDec(cust.FXRate), fmtDec(owner.FXRate),
		fmtDec(cust.ADRFee), fmtDec(owner.TaxRate),
		fmtDec(owner.Position), fmtDec(cust.Position),
		string(row.Joined.Origin), string(row.Status),
	}
	if !enriched {
		return out
	}

	if c := row.Classification; c != nil {
		out = append(out,
			string(c.BreakCode),
			strconv.FormatFloat(c.Confidence, 'f', 2, 64),
			c.Explanation,
			c.ProposedAction,
			strconv.FormatBool(c.NeedsHuman),
			string(c.Source),
		)
	} else {
		out = append(out, "", "", "", "", "", "")
	}
	return out
}

func first(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

func fmtDec(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
