package enrich

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/divrecon-dev/divrecon/internal/audit"
	"github.com/divrecon-dev/divrecon/internal/model"
)

// Gateway allocates break classifications across a report under a hard call
// budget. Matched rows always get the canned matched classification without
// a call; non-matched rows are classified in row order until the budget is
// spent, then left unenriched.
type Gateway struct {
	live   Classifier // nil when no credential is configured
	budget int64

	// calls increments once per attempted classification. Atomic so the
	// budget invariant holds even if rows are ever fanned out.
	calls   atomic.Int64
	entries []audit.Entry
}

// NewGateway builds a gateway. live may be nil, in which case every
// classification comes from the fallback taxonomy. A negative budget is
// treated as zero.
func NewGateway(live Classifier, budget int) *Gateway {
	if budget < 0 {
		budget = 0
	}
	return &Gateway{live: live, budget: int64(budget)}
}

// Enrich attaches a classification to every row within budget, in row order.
// Rows past the budget keep a nil classification. Errors never escape: any
// live-call failure degrades to the fallback taxonomy.
func (g *Gateway) Enrich(ctx context.Context, rows []model.ResultRow) {
	for i := range rows {
		g.enrichRow(ctx, &rows[i])
	}
}

func (g *Gateway) enrichRow(ctx context.Context, row *model.ResultRow) {
	if row.Status.IsMatched() {
		c := MatchedClassification()
		row.Classification = &c
		return
	}

	if g.calls.Add(1) > g.budget {
		return
	}

	c := g.classify(ctx, row)
	row.Classification = &c
	g.entries = append(g.entries, audit.Entry{
		Timestamp:  time.Now().UTC(),
		EventKey:   row.Joined.Key.EventKey,
		ISIN:       row.Joined.Key.ISIN,
		Account:    row.Joined.Key.Account,
		Source:     string(c.Source),
		BreakCode:  string(c.BreakCode),
		Confidence: c.Confidence,
	})
}

func (g *Gateway) classify(ctx context.Context, row *model.ResultRow) model.BreakClassification {
	if g.live != nil {
		if c, err := g.live.Classify(ctx, slimRow(row)); err == nil {
			return c
		}
	}
	return Fallback(row.Status)
}

// Attempts returns how many classifications were attempted (live or
// fallback), capped at the budget.
func (g *Gateway) Attempts() int64 {
	n := g.calls.Load()
	if n > g.budget {
		return g.budget
	}
	return n
}

// AuditLog returns one entry per attempted classification, in row order.
func (g *Gateway) AuditLog() []audit.Entry {
	return g.entries
}

// slimRow extracts the whitelisted field subset sent to the live classifier.
// Keeping the payload small bounds request size and cost.
func slimRow(row *model.ResultRow) map[string]string {
	slim := map[string]string{
		"COAC_EVENT_KEY": row.Joined.Key.EventKey,
		"ISIN":           row.Joined.Key.ISIN,
		"BANK_ACCOUNT":   row.Joined.Key.Account,
		"RECON_STATUS":   string(row.Status),
	}
	put := func(key, val string) {
		if val != "" {
			slim[key] = val
		}
	}
	if o := row.Joined.Owner; o != nil {
		put("INSTRUMENT_DESCRIPTION", o.InstrumentDescription)
		put("TICKER", o.Ticker)
		put("EXDATE", fmtDate(o.ExDate))
		put("PAYMENT_DATE", fmtDate(o.PayDate))
		put("QUOTATION_CURRENCY", o.Currency)
		put("SETTLEMENT_CURRENCY", o.SettleCurrency)
		put("GROSS_AMOUNT_QUOTATION", fmtDec(o.Gross))
		put("NET_AMOUNT_SETTLEMENT", fmtDec(o.Net))
		put("WITHHOLDING_TAX_AMOUNT_SETTLEMENT", fmtDec(o.Tax))
		put("WITHHOLDING_TAX_AMOUNT_QUOTATION", fmtDec(o.TaxQuotation))
		put("TAX_RATE", fmtDec(o.TaxRate))
		put("AVG_FX_RATE_QUOTATION_TO_PORTFOLIO", fmtDec(o.FXRate))
		put("NOMINAL_BASIS", fmtDec(o.Position))
	}
	if c := row.Joined.Custodian; c != nil {
		put("EVENT_EX_DATE", fmtDate(c.ExDate))
		put("EVENT_PAYMENT_DATE", fmtDate(c.PayDate))
		put("SETTLED_CURRENCY", c.Currency)
		put("GROSS_AMOUNT", fmtDec(c.Gross))
		put("NET_AMOUNT_SC", fmtDec(c.Net))
		put("TAX", fmtDec(c.Tax))
		put("FX_RATE", fmtDec(c.FXRate))
		put("ADR_FEE", fmtDec(c.ADRFee))
		put("HOLDING_QUANTITY", fmtDec(c.Position))
	}
	return slim
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtDec(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
