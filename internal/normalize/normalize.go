// Package normalize turns raw ingest tables into typed records with a
// canonical schema. Divergent source column names are mapped to canonical
// fields, dates are parsed day-first, and amounts become decimals. Values
// that fail to parse degrade to absent (nil) rather than raising; the
// affected downstream checks are then skipped.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/divrecon-dev/divrecon/internal/ingest"
	"github.com/divrecon-dev/divrecon/internal/model"
)

// Day-first formats seen across owner and custodian extracts.
var dateFormats = []string{
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
}

// Owner normalizes the asset owner's extract. Legacy withholding-tax column
// names (WTHTAX_COST_*) are accepted alongside the current ones.
func Owner(t ingest.Table) []model.Record {
	records := make([]model.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		get := fieldGetter(row)
		records = append(records, model.Record{
			EventKey:              get("COAC_EVENT_KEY"),
			ISIN:                  get("ISIN"),
			Account:               get("BANK_ACCOUNT"),
			InstrumentDescription: get("INSTRUMENT_DESCRIPTION"),
			Ticker:                get("TICKER"),
			ExDate:                parseDate(get("EXDATE")),
			PayDate:               parseDate(get("PAYMENT_DATE")),
			Currency:              get("QUOTATION_CURRENCY"),
			SettleCurrency:        get("SETTLEMENT_CURRENCY"),
			Gross:                 parseDecimal(get("GROSS_AMOUNT_QUOTATION")),
			Net:                   parseDecimal(get("NET_AMOUNT_SETTLEMENT")),
			Tax:                   parseDecimal(get("WITHHOLDING_TAX_AMOUNT_SETTLEMENT", "WTHTAX_COST_SETTLEMENT")),
			TaxQuotation:          parseDecimal(get("WITHHOLDING_TAX_AMOUNT_QUOTATION", "WTHTAX_COST_QUOTATION")),
			TaxRate:               parseDecimal(get("TAX_RATE")),
			FXRate:                parseDecimal(get("AVG_FX_RATE_QUOTATION_TO_PORTFOLIO")),
			Position:              parseDecimal(get("NOMINAL_BASIS")),
		})
	}
	return records
}

// Custodian normalizes the custodian bank's extract. The custodian calls the
// account column CUSTODY; it maps to the canonical account field.
func Custodian(t ingest.Table) []model.Record {
	records := make([]model.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		get := fieldGetter(row)
		records = append(records, model.Record{
			EventKey:              get("COAC_EVENT_KEY"),
			ISIN:                  get("ISIN"),
			Account:               get("CUSTODY", "BANK_ACCOUNT"),
			InstrumentDescription: get("INSTRUMENT_DESCRIPTION"),
			Ticker:                get("TICKER"),
			Custodian:             get("CUSTODIAN"),
			ExDate:                parseDate(get("EVENT_EX_DATE", "EX_DATE")),
			PayDate:               parseDate(get("EVENT_PAYMENT_DATE", "PAY_DATE")),
			Currency:              get("SETTLED_CURRENCY"),
			Gross:                 parseDecimal(get("GROSS_AMOUNT")),
			Net:                   parseDecimal(get("NET_AMOUNT_SC")),
			Tax:                   parseDecimal(get("TAX")),
			FXRate:                parseDecimal(get("FX_RATE")),
			ADRFee:                parseDecimal(get("ADR_FEE")),
			Position:              parseDecimal(get("HOLDING_QUANTITY")),
		})
	}
	return records
}

// fieldGetter returns the first non-empty value among the named columns.
func fieldGetter(row map[string]string) func(names ...string) string {
	return func(names ...string) string {
		for _, n := range names {
			if v, ok := row[n]; ok && v != "" {
				return v
			}
		}
		return ""
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseDecimal(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
