package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divrecon-dev/divrecon/internal/model"
)

func dec(s string) *decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return &d
}

func day(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRow() model.ResultRow {
	owner := model.Record{
		EventKey: "EVT1", ISIN: "US0378331005", Account: "ACC1",
		InstrumentDescription: "APPLE INC", Ticker: "AAPL",
		ExDate: day(2025, 5, 15), PayDate: day(2025, 5, 20),
		Currency: "USD", SettleCurrency: "USD",
		Gross: dec("100.50"), Net: dec("85.43"), Tax: dec("15.07"),
	}
	cust := model.Record{
		EventKey: "EVT1", ISIN: "US0378331005", Account: "ACC1",
		Custodian: "CITIBANK",
		ExDate:    day(2025, 5, 15), PayDate: day(2025, 5, 20),
		Currency: "USD",
		Gross:    dec("100.50"), Net: dec("85.43"), Tax: dec("15.07"),
	}
	return model.ResultRow{
		Joined: model.JoinedRecord{
			Key: owner.Key(), Owner: &owner, Custodian: &cust, Origin: model.OriginBoth,
		},
		Status: model.StatusMatched,
	}
}

func parse(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWrite_ColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []model.ResultRow{sampleRow()}, false)
	require.NoError(t, err)

	records := parse(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, Columns(false), records[0])
	assert.Equal(t, "COAC_EVENT_KEY", records[0][0])
	assert.Equal(t, "RECON_STATUS", records[0][len(records[0])-1])
}

func TestWrite_RowValues(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []model.ResultRow{sampleRow()}, false)
	require.NoError(t, err)

	records := parse(t, &buf)
	header, row := records[0], records[1]
	byName := map[string]string{}
	for i, col := range header {
		byName[col] = row[i]
	}

	assert.Equal(t, "EVT1", byName["COAC_EVENT_KEY"])
	assert.Equal(t, "CITIBANK", byName["CUSTODIAN"])
	assert.Equal(t, "2025-05-20", byName["PAYMENT_DATE"])
	assert.Equal(t, "2025-05-20", byName["EVENT_PAYMENT_DATE"])
	assert.Equal(t, "100.5", byName["GROSS_AMOUNT_QUOTATION"])
	assert.Equal(t, "100.5", byName["GROSS_AMOUNT"])
	assert.Equal(t, "BOTH", byName["MATCH_ORIGIN"])
	assert.Equal(t, "MATCHED", byName["RECON_STATUS"])
}

func TestWrite_OneSidedRowLeavesOtherSideEmpty(t *testing.T) {
	owner := model.Record{EventKey: "EVT2", ISIN: "US01", Account: "ACC1", Gross: dec("10"), Currency: "USD"}
	row := model.ResultRow{
		Joined: model.JoinedRecord{Key: owner.Key(), Owner: &owner, Origin: model.OriginOwnerOnly},
		Status: model.ReconStatus(model.CodeMissingAtCustodian),
	}

	var buf bytes.Buffer
	err := Write(&buf, []model.ResultRow{row}, false)
	require.NoError(t, err)

	records := parse(t, &buf)
	byName := map[string]string{}
	for i, col := range records[0] {
		byName[col] = records[1][i]
	}
	assert.Equal(t, "OWNER_ONLY", byName["MATCH_ORIGIN"])
	assert.Equal(t, "MISSING_AT_CUSTODIAN", byName["RECON_STATUS"])
	assert.Empty(t, byName["GROSS_AMOUNT"], "custodian side is absent")
	assert.Equal(t, "10", byName["GROSS_AMOUNT_QUOTATION"])
}

func TestWrite_EnrichmentColumns(t *testing.T) {
	enrichedRow := sampleRow()
	enrichedRow.Status = "GROSS_MISMATCH"
	enrichedRow.Classification = &model.BreakClassification{
		BreakCode:      model.CodeGrossMismatch,
		Confidence:     0.8,
		Explanation:    "Gross differs.",
		ProposedAction: "Request statement.",
		NeedsHuman:     true,
		Source:         model.SourceFallback,
	}
	unenriched := sampleRow()
	unenriched.Status = "NET_MISMATCH"

	var buf bytes.Buffer
	err := Write(&buf, []model.ResultRow{enrichedRow, unenriched}, true)
	require.NoError(t, err)

	records := parse(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, Columns(true), records[0])
	assert.Equal(t, "CLASSIFICATION_SOURCE", records[0][len(records[0])-1])

	byName := map[string]string{}
	for i, col := range records[0] {
		byName[col] = records[1][i]
	}
	assert.Equal(t, "GROSS_MISMATCH", byName["BREAK_CODE"])
	assert.Equal(t, "0.80", byName["CONFIDENCE"])
	assert.Equal(t, "true", byName["NEEDS_HUMAN"])
	assert.Equal(t, "fallback", byName["CLASSIFICATION_SOURCE"])

	// Past-budget rows carry empty enrichment cells.
	for i, col := range records[0] {
		byName[col] = records[2][i]
	}
	assert.Empty(t, byName["BREAK_CODE"])
	assert.Empty(t, byName["CLASSIFICATION_SOURCE"])
}

func TestWriteFile(t *testing.T) {
	path := t.TempDir() + "/recon_out.csv"
	err := WriteFile(path, []model.ResultRow{sampleRow()}, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RECON_STATUS")
	assert.Contains(t, string(data), "EVT1")
}
