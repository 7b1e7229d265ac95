package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(event string) Entry {
	return Entry{
		Timestamp:  time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC),
		EventKey:   event,
		ISIN:       "US0378331005",
		Account:    "ACC1",
		Source:     "fallback",
		BreakCode:  "GROSS_MISMATCH",
		Confidence: 0.8,
	}
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(sampleEntry("EVT1"))
	require.Len(t, row, numFields)
	assert.Equal(t, "2025-05-20T10:30:00Z", row[colTimestamp])
	assert.Equal(t, "EVT1", row[colEventKey])
	assert.Equal(t, "fallback", row[colSource])
	assert.Equal(t, "0.80", row[colConfidence])
}

func TestAppend_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	err := Append(path, []Entry{sampleEntry("EVT1")})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Contains(t, lines[1], "EVT1")
}

func TestAppend_DoesNotDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	require.NoError(t, Append(path, []Entry{sampleEntry("EVT1")}))
	require.NoError(t, Append(path, []Entry{sampleEntry("EVT2"), sampleEntry("EVT3")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 1, strings.Count(content, Header))

	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[3], "EVT3")
}

func TestAppend_NoEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	require.NoError(t, Append(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(data))
}
