// Package audit records classification attempts so the spend against the
// call budget can be reviewed after a run.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the classification audit log.
type Entry struct {
	Timestamp  time.Time
	EventKey   string
	ISIN       string
	Account    string
	Source     string
	BreakCode  string
	Confidence float64
}

// Header is the CSV header for the audit log.
const Header = "timestamp,event_key,isin,account,source,break_code,confidence"

const (
	numFields     = 7
	colTimestamp  = 0
	colEventKey   = 1
	colISIN       = 2
	colAccount    = 3
	colSource     = 4
	colBreakCode  = 5
	colConfidence = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colEventKey] = e.EventKey
	row[colISIN] = e.ISIN
	row[colAccount] = e.Account
	row[colSource] = e.Source
	row[colBreakCode] = e.BreakCode
	row[colConfidence] = strconv.FormatFloat(e.Confidence, 'f', 2, 64)
	return row
}

// Append writes entries to the audit log at path, creating the file and
// header on first write.
func Append(path string, entries []Entry) error {
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}
