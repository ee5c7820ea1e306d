package leadbook

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// CSVTimeLayout formats the Status Updated column.
const CSVTimeLayout = "1/2/2006, 3:04:05 PM"

// csvHeader names the export columns in order.
var csvHeader = []string{
	"Name", "Status", "Phone", "Websites", "Demos",
	"Address", "Email", "Notes", "Status Updated",
}

// WriteCSV writes businesses to w in the given order, joined with their
// tracking entries. Every field is quoted. Timestamps are rendered in loc,
// or UTC if loc is nil.
func WriteCSV(w io.Writer, businesses []*Business, tracking TrackingTable, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	bw := bufio.NewWriter(w)
	writeCSVRow(bw, csvHeader, false)
	for _, b := range businesses {
		var notes, updated string
		entry := tracking[b.ID]
		if entry != nil {
			notes = entry.Notes
			if !entry.UpdatedAt.IsZero() {
				updated = entry.UpdatedAt.In(loc).Format(CSVTimeLayout)
			}
		}
		writeCSVRow(bw, []string{
			b.Name,
			tracking.StatusOf(b.ID).DisplayName(),
			b.Phone,
			strings.Join(b.Websites, "; "),
			strings.Join(b.Demos, "; "),
			b.Address,
			b.Email,
			notes,
			updated,
		}, true)
	}
	return bw.Flush()
}

// writeCSVRow writes one record. encoding/csv only quotes fields that need
// it, so quoting is done here.
func writeCSVRow(w *bufio.Writer, fields []string, quote bool) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		if quote {
			w.WriteString(QuoteCSV(f))
		} else {
			w.WriteString(f)
		}
	}
	w.WriteByte('\n')
}

// QuoteCSV wraps s in double quotes, doubling any quotes inside it.
func QuoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFilename returns the default file name for an export made at now.
func ExportFilename(now time.Time) string {
	return "businesses_" + now.Format("2006-01-02") + ".csv"
}

// ExportStore uploads rendered exports to remote object storage.
type ExportStore interface {
	// PutExport stores body under key in bucket, replacing any existing
	// object.
	PutExport(ctx context.Context, bucket, key string, body []byte) error
}
