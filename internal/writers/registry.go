// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"repeattools/internal/output"
	"repeattools/internal/repeat"
)

// RecordFunc writes a complete, already ordered list of merged records.
type RecordFunc func(w io.Writer, recs []repeat.Record, header bool) error

// RecordWriters is the format → handler registry for merged records.
var RecordWriters = map[string]RecordFunc{}

// RegisterRecord adds or replaces a handler (last wins).
func RegisterRecord(format string, fn RecordFunc) { RecordWriters[format] = fn }

func init() {
	RegisterRecord(output.FormatTSV, output.WriteTSV)
	RegisterRecord(output.FormatJSON, func(w io.Writer, recs []repeat.Record, _ bool) error {
		return output.WriteJSON(w, recs)
	})
	RegisterRecord(output.FormatJSONL, writeJSONL)
}

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(RecordWriters))
	for f := range RecordWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteRecords dispatches to the registered handler.
func WriteRecords(format string, w io.Writer, recs []repeat.Record, header bool) error {
	fn, ok := RecordWriters[format]
	if !ok {
		return fmt.Errorf("unknown record format %q (no writer registered)", format)
	}
	return fn(w, recs, header)
}
