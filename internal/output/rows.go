package output

import (
	"strconv"
	"strings"

	"repeattools/internal/repeat"
)

// FormatFloat renders a percentage the shortest way that round-trips.
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func matchSymbol(r *repeat.Record) string {
	if r.Complement {
		return "C"
	}
	return "+"
}

// FormatRowTSV returns the TSVHeader columns for r (no trailing newline).
// Absent classifier columns are written as "none".
func FormatRowTSV(r *repeat.Record) string {
	cols := []string{
		r.SequenceID,
		strconv.Itoa(r.Start), strconv.Itoa(r.End), strconv.Itoa(r.Length),
		matchSymbol(r), r.Name, r.Class, r.Superfamily,
		strconv.Itoa(r.Score),
		FormatFloat(r.Divergence), FormatFloat(r.Deletion), FormatFloat(r.Insertion),
		strconv.Itoa(r.RefStart), strconv.Itoa(r.RefEnd), strconv.Itoa(r.RefLeft), strconv.Itoa(r.ID),
		r.TesOrder(), r.TesSuperfamily(), r.Clade(), r.Completeness(),
		r.Strand().String(), repeat.FormatDomains(r.Domains()),
	}
	return strings.Join(cols, "\t")
}
