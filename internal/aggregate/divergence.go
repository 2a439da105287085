package aggregate

import "repeattools/internal/repeat"

// DivergenceRow is one line of the long-form divergence table.
type DivergenceRow struct {
	Species    string
	Category   string
	Divergence float64
}

// LongDivergence emits one row per record.
func LongDivergence(recs []repeat.Record, species string, cat repeat.Categorizer) []DivergenceRow {
	out := make([]DivergenceRow, len(recs))
	for i := range recs {
		out[i] = DivergenceRow{Species: species, Category: cat.Category(&recs[i]), Divergence: recs[i].Divergence}
	}
	return out
}

// GroupDivergence splits long-form rows by category. The returned slice
// lists the categories in first-seen order.
func GroupDivergence(rows []DivergenceRow) ([]string, map[string][]DivergenceRow) {
	var order []string
	groups := make(map[string][]DivergenceRow)
	for _, row := range rows {
		if _, ok := groups[row.Category]; !ok {
			order = append(order, row.Category)
		}
		groups[row.Category] = append(groups[row.Category], row)
	}
	return order, groups
}
