package aggregate

import (
	"slices"
	"sort"
)

// NonTECategories are RepeatMasker classes and families that are not
// transposable elements; Matrix.Drop removes them for TE-only output.
var NonTECategories = []string{
	"Artifact", "Other", "Accidental", "Low_complexity",
	"Simple_repeat", "Normally_Non-integrating_Virus",
	"Pseudogene", "RNA", "rRNA", "Tandem_repeat",
	"Satellite", "Acromeric", "Centromeric", "Macro",
	"Subtelomeric", "W-chromosomal", "Y-chromosomal",
	"scRNA", "Segmental_Duplication", "Simple", "snRNA",
	"tRNA", "DFAM-Unknown_Centromeric", "Unknown",
}

// Matrix is a category x species count table. Columns keep input order,
// rows are sorted, and missing combinations are zero.
type Matrix struct {
	Label      string // header of the category column (the depth)
	Species    []string
	Categories []string
	cells      map[string][]int
}

// BuildMatrix outer-joins the count vectors. Count vectors that share a
// species name are summed into that species' first column.
func BuildMatrix(label string, counts []Counts) *Matrix {
	m := &Matrix{Label: label, cells: make(map[string][]int)}
	col := make(map[string]int, len(counts))
	for _, c := range counts {
		if _, ok := col[c.Species]; !ok {
			col[c.Species] = len(m.Species)
			m.Species = append(m.Species, c.Species)
		}
	}
	for _, c := range counts {
		j := col[c.Species]
		for k, v := range c.Values {
			row, ok := m.cells[k]
			if !ok {
				row = make([]int, len(m.Species))
				m.cells[k] = row
				m.Categories = append(m.Categories, k)
			}
			row[j] += v
		}
	}
	sort.Strings(m.Categories)
	return m
}

// Row returns the counts of category in species order (nil if absent).
func (m *Matrix) Row(category string) []int { return m.cells[category] }

// Get returns one cell.
func (m *Matrix) Get(category, species string) int {
	row, ok := m.cells[category]
	if !ok {
		return 0
	}
	j := slices.Index(m.Species, species)
	if j < 0 {
		return 0
	}
	return row[j]
}

// Drop removes the given categories.
func (m *Matrix) Drop(categories ...string) {
	for _, c := range categories {
		delete(m.cells, c)
	}
	m.Categories = slices.DeleteFunc(m.Categories, func(c string) bool {
		_, ok := m.cells[c]
		return !ok
	})
}
