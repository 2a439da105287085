// Package aggregate turns filtered records into per-species category counts,
// a species-by-category count matrix, and long-form divergence rows.
package aggregate

import "repeattools/internal/repeat"

// Counts is one species' count vector.
type Counts struct {
	Species string
	Values  map[string]int
	Order   []string // categories in first-seen order
}

// CountByCategory groups recs by cat.
func CountByCategory(recs []repeat.Record, species string, cat repeat.Categorizer) Counts {
	c := Counts{Species: species, Values: make(map[string]int)}
	for i := range recs {
		k := cat.Category(&recs[i])
		if _, ok := c.Values[k]; !ok {
			c.Order = append(c.Order, k)
		}
		c.Values[k]++
	}
	return c
}

// Total is the number of counted records.
func (c Counts) Total() int {
	n := 0
	for _, v := range c.Values {
		n += v
	}
	return n
}
