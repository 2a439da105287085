// internal/common/sort.go
package common

import (
	"sort"

	"repeattools/internal/repeat"
)

// LessRecord defines a stable order for merged records (for --sort).
func LessRecord(a, b *repeat.Record) bool {
	if a.SequenceID != b.SequenceID {
		return a.SequenceID < b.SequenceID
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	return a.Name < b.Name
}

func SortRecords(rs []repeat.Record) {
	sort.SliceStable(rs, func(i, j int) bool { return LessRecord(&rs[i], &rs[j]) })
}
