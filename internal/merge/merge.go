// Package merge joins RepeatMasker records with their TEsorter
// classifications on (start, end, repeat name).
package merge

import "repeattools/internal/repeat"

// Stats summarises one merge.
type Stats struct {
	Matched    int
	Unmatched  int
	Duplicates []repeat.Key // classifier keys seen more than once (later rows ignored)
}

// Index maps each classifier key to its first annotation and reports every
// key that occurs again.
func Index(anns []repeat.Annotation) (map[repeat.Key]*repeat.Annotation, []repeat.Key) {
	idx := make(map[repeat.Key]*repeat.Annotation, len(anns))
	var dups []repeat.Key
	for i := range anns {
		k := anns[i].Key()
		if _, seen := idx[k]; seen {
			dups = append(dups, k)
			continue
		}
		idx[k] = &anns[i]
	}
	return idx, dups
}

// Merge attaches classifications to rm in place and returns it. The result
// has the same length and order as rm; coordinates always come from rm.
// For matched records TEsorter's class and superfamily replace RepeatMasker's.
func Merge(rm []repeat.Record, te []repeat.Annotation) ([]repeat.Record, Stats) {
	idx, dups := Index(te)
	st := Stats{Duplicates: dups}
	for i := range rm {
		a, ok := idx[rm[i].Key()]
		if !ok {
			rm[i].Classifier = nil
			st.Unmatched++
			continue
		}
		c := a.Classification
		if len(c.Domains) == 0 {
			c.Domains = repeat.NoneDomains()
		}
		rm[i].Class = a.Class
		rm[i].Superfamily = a.Superfamily
		rm[i].Classifier = &c
		st.Matched++
	}
	return rm, st
}
