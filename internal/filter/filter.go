// Package filter narrows a species' merged records. Every filter removes
// rows only and reuses the backing array of its input.
package filter

import (
	"slices"

	"repeattools/internal/repeat"
)

// Set is a string membership set.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// ByLength keeps records with Length >= minLength.
func ByLength(recs []repeat.Record, minLength int) []repeat.Record {
	return slices.DeleteFunc(recs, func(r repeat.Record) bool { return r.Length < minLength })
}

// ByChromosomes keeps records on chroms, or drops them when exclude is set.
func ByChromosomes(recs []repeat.Record, chroms Set, exclude bool) []repeat.Record {
	return slices.DeleteFunc(recs, func(r repeat.Record) bool {
		return chroms.Has(r.SequenceID) == exclude
	})
}

// DomainCriteria restricts records by TEsorter domains. Empty lists do not
// restrict; non-empty ones are ANDed.
type DomainCriteria struct {
	Domains  []string        // keep if any domain name is listed
	Clades   []string        // keep if the record clade is listed
	Features []repeat.Domain // keep if any (domain, clade) pair is listed
}

// ByDomain always drops records without domain hits, then applies c.
func ByDomain(recs []repeat.Record, c DomainCriteria) []repeat.Record {
	doms := NewSet(c.Domains...)
	clades := NewSet(c.Clades...)
	feats := make(map[repeat.Domain]struct{}, len(c.Features))
	for _, f := range c.Features {
		feats[f] = struct{}{}
	}
	return slices.DeleteFunc(recs, func(r repeat.Record) bool {
		ds := r.Domains()
		if repeat.IsNoneDomains(ds) {
			return true
		}
		if len(doms) > 0 && !slices.ContainsFunc(ds, func(d repeat.Domain) bool { return doms.Has(d.Name) }) {
			return true
		}
		if len(clades) > 0 && !clades.Has(r.Clade()) {
			return true
		}
		if len(feats) > 0 && !slices.ContainsFunc(ds, func(d repeat.Domain) bool {
			_, ok := feats[d]
			return ok
		}) {
			return true
		}
		return false
	})
}
