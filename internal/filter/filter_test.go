package filter

import (
	"errors"
	"slices"
	"testing"

	"repeattools/internal/repeat"
)

func rec(seq string, length int, div float64, c *repeat.Classification) repeat.Record {
	return repeat.Record{SequenceID: seq, Start: 0, End: length, Length: length, Divergence: div, Deletion: div / 2, Insertion: div / 4, Classifier: c}
}

func cls(clade string, doms ...repeat.Domain) *repeat.Classification {
	return &repeat.Classification{Order: "LTR", Superfamily: "Copia", Clade: clade, Domains: doms}
}

func fixture() []repeat.Record {
	return []repeat.Record{
		rec("chr1", 100, 5, cls("Ale", repeat.Domain{Name: "RT", Clade: "Ale"}, repeat.Domain{Name: "RH", Clade: "Ale"})),
		rec("chr2", 50, 20, cls("Ivana", repeat.Domain{Name: "RT", Clade: "Ivana"})),
		rec("chr1", 300, 20, nil),
		rec("chr3", 10, 35.5, cls("LINE", repeat.Domain{Name: "RT", Clade: "LINE"})),
		rec("chr2", 80, 12, cls("unknown", repeat.NoneDomain)),
	}
}

func names(recs []repeat.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.SequenceID
	}
	return out
}

func TestByLength(t *testing.T) {
	got := ByLength(fixture(), 80)
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	for _, r := range got {
		if r.Length < 80 {
			t.Fatalf("kept short record %+v", r)
		}
	}
}

func TestByChromosomes(t *testing.T) {
	keep := ByChromosomes(fixture(), NewSet("chr1"), false)
	if !slices.Equal(names(keep), []string{"chr1", "chr1"}) {
		t.Fatalf("keep: %v", names(keep))
	}
	drop := ByChromosomes(fixture(), NewSet("chr1"), true)
	if !slices.Equal(names(drop), []string{"chr2", "chr3", "chr2"}) {
		t.Fatalf("exclude: %v", names(drop))
	}
}

func TestByDomainDropsUnclassified(t *testing.T) {
	got := ByDomain(fixture(), DomainCriteria{})
	if len(got) != 3 {
		t.Fatalf("want 3 records with domains, got %d", len(got))
	}
	for _, r := range got {
		if repeat.IsNoneDomains(r.Domains()) {
			t.Fatalf("kept record without domains: %+v", r)
		}
	}
}

func TestByDomainCriteria(t *testing.T) {
	got := ByDomain(fixture(), DomainCriteria{Domains: []string{"RH"}})
	if len(got) != 1 || got[0].Clade() != "Ale" {
		t.Fatalf("domain name: %+v", got)
	}

	got = ByDomain(fixture(), DomainCriteria{Clades: []string{"Ivana", "LINE"}})
	if len(got) != 2 {
		t.Fatalf("clades: %d", len(got))
	}

	got = ByDomain(fixture(), DomainCriteria{Features: []repeat.Domain{{Name: "RT", Clade: "LINE"}}})
	if len(got) != 1 || got[0].SequenceID != "chr3" {
		t.Fatalf("features: %+v", got)
	}

	// ANDed: RT domain, but only the Ale clade.
	got = ByDomain(fixture(), DomainCriteria{Domains: []string{"RT"}, Clades: []string{"Ale"}})
	if len(got) != 1 || got[0].SequenceID != "chr1" {
		t.Fatalf("combined: %+v", got)
	}
}

func TestByDomainIdempotent(t *testing.T) {
	c := DomainCriteria{Domains: []string{"RT"}, Features: []repeat.Domain{{Name: "RT", Clade: "Ivana"}, {Name: "RH", Clade: "Ale"}}}
	once := ByDomain(fixture(), c)
	before := names(once)
	twice := ByDomain(slices.Clone(once), c)
	if !slices.Equal(before, names(twice)) {
		t.Fatalf("not idempotent: %v vs %v", before, names(twice))
	}
}

func TestByPercentagePartition(t *testing.T) {
	const x = 20.0
	eq, err := ByPercentage(fixture(), Divergence, x, Equal)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range eq {
		if r.Divergence != x {
			t.Fatalf("equal kept %v", r.Divergence)
		}
	}
	if len(eq) != 2 {
		t.Fatalf("equal: want 2, got %d", len(eq))
	}

	lower, _ := ByPercentage(fixture(), Divergence, x, LowerThan)
	higher, _ := ByPercentage(fixture(), Divergence, x, HigherThan)
	strictlyGreater := slices.DeleteFunc(slices.Clone(higher), func(r repeat.Record) bool { return r.Divergence == x })
	if len(lower)+len(strictlyGreater) != len(fixture()) {
		t.Fatalf("lower(%d) + greater(%d) must cover input", len(lower), len(strictlyGreater))
	}
	if len(lower)+len(higher)-len(eq) != len(fixture()) {
		t.Fatalf("overlap must be exactly the equal set")
	}
}

func TestByPercentageOtherFields(t *testing.T) {
	got, err := ByPercentage(fixture(), Deletion, 10, HigherThan)
	if err != nil || len(got) != 3 {
		t.Fatalf("del: %d %v", len(got), err)
	}
	got, err = ByPercentage(fixture(), Insertion, 1.25, LowerThan)
	if err != nil || len(got) != 1 {
		t.Fatalf("ins: %d %v", len(got), err)
	}
}

func TestByPercentageFailsFast(t *testing.T) {
	in := fixture()
	out, err := ByPercentage(in, "gc", 1, Equal)
	if !errors.Is(err, ErrUnknownField) || len(out) != len(in) {
		t.Fatalf("field: %v", err)
	}
	out, err = ByPercentage(in, Divergence, 1, "about")
	if !errors.Is(err, ErrUnknownMode) || len(out) != len(in) {
		t.Fatalf("mode: %v", err)
	}
}

func TestParseThreshold(t *testing.T) {
	f, v, err := ParseThreshold("del=30.0")
	if err != nil || f != Deletion || v != 30 {
		t.Fatalf("got %v %v %v", f, v, err)
	}
	if _, _, err := ParseThreshold("div"); !errors.Is(err, ErrBadThreshold) {
		t.Fatalf("missing '=': %v", err)
	}
	if _, _, err := ParseThreshold("gc=3"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("bad field: %v", err)
	}
	if _, err := ParseMode("HIGHER_THAN"); err != nil {
		t.Fatalf("mode case: %v", err)
	}
}

func TestApplyOrder(t *testing.T) {
	got, err := Apply(fixture(), Options{
		MinLength:   50,
		Chromosomes: NewSet("chr1", "chr2"),
		Domain:      &DomainCriteria{},
		Percentage:  &PercentCriteria{Field: Divergence, Threshold: 20, Mode: LowerThan},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names(got), []string{"chr1", "chr2"}) {
		t.Fatalf("got %v", names(got))
	}

	if _, err := Apply(fixture(), Options{Percentage: &PercentCriteria{Field: Divergence, Mode: "nope"}}); err == nil {
		t.Fatal("expected mode error")
	}
}
