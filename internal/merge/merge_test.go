package merge

import (
	"testing"

	"repeattools/internal/repeat"
)

func rm(start, end int, name string) repeat.Record {
	return repeat.Record{SequenceID: "chr1", Start: start, End: end, Length: end - start, Name: name, Class: "LINE", Superfamily: "L1"}
}

func ann(start, end int, name, order string, doms ...repeat.Domain) repeat.Annotation {
	return repeat.Annotation{
		SequenceID: "chr1", Start: start, End: end, Length: end - start, Name: name,
		Class: "LINE", Superfamily: "L1",
		Classification: repeat.Classification{Order: order, Superfamily: "unknown", Clade: "LINE", Completeness: "unknown", Strand: repeat.StrandPlus, Domains: doms},
	}
}

func TestUnmatchedGetsPlaceholders(t *testing.T) {
	recs, st := Merge([]repeat.Record{rm(100, 200, "rnd-1")}, nil)
	if len(recs) != 1 || st.Unmatched != 1 || st.Matched != 0 {
		t.Fatalf("stats %+v len=%d", st, len(recs))
	}
	r := recs[0]
	if !repeat.IsNoneDomains(r.Domains()) || r.TesOrder() != "none" || r.TesSuperfamily() != "none" ||
		r.Completeness() != "none" || r.Clade() != "none" || r.Strand() != repeat.StrandNone {
		t.Fatalf("placeholders missing: %+v", r)
	}
}

func TestMergeIsTotalAndOrdered(t *testing.T) {
	in := []repeat.Record{rm(1, 5, "a"), rm(10, 50, "b"), rm(10, 50, "c"), rm(7, 9, "a")}
	te := []repeat.Annotation{
		ann(10, 50, "b", "LTR", repeat.Domain{Name: "RT", Clade: "Ale"}),
		ann(99, 100, "zz", "LINE"),
	}
	out, st := Merge(in, te)
	if len(out) != 4 {
		t.Fatalf("len changed: %d", len(out))
	}
	names := []string{"a", "b", "c", "a"}
	for i, r := range out {
		if r.Name != names[i] {
			t.Fatalf("order changed at %d: %s", i, r.Name)
		}
	}
	if st.Matched != 1 || st.Unmatched != 3 {
		t.Fatalf("stats: %+v", st)
	}
	if !out[1].Matched() || out[1].TesOrder() != "LTR" || out[1].Domains()[0].Clade != "Ale" {
		t.Fatalf("match not merged: %+v", out[1])
	}
}

func TestClassifierWinsOnClassFamily(t *testing.T) {
	a := ann(1, 10, "r", "LTR")
	a.Class, a.Superfamily = "LTR", "Copia"
	out, _ := Merge([]repeat.Record{rm(1, 10, "r")}, []repeat.Annotation{a})
	if out[0].Class != "LTR" || out[0].Superfamily != "Copia" {
		t.Fatalf("classifier values should win: %+v", out[0])
	}
	if out[0].Start != 1 || out[0].End != 10 || out[0].SequenceID != "chr1" {
		t.Fatalf("coordinates must come from RepeatMasker: %+v", out[0])
	}
}

func TestDuplicatesFirstSeenWins(t *testing.T) {
	first := ann(1, 10, "r", "LTR")
	second := ann(1, 10, "r", "TIR")
	out, st := Merge([]repeat.Record{rm(1, 10, "r")}, []repeat.Annotation{first, second})
	if out[0].TesOrder() != "LTR" {
		t.Fatalf("first-seen should win, got %q", out[0].TesOrder())
	}
	if len(st.Duplicates) != 1 || st.Duplicates[0] != (repeat.Key{Start: 1, End: 10, Name: "r"}) {
		t.Fatalf("duplicates: %+v", st.Duplicates)
	}
}

func TestMatchedWithoutDomainsGetsPlaceholder(t *testing.T) {
	out, _ := Merge([]repeat.Record{rm(1, 10, "r")}, []repeat.Annotation{ann(1, 10, "r", "LTR")})
	if got := out[0].Classifier.Domains; !repeat.IsNoneDomains(got) || len(got) != 1 {
		t.Fatalf("domains must never be empty: %+v", got)
	}
}
