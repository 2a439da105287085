package rmout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `   SW   perc perc perc  query       position in query              matching          repeat          position in repeat
score   div. del. ins.  sequence    begin     end       (left)    repeat            class/family  begin  end    (left)   ID

  452   30.6  1.4  1.4  Peame105C00 10027900  10028180 (45826121) + rnd-5_family-987  LINE/L1         659   870  (467)    7765
  300   12.0  0.5  2.0  Peame105C00 10030000  10030500 (45823801) C rnd-1_family-12   LTR/Copia      (12)  4000   3501    7766 *
   25    0.0  0.0  0.0  Peame105C01      100       160      (900) + (AT)n             Simple_repeat     1    60     (0)    7767
`

func TestParseSample(t *testing.T) {
	recs, err := Parse(strings.NewReader(sample), "sample.out")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}

	r := recs[0]
	if r.Score != 452 || r.Divergence != 30.6 || r.Deletion != 1.4 || r.Insertion != 1.4 {
		t.Errorf("scores: %+v", r)
	}
	if r.SequenceID != "Peame105C00" || r.Start != 10027900 || r.End != 10028180 || r.Length != 280 {
		t.Errorf("coords: %+v", r)
	}
	if r.QueryLeft != 45826121 || r.RefLeft != 467 {
		t.Errorf("parentheses not stripped: %+v", r)
	}
	if r.Class != "LINE" || r.Superfamily != "L1" || r.Name != "rnd-5_family-987" || r.ID != 7765 {
		t.Errorf("names: %+v", r)
	}
	if r.Complement || r.RefStart != 659 || r.RefEnd != 870 {
		t.Errorf("forward ref coords: %+v", r)
	}
	if r.Matched() {
		t.Errorf("parser must not attach a classification")
	}

	if s := recs[2]; s.Class != "Simple_repeat" || s.Superfamily != "Unknown" {
		t.Errorf("no-slash class: %+v", s)
	}
}

func TestComplementSwap(t *testing.T) {
	recs, err := Parse(strings.NewReader(sample), "sample.out")
	if err != nil {
		t.Fatal(err)
	}
	c := recs[1]
	if !c.Complement {
		t.Fatalf("want complement match")
	}
	// Raw columns: (12) 4000 3501 -> start is the raw (left), left the raw start.
	if c.RefStart != 3501 || c.RefEnd != 4000 || c.RefLeft != 12 {
		t.Fatalf("swap: start=%d end=%d left=%d", c.RefStart, c.RefEnd, c.RefLeft)
	}
}

func TestLengthInvariant(t *testing.T) {
	recs, err := Parse(strings.NewReader(sample), "sample.out")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if r.End < r.Start || r.Length != r.End-r.Start {
			t.Fatalf("length invariant broken: %+v", r)
		}
	}
}

func TestMissingFieldIsFatal(t *testing.T) {
	in := sample + "  10 1.0 1.0 1.0 chr1 5 10 (3) + rep\n"
	_, err := Parse(strings.NewReader(in), "bad.out")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if pe.Line != 7 || !errors.Is(err, ErrMissingField) {
		t.Fatalf("unexpected error: %v (line %d)", err, pe.Line)
	}
}

func TestBadNumberAndOrientation(t *testing.T) {
	_, _, err := ParseLine("452 x 1.4 1.4 chr 1 2 (3) + r LINE/L1 1 2 (3) 1")
	if !errors.Is(err, ErrBadField) {
		t.Fatalf("bad float: %v", err)
	}
	_, _, err = ParseLine("452 1 1.4 1.4 chr 1 2 (3) X r LINE/L1 1 2 (3) 1")
	if !errors.Is(err, ErrBadField) {
		t.Fatalf("bad orientation: %v", err)
	}
	_, _, err = ParseLine("452 1 1.4 1.4 chr 9 2 (3) + r LINE/L1 1 2 (3) 1")
	if !errors.Is(err, ErrBadCoordinates) {
		t.Fatalf("end<start: %v", err)
	}
}

func TestParseFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sp.out")
	if err := os.WriteFile(p, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := ParseFile(p)
	if err != nil || len(recs) != 3 {
		t.Fatalf("ParseFile: %d %v", len(recs), err)
	}
}
