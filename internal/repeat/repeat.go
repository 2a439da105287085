// Package repeat defines the unified per-repeat record built from a
// RepeatMasker .out annotation and its TEsorter .cls.tsv classification.
package repeat

import "strings"

const (
	// None is the placeholder written for classifier fields of a repeat that
	// TEsorter never classified.
	None = "none"
	// Unknown is the superfamily used when a class/family field carries no '/'.
	Unknown = "Unknown"
)

// Strand of a classifier match.
type Strand uint8

const (
	StrandNone Strand = iota
	StrandPlus
	StrandMinus
)

// ParseStrand maps "+" and "-" to their strands; anything else is StrandNone.
func ParseStrand(s string) Strand {
	switch strings.TrimSpace(s) {
	case "+":
		return StrandPlus
	case "-":
		return StrandMinus
	default:
		return StrandNone
	}
}

func (s Strand) String() string {
	switch s {
	case StrandPlus:
		return "+"
	case StrandMinus:
		return "-"
	default:
		return None
	}
}

// Key joins a RepeatMasker record to its TEsorter classification.
type Key struct {
	Start int
	End   int
	Name  string
}

// Classification holds the TEsorter columns of one repeat.
type Classification struct {
	Order        string
	Superfamily  string
	Clade        string
	Completeness string
	Strand       Strand
	Domains      []Domain          // never empty; see NoneDomains
	Extra        map[string]string // unrecognised columns, keyed by folded header
}

// Annotation is one parsed TEsorter row: the coordinates recovered from the
// #TE column plus the classification itself.
type Annotation struct {
	SequenceID  string
	Start       int
	End         int
	Length      int
	Name        string
	Class       string
	Superfamily string
	Classification
}

func (a *Annotation) Key() Key { return Key{Start: a.Start, End: a.End, Name: a.Name} }

// Record is one RepeatMasker hit, optionally enriched with its TEsorter
// classification. Classifier is nil when TEsorter has no matching row; the
// accessors below then report the "none" placeholders.
type Record struct {
	Score      int
	Divergence float64
	Deletion   float64
	Insertion  float64

	SequenceID string
	Start      int
	End        int
	Length     int
	QueryLeft  int
	Complement bool

	Name        string
	Class       string
	Superfamily string

	RefStart int
	RefEnd   int
	RefLeft  int
	ID       int

	Classifier *Classification
}

func (r *Record) Key() Key { return Key{Start: r.Start, End: r.End, Name: r.Name} }

// Matched reports whether the record carries a TEsorter classification.
func (r *Record) Matched() bool { return r.Classifier != nil }

func (r *Record) Domains() []Domain {
	if r.Classifier == nil || len(r.Classifier.Domains) == 0 {
		return NoneDomains()
	}
	return r.Classifier.Domains
}

func (r *Record) TesOrder() string {
	if r.Classifier == nil {
		return None
	}
	return r.Classifier.Order
}

func (r *Record) TesSuperfamily() string {
	if r.Classifier == nil {
		return None
	}
	return r.Classifier.Superfamily
}

func (r *Record) Clade() string {
	if r.Classifier == nil {
		return None
	}
	return r.Classifier.Clade
}

func (r *Record) Completeness() string {
	if r.Classifier == nil {
		return None
	}
	return r.Classifier.Completeness
}

func (r *Record) Strand() Strand {
	if r.Classifier == nil {
		return StrandNone
	}
	return r.Classifier.Strand
}

// SplitClassFamily splits a "class/family" field. A field without '/' gets
// the Unknown superfamily.
func SplitClassFamily(s string) (class, superfamily string) {
	class, superfamily, ok := strings.Cut(s, "/")
	if !ok {
		return class, Unknown
	}
	return class, superfamily
}
