package rmout

import (
	"fmt"
	"strconv"
	"strings"

	"repeattools/internal/repeat"
)

// Column maps one whitespace-separated .out field onto a Record.
// Columns are applied in order; the slice index is the field position.
type Column struct {
	Name string
	Set  func(r *repeat.Record, tok string) error
}

// Field positions referenced outside the schema.
const (
	colMatch    = 8
	colRefStart = 11
	colRefLeft  = 13
)

// Columns is the RepeatMasker .out layout (15 fields; later fields such as
// the overlap marker "*" are ignored).
var Columns = []Column{
	{"sw", intField(func(r *repeat.Record) *int { return &r.Score })},
	{"per div", floatField(func(r *repeat.Record) *float64 { return &r.Divergence })},
	{"per del", floatField(func(r *repeat.Record) *float64 { return &r.Deletion })},
	{"per ins", floatField(func(r *repeat.Record) *float64 { return &r.Insertion })},
	{"seqid", func(r *repeat.Record, tok string) error { r.SequenceID = tok; return nil }},
	{"start", intField(func(r *repeat.Record) *int { return &r.Start })},
	{"end", intField(func(r *repeat.Record) *int { return &r.End })},
	{"q left", parenField(func(r *repeat.Record) *int { return &r.QueryLeft })},
	{"match", setMatch},
	{"repeat", func(r *repeat.Record, tok string) error { r.Name = tok; return nil }},
	{"class/family", func(r *repeat.Record, tok string) error {
		r.Class, r.Superfamily = repeat.SplitClassFamily(tok)
		return nil
	}},
	{"r start", intField(func(r *repeat.Record) *int { return &r.RefStart })},
	{"r end", intField(func(r *repeat.Record) *int { return &r.RefEnd })},
	{"r left", parenField(func(r *repeat.Record) *int { return &r.RefLeft })},
	{"id", intField(func(r *repeat.Record) *int { return &r.ID })},
}

func setMatch(r *repeat.Record, tok string) error {
	switch tok {
	case "+":
		r.Complement = false
	case "C":
		r.Complement = true
	default:
		return fmt.Errorf("%w: match orientation %q", ErrBadField, tok)
	}
	return nil
}

func intField(at func(*repeat.Record) *int) func(*repeat.Record, string) error {
	return func(r *repeat.Record, tok string) error {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadField, tok)
		}
		*at(r) = v
		return nil
	}
}

// parenField accepts "(123)" as written by RepeatMasker for bases left.
func parenField(at func(*repeat.Record) *int) func(*repeat.Record, string) error {
	inner := intField(at)
	return func(r *repeat.Record, tok string) error {
		return inner(r, strings.Trim(tok, "()"))
	}
}

func floatField(at func(*repeat.Record) *float64) func(*repeat.Record, string) error {
	return func(r *repeat.Record, tok string) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadField, tok)
		}
		*at(r) = v
		return nil
	}
}
