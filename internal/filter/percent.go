package filter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"repeattools/internal/repeat"
)

var (
	ErrUnknownField = errors.New("unknown percentage field (want div, del or ins)")
	ErrUnknownMode  = errors.New("unknown percentage mode (want lower_than, higher_than or equal)")
	ErrBadThreshold = errors.New("bad percentage threshold")
)

// PercentField selects one of the RepeatMasker substitution rates.
type PercentField string

const (
	Divergence PercentField = "div"
	Deletion   PercentField = "del"
	Insertion  PercentField = "ins"
)

// Mode is the threshold comparison.
type Mode string

const (
	LowerThan  Mode = "lower_than"  // <=
	HigherThan Mode = "higher_than" // >=
	Equal      Mode = "equal"       // ==
)

// ParsePercentField accepts "div", "per div" and the long names.
func ParsePercentField(s string) (PercentField, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "per ") {
	case "div", "divergence":
		return Divergence, nil
	case "del", "deletion":
		return Deletion, nil
	case "ins", "insertion":
		return Insertion, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case LowerThan, HigherThan, Equal:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ParseThreshold reads the "div=20.0" form.
func ParseThreshold(s string) (PercentField, float64, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q (want e.g. div=20.0)", ErrBadThreshold, s)
	}
	f, err := ParsePercentField(name)
	if err != nil {
		return "", 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrBadThreshold, s)
	}
	return f, v, nil
}

func (f PercentField) value(r *repeat.Record) (float64, bool) {
	switch f {
	case Divergence:
		return r.Divergence, true
	case Deletion:
		return r.Deletion, true
	case Insertion:
		return r.Insertion, true
	}
	return 0, false
}

// ByPercentage keeps records whose field compares to threshold under mode.
// An unknown field or mode is an error and leaves recs untouched.
func ByPercentage(recs []repeat.Record, field PercentField, threshold float64, mode Mode) ([]repeat.Record, error) {
	if _, ok := field.value(&repeat.Record{}); !ok {
		return recs, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	var keep func(float64) bool
	switch mode {
	case LowerThan:
		keep = func(v float64) bool { return v <= threshold }
	case HigherThan:
		keep = func(v float64) bool { return v >= threshold }
	case Equal:
		keep = func(v float64) bool { return v == threshold }
	default:
		return recs, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return slices.DeleteFunc(recs, func(r repeat.Record) bool {
		v, _ := field.value(&r)
		return !keep(v)
	}), nil
}
