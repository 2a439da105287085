package repeat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned for a depth that names no record field.
var ErrUnknownCategory = errors.New("unknown category field")

// Field names a record column used to group repeats (the matrix "depth").
type Field string

const (
	FieldSuperfamily    Field = "superfamily"
	FieldClass          Field = "class"
	FieldTesOrder       Field = "tes_order"
	FieldTesSuperfamily Field = "tes_superfamily"
	FieldClade          Field = "clade"
	FieldDomains        Field = "domains"
	FieldCompleteness   Field = "completeness"
	FieldSequenceID     Field = "sequence_id"
	FieldRepeatName     Field = "repeat_name"
)

var fieldAliases = map[string]Field{
	"tes order":       FieldTesOrder,
	"tes superfamily": FieldTesSuperfamily,
	"complete":        FieldCompleteness,
	"seqid":           FieldSequenceID,
	"repeat":          FieldRepeatName,
}

// Fields lists the accepted depths in help order.
func Fields() []Field {
	return []Field{
		FieldSuperfamily, FieldClass, FieldTesOrder, FieldTesSuperfamily,
		FieldClade, FieldDomains, FieldCompleteness, FieldSequenceID, FieldRepeatName,
	}
}

// ParseField resolves a depth name, accepting the legacy spaced spellings.
func ParseField(s string) (Field, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if f, ok := fieldAliases[k]; ok {
		return f, nil
	}
	for _, f := range Fields() {
		if string(f) == k {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
}

// Value extracts the field from r. Domain lists are flattened with
// FormatDomains so they can be used as a map key.
func (f Field) Value(r *Record) string {
	switch f {
	case FieldSuperfamily:
		return r.Superfamily
	case FieldClass:
		return r.Class
	case FieldTesOrder:
		return r.TesOrder()
	case FieldTesSuperfamily:
		return r.TesSuperfamily()
	case FieldClade:
		return r.Clade()
	case FieldDomains:
		return FormatDomains(r.Domains())
	case FieldCompleteness:
		return r.Completeness()
	case FieldSequenceID:
		return r.SequenceID
	case FieldRepeatName:
		return r.Name
	}
	return ""
}

// Categorizer assigns each record to a category. With Override set, an
// Unknown superfamily (or class) falls back to the TEsorter superfamily (or
// order) when TEsorter reports a usable value.
type Categorizer struct {
	Field    Field
	Override bool
}

func (c Categorizer) Category(r *Record) string {
	v := c.Field.Value(r)
	if !c.Override || v != Unknown || r.Classifier == nil {
		return v
	}
	var alt string
	switch c.Field {
	case FieldSuperfamily:
		alt = r.Classifier.Superfamily
	case FieldClass:
		alt = r.Classifier.Order
	default:
		return v
	}
	switch strings.ToLower(alt) {
	case "", None, "unknown":
		return v
	}
	return alt
}
