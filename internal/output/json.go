// internal/output/json.go
package output

import (
	"io"
	"maps"

	"repeattools/internal/jsonutil"
	"repeattools/internal/repeat"
	"repeattools/pkg/api"
)

// ToAPIRecord converts a merged record to the stable wire schema (v1).
func ToAPIRecord(r repeat.Record) api.RecordV1 {
	v := api.RecordV1{
		SequenceID:  r.SequenceID,
		Start:       r.Start,
		End:         r.End,
		Length:      r.Length,
		Match:       matchSymbol(&r),
		RepeatName:  r.Name,
		Class:       r.Class,
		Superfamily: r.Superfamily,
		Score:       r.Score,
		Divergence:  r.Divergence,
		Deletion:    r.Deletion,
		Insertion:   r.Insertion,
		QueryLeft:   r.QueryLeft,
		RefStart:    r.RefStart,
		RefEnd:      r.RefEnd,
		RefLeft:     r.RefLeft,
		ID:          r.ID,
	}
	if c := r.Classifier; c != nil {
		cv := &api.ClassificationV1{
			Order:        c.Order,
			Superfamily:  c.Superfamily,
			Clade:        c.Clade,
			Completeness: c.Completeness,
			Strand:       c.Strand.String(),
			Extra:        maps.Clone(c.Extra),
		}
		for _, d := range r.Domains() {
			cv.Domains = append(cv.Domains, api.DomainV1{Name: d.Name, Clade: d.Clade})
		}
		v.Classifier = cv
	}
	return v
}

func toAPIRecords(list []repeat.Record) []api.RecordV1 {
	out := make([]api.RecordV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIRecord(r))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 records (pretty-indented).
func WriteJSON(w io.Writer, list []repeat.Record) error {
	return jsonutil.EncodePretty(w, toAPIRecords(list))
}
