// pkg/api/records_v1.go
package api

// RecordV1 is the stable JSON/JSONL schema for one merged repeat.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type RecordV1 struct {
	SequenceID  string  `json:"sequence_id"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Length      int     `json:"length"`
	Match       string  `json:"match"` // "+" | "C"
	RepeatName  string  `json:"repeat_name"`
	Class       string  `json:"class"`
	Superfamily string  `json:"superfamily"`
	Score       int     `json:"sw_score"`
	Divergence  float64 `json:"per_div"`
	Deletion    float64 `json:"per_del"`
	Insertion   float64 `json:"per_ins"`
	QueryLeft   int     `json:"query_left"`
	RefStart    int     `json:"ref_start"`
	RefEnd      int     `json:"ref_end"`
	RefLeft     int     `json:"ref_left"`
	ID          int     `json:"id"`

	// Classifier is null when TEsorter has no row for the repeat.
	Classifier *ClassificationV1 `json:"classifier"`
}

// ClassificationV1 carries the TEsorter columns of a matched repeat.
type ClassificationV1 struct {
	Order        string            `json:"tes_order"`
	Superfamily  string            `json:"tes_superfamily"`
	Clade        string            `json:"clade"`
	Completeness string            `json:"completeness"`
	Strand       string            `json:"strand"` // "+" | "-" | "none"
	Domains      []DomainV1        `json:"domains"`
	Extra        map[string]string `json:"extra,omitempty"`
}

type DomainV1 struct {
	Name  string `json:"name"`
	Clade string `json:"clade"`
}
