package appcore

// SpeciesResult describes one processed species.
type SpeciesResult struct {
	Dir        string `json:"dir"`
	Species    string `json:"species"`
	Records    int    `json:"records"`
	Kept       int    `json:"kept"`
	Matched    int    `json:"matched"`
	Unmatched  int    `json:"unmatched"`
	Duplicates int    `json:"duplicates"`
}

// Failure is a species directory that was skipped or failed.
type Failure struct {
	Dir     string `json:"dir"`
	Species string `json:"species"`
	Reason  string `json:"reason"`
}

// Summary is the outcome of a collect run.
type Summary struct {
	RunID           string          `json:"run_id"`
	Depth           string          `json:"depth"`
	Processed       []SpeciesResult `json:"processed"`
	Ignored         []string        `json:"ignored"`
	Failed          []Failure       `json:"failed"`
	CountMatrix     string          `json:"count_matrix"`
	DivergenceFiles []string        `json:"divergence_files"`
	Database        string          `json:"database,omitempty"`
}

func (s *Summary) fail(dir, species string, err error) {
	s.Failed = append(s.Failed, Failure{Dir: dir, Species: species, Reason: err.Error()})
}

// OK reports whether every accepted species was processed.
func (s *Summary) OK() bool { return len(s.Failed) == 0 }
