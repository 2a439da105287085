package species

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repeattools/internal/textio"
)

var (
	ErrMissingFile   = errors.New("required file not found")
	ErrDuplicateFile = errors.New("more than one candidate file")
)

// Input file suffixes (optionally followed by .gz).
const (
	MaskerSuffix     = ".out"
	ClassifierSuffix = ".cls.tsv"
)

// Job is one species directory ready to process.
type Job struct {
	Dir            string
	Species        string
	MaskerPath     string
	ClassifierPath string
}

// Failure is a directory that could not be accepted or processed.
type Failure struct {
	Dir     string
	Species string
	Err     error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Species, f.Err) }

// Plan is the outcome of scanning the input directory.
type Plan struct {
	Accepted []Job
	Ignored  []string  // directories absent from the names file
	Failed   []Failure // directories with missing or ambiguous inputs
}

// Discover scans root's sub-directories in name order. A directory listed
// in names must hold exactly one RepeatMasker and one TEsorter file.
func Discover(root string, names *Names) (Plan, error) {
	var p Plan
	ents, err := os.ReadDir(root)
	if err != nil {
		return p, err
	}
	for _, e := range ents {
		if !e.IsDir() {
			continue
		}
		sp, ok := names.Species(e.Name())
		if !ok {
			p.Ignored = append(p.Ignored, e.Name())
			continue
		}
		dir := filepath.Join(root, e.Name())
		job := Job{Dir: dir, Species: sp}
		if job.MaskerPath, err = findOne(dir, MaskerSuffix); err != nil {
			p.Failed = append(p.Failed, Failure{Dir: e.Name(), Species: sp, Err: fmt.Errorf("RepeatMasker file (*%s): %w", MaskerSuffix, err)})
			continue
		}
		if job.ClassifierPath, err = findOne(dir, ClassifierSuffix); err != nil {
			p.Failed = append(p.Failed, Failure{Dir: e.Name(), Species: sp, Err: fmt.Errorf("TEsorter file (*%s): %w", ClassifierSuffix, err)})
			continue
		}
		p.Accepted = append(p.Accepted, job)
	}
	return p, nil
}

func findOne(dir, suffix string) (string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var hits []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(textio.TrimGz(e.Name()), suffix) {
			hits = append(hits, filepath.Join(dir, e.Name()))
		}
	}
	switch len(hits) {
	case 0:
		return "", ErrMissingFile
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrDuplicateFile, strings.Join(hits, ", "))
	}
}
