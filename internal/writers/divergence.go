package writers

import (
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repeattools/internal/aggregate"
	"repeattools/internal/output"
)

// DivergenceDirName is the directory holding per-category divergence files.
func DivergenceDirName(depth string) string { return depth + "_divergence_files" }

// SafeName maps a category to a file-name-safe token. A category that had
// to be rewritten gets a hash suffix of its raw value, so distinct
// categories never share a file.
func SafeName(category string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			return r
		}
		return '_'
	}, category)
	if safe == category && safe != "" {
		return safe
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	return fmt.Sprintf("%s_%08x", safe, h.Sum32())
}

// DivergenceSink appends long-form divergence rows to one CSV per category.
// A file is truncated the first time the sink writes to it and appended to
// afterwards, so species accumulate within a run but not across runs.
type DivergenceSink struct {
	dir    string
	header []string
	seen   map[string]struct{} // paths written during this run
	last   []mark              // files touched by the latest Append
}

// mark remembers how to revert one file to its state before an Append.
type mark struct {
	path  string
	size  int64
	fresh bool
}

// NewDivergenceSink creates <outDir>/<depth>_divergence_files.
func NewDivergenceSink(outDir, depth string) (*DivergenceSink, error) {
	dir := filepath.Join(outDir, DivergenceDirName(depth))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DivergenceSink{
		dir:    dir,
		header: []string{"species", depth, "per div"},
		seen:   make(map[string]struct{}),
	}, nil
}

func (s *DivergenceSink) Dir() string { return s.dir }

// Path returns the file used for category.
func (s *DivergenceSink) Path(category string) string {
	return filepath.Join(s.dir, SafeName(category)+"_divergence.csv")
}

// Files lists the files written so far, sorted.
func (s *DivergenceSink) Files() []string {
	out := make([]string, 0, len(s.seen))
	for p := range s.seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Append writes rows grouped by category, keeping row order within a group.
// On error every file touched by this call is reverted.
func (s *DivergenceSink) Append(rows []aggregate.DivergenceRow) error {
	s.last = s.last[:0]
	order, groups := aggregate.GroupDivergence(rows)
	for _, cat := range order {
		if err := s.appendGroup(s.Path(cat), groups[cat]); err != nil {
			if uerr := s.Undo(); uerr != nil {
				return fmt.Errorf("%w (revert: %v)", err, uerr)
			}
			return err
		}
	}
	return nil
}

// Undo reverts the latest Append: appended files are truncated back to their
// previous size and files it created are removed.
func (s *DivergenceSink) Undo() error {
	var first error
	for i := len(s.last) - 1; i >= 0; i-- {
		m := s.last[i]
		var err error
		if m.fresh {
			delete(s.seen, m.path)
			err = os.Remove(m.path)
		} else {
			err = os.Truncate(m.path, m.size)
		}
		if err != nil && first == nil {
			first = err
		}
	}
	s.last = s.last[:0]
	return first
}

func (s *DivergenceSink) appendGroup(path string, rows []aggregate.DivergenceRow) error {
	_, again := s.seen[path]
	m := mark{path: path, fresh: !again}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if again {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		m.size = fi.Size()
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	fh, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	s.seen[path] = struct{}{}
	s.last = append(s.last, m)

	cw := csv.NewWriter(fh)
	if !again {
		_ = cw.Write(s.header)
	}
	for _, r := range rows {
		_ = cw.Write([]string{r.Species, r.Category, output.FormatFloat(r.Divergence)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}
