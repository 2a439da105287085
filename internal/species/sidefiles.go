// Package species reads the per-run side inputs (names, chromosome and
// domain files) and discovers the species directories to process.
package species

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"repeattools/internal/filter"
	"repeattools/internal/repeat"
)

var ErrBadLine = errors.New("malformed line")

// Names maps species directory names to species names, keeping file order.
type Names struct {
	Dirs  []string
	byDir map[string]string
}

func (n *Names) Species(dir string) (string, bool) {
	s, ok := n.byDir[dir]
	return s, ok
}

func (n *Names) Len() int { return len(n.Dirs) }

// ReadNames parses "dir<TAB>species" lines. A repeated dir keeps the last
// species name.
func ReadNames(r io.Reader) (*Names, error) {
	n := &Names{byDir: make(map[string]string)}
	err := eachTabLine(r, func(ln int, key, val string) error {
		if _, seen := n.byDir[key]; !seen {
			n.Dirs = append(n.Dirs, key)
		}
		n.byDir[key] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ReadChromosomes parses "species<TAB>chr1,chr2,..." lines.
func ReadChromosomes(r io.Reader) (map[string]filter.Set, error) {
	out := make(map[string]filter.Set)
	err := eachTabLine(r, func(ln int, key, val string) error {
		set := out[key]
		if set == nil {
			set = filter.NewSet()
			out[key] = set
		}
		for _, c := range splitList(val) {
			set[c] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadDomains parses the two-row domains file: a "domains clades features"
// header and one tab-separated row of comma-separated values. Features are
// written as Dom:Clade.
func ReadDomains(r io.Reader) (filter.DomainCriteria, error) {
	var c filter.DomainCriteria
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return c, err
	}
	if len(rows) == 0 {
		return c, fmt.Errorf("domains file: %w: no header", ErrBadLine)
	}
	pos := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"domains", "clades", "features"} {
		if _, ok := pos[want]; !ok {
			return c, fmt.Errorf("domains file: %w: missing %q column", ErrBadLine, want)
		}
	}
	for _, row := range rows[1:] {
		get := func(col string) string {
			if i := pos[col]; i < len(row) {
				return row[i]
			}
			return ""
		}
		c.Domains = splitList(get("domains"))
		c.Clades = splitList(get("clades"))
		c.Features = nil
		for _, f := range splitList(get("features")) {
			dom, clade, ok := strings.Cut(f, ":")
			if !ok {
				return c, fmt.Errorf("domains file: %w: feature %q is not Dom:Clade", ErrBadLine, f)
			}
			c.Features = append(c.Features, repeat.Domain{Name: dom, Clade: clade})
		}
	}
	return c, nil
}

// ReadFile opens path and applies read.
func ReadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	fh, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() { _ = fh.Close() }()
	v, err := read(fh)
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func eachTabLine(r io.Reader, fn func(ln int, key, val string) error) error {
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, val, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("line %d: %w: want key<TAB>value", ln, ErrBadLine)
		}
		if err := fn(ln, strings.TrimSpace(key), strings.TrimSpace(val)); err != nil {
			return err
		}
	}
	return sc.Err()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
