// Package rmout reads RepeatMasker .out annotations.
package rmout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"repeattools/internal/repeat"
	"repeattools/internal/textio"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrBadField       = errors.New("bad field")
	ErrBadCoordinates = errors.New("end before start")
)

// ParseError locates a malformed line. It is fatal for the file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile opens path (plain or gzip) and parses it.
func ParseFile(path string) ([]repeat.Record, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Parse(rc, path)
}

// Parse reads every data line of r. Blank lines and the two header lines
// ("SW ..." / "score ...") are skipped; any other malformed line aborts.
func Parse(r io.Reader, name string) ([]repeat.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	var list []repeat.Record
	ln := 0
	for sc.Scan() {
		ln++
		rec, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, &ParseError{Path: name, Line: ln, Err: err}
		}
		if ok {
			list = append(list, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ParseLine parses one line. ok is false for blank and header lines.
func ParseLine(line string) (rec repeat.Record, ok bool, err error) {
	f := strings.Fields(line)
	if len(f) == 0 || isHeader(f[0]) {
		return rec, false, nil
	}
	if len(f) < len(Columns) {
		return rec, false, fmt.Errorf("%w: want %d fields, got %d", ErrMissingField, len(Columns), len(f))
	}
	// Complement matches report position-in-repeat as (left) end begin.
	if f[colMatch] == "C" {
		f[colRefStart], f[colRefLeft] = f[colRefLeft], f[colRefStart]
	}
	for i, c := range Columns {
		if err := c.Set(&rec, f[i]); err != nil {
			return rec, false, fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	if rec.End < rec.Start {
		return rec, false, fmt.Errorf("%w: %d..%d", ErrBadCoordinates, rec.Start, rec.End)
	}
	rec.Length = rec.End - rec.Start
	return rec, true, nil
}

func isHeader(tok string) bool {
	return strings.HasPrefix(tok, "SW") || strings.HasPrefix(tok, "score")
}
