// Package tesorter reads TEsorter .cls.tsv classification tables.
package tesorter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"repeattools/internal/repeat"
	"repeattools/internal/textio"
)

var (
	ErrMalformedTE   = errors.New("malformed #TE field")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyInput    = errors.New("no header row")
)

// ParseError locates a malformed row. A bad #TE value aborts the whole file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Column names after case folding.
const (
	ColTE          = "#te"
	ColOrder       = "order"
	ColSuperfamily = "superfamily"
	ColClade       = "clade"
	ColComplete    = "complete"
	ColStrand      = "strand"
	ColDomains     = "domains"
)

var required = []string{ColTE, ColOrder, ColSuperfamily, ColDomains}

// columns assigns the known classification columns; anything else is kept
// in Classification.Extra.
var columns = map[string]func(c *repeat.Classification, v string){
	ColOrder:       func(c *repeat.Classification, v string) { c.Order = v },
	ColSuperfamily: func(c *repeat.Classification, v string) { c.Superfamily = v },
	ColClade:       func(c *repeat.Classification, v string) { c.Clade = v },
	ColComplete:    func(c *repeat.Classification, v string) { c.Completeness = v },
	ColStrand:      func(c *repeat.Classification, v string) { c.Strand = repeat.ParseStrand(v) },
	ColDomains:     func(c *repeat.Classification, v string) { c.Domains = repeat.ParseDomains(v) },
}

// ParseFile opens path (plain or gzip) and parses it.
func ParseFile(path string) ([]repeat.Annotation, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Parse(rc, path)
}

// Parse reads a tab-separated table with a header row.
func Parse(r io.Reader, name string) ([]repeat.Annotation, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: name, Line: 1, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, err
	}
	header := make([]string, len(head))
	pos := make(map[string]int, len(head))
	for i, h := range head {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		pos[header[i]] = i
	}
	for _, c := range required {
		if _, ok := pos[c]; !ok {
			return nil, &ParseError{Path: name, Line: 1, Err: fmt.Errorf("%w %q", ErrMissingColumn, c)}
		}
	}

	var list []repeat.Annotation
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		a, err := parseRow(header, pos, row)
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Err: err}
		}
		list = append(list, a)
	}
	return list, nil
}

func parseRow(header []string, pos map[string]int, row []string) (repeat.Annotation, error) {
	var a repeat.Annotation
	te := cell(row, pos[ColTE])
	seqID, start, end, rep, classFamily, err := ParseTE(te)
	if err != nil {
		return a, err
	}
	a.SequenceID, a.Start, a.End, a.Name = seqID, start, end, rep
	a.Class, a.Superfamily = repeat.SplitClassFamily(classFamily)
	a.Length = a.End - a.Start

	for i, h := range header {
		if h == ColTE {
			continue
		}
		v := cell(row, i)
		if set, ok := columns[h]; ok {
			set(&a.Classification, v)
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]string)
		}
		a.Extra[h] = v
	}
	if len(a.Domains) == 0 {
		a.Domains = repeat.NoneDomains()
	}
	return a, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ParseTE decodes "seqid:start..end_repeat#class/family" by successive
// splits on ':', '_', '..' and '#'.
func ParseTE(s string) (seqID string, start, end int, rep, classFamily string, err error) {
	seqID, info, ok := strings.Cut(s, ":")
	if !ok {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: no ':'", ErrMalformedTE, s)
	}
	span, repInfo, ok := strings.Cut(info, "_")
	if !ok {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: no '_'", ErrMalformedTE, s)
	}
	startStr, endStr, ok := strings.Cut(span, "..")
	if !ok {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: no '..'", ErrMalformedTE, s)
	}
	rep, classFamily, ok = strings.Cut(repInfo, "#")
	if !ok {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: no '#'", ErrMalformedTE, s)
	}
	if start, err = strconv.Atoi(startStr); err != nil {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: bad start", ErrMalformedTE, s)
	}
	if end, err = strconv.Atoi(endStr); err != nil {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: bad end", ErrMalformedTE, s)
	}
	if end < start {
		return "", 0, 0, "", "", fmt.Errorf("%w %q: end before start", ErrMalformedTE, s)
	}
	return seqID, start, end, rep, classFamily, nil
}
