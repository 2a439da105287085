package writers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"repeattools/internal/aggregate"
)

// CountMatrixName is "<basename of outDir>_count_matrix_<runID>.csv".
func CountMatrixName(outDir, runID string) string {
	base := filepath.Base(outDir)
	if abs, err := filepath.Abs(outDir); err == nil {
		base = filepath.Base(abs)
	}
	return fmt.Sprintf("%s_count_matrix_%s.csv", base, runID)
}

// WriteCountMatrix writes the header "<depth>,<species...>" and one row per
// category in the matrix order.
func WriteCountMatrix(w io.Writer, m *aggregate.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{m.Label}, m.Species...)); err != nil {
		return err
	}
	row := make([]string, len(m.Species)+1)
	for _, cat := range m.Categories {
		row[0] = cat
		for j, v := range m.Row(cat) {
			row[j+1] = strconv.Itoa(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCountMatrixFile creates path and writes m to it.
func WriteCountMatrixFile(path string, m *aggregate.Matrix) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCountMatrix(fh, m); err != nil {
		_ = fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}
