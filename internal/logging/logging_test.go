package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleLevels(t *testing.T) {
	for _, tc := range []struct {
		name           string
		o              Options
		debug, info, w bool
	}{
		{"default", Options{}, false, true, true},
		{"verbose", Options{Verbose: true}, true, true, true},
		{"quiet", Options{Quiet: true}, false, false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.o.Console = &buf
			log, closer, err := New(tc.o)
			require.NoError(t, err)
			log.Debug("dbg-line")
			log.Info("info-line")
			log.Warn("warn-line")
			require.NoError(t, closer())

			out := buf.String()
			assert.Equal(t, tc.debug, strings.Contains(out, "dbg-line"))
			assert.Equal(t, tc.info, strings.Contains(out, "info-line"))
			assert.Equal(t, tc.w, strings.Contains(out, "warn-line"))
		})
	}
}

func TestRunLogIsJSONAtDebug(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), RunLogName("abc"))
	log, closer, err := New(Options{Console: &console, File: path, Quiet: true})
	require.NoError(t, err)

	log.Debug("parsed", zap.String("species", "Persea"), zap.Int("records", 3))
	log.Info("done")
	require.NoError(t, closer())

	assert.Empty(t, console.String())

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	var msgs []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		msgs = append(msgs, m["msg"].(string))
		if m["msg"] == "parsed" {
			assert.Equal(t, "Persea", m["species"])
			assert.EqualValues(t, 3, m["records"])
		}
	}
	assert.Equal(t, []string{"parsed", "done"}, msgs)
}

func TestRunLogName(t *testing.T) {
	assert.Equal(t, "RECollector.x-1.log", RunLogName("x-1"))
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "nope", "run.log")})
	require.Error(t, err)
}
