// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repeattools/internal/app"
)

const maskerHeader = `   SW   perc perc perc  query      position in query     matching  repeat        position in repeat
score   div. del. ins.  sequence   begin  end    (left)   repeat    class/family  begin  end  (left)  ID

`

const maskerA = maskerHeader +
	"  452   30.6  1.4  1.4  chrA  101   400  (100) +  fam-1  LINE/L1        1   300   (0)  1\n" +
	"  300   12.0  0.5  2.0  chrA  501  1200   (50) C  fam-2  LTR/Unknown  (12)  700     1  2\n" +
	"   25    0.0  0.0  0.0  chrB   10    70  (900) +  (AT)n  Simple_repeat  1    60   (0)  3\n"

const classifierA = "#TE\tOrder\tSuperfamily\tClade\tComplete\tStrand\tDomains\n" +
	"chrA:501..1200_fam-2#LTR/Gypsy\tLTR\tGypsy\tTekay\tyes\t-\tRT|Tekay\n"

const maskerB = maskerHeader +
	"  200    5.0  0.0  0.0  chr1   10   500    (0) +  sine-1  SINE/tRNA    1   490   (0)  1\n"

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", fn, err)
	}
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func makeInput(t *testing.T) (in, names string) {
	t.Helper()
	root := t.TempDir()
	in = filepath.Join(root, "genomes")
	write(t, filepath.Join(in, "spA", "a.fa.out"), maskerA)
	write(t, filepath.Join(in, "spA", "a.fa.cls.tsv"), classifierA)
	write(t, filepath.Join(in, "spB", "b.fa.out"), maskerB)
	write(t, filepath.Join(in, "spB", "b.fa.cls.tsv"), "#TE\tOrder\tSuperfamily\tClade\tComplete\tStrand\tDomains\n")
	names = write(t, filepath.Join(root, "names.tsv"), "spA\tAlpha\nspB\tBeta\n")
	return in, names
}

func TestCollectEndToEnd(t *testing.T) {
	in, names := makeInput(t)
	out := filepath.Join(t.TempDir(), "results")

	var stdout, stderr bytes.Buffer
	code := app.Run([]string{"collect", "-i", in, "-n", names, "-o", out, "--depth", "class"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("collect exit %d, err=%s", code, stderr.String())
	}

	matrices, _ := filepath.Glob(filepath.Join(out, "results_count_matrix_*.csv"))
	if len(matrices) != 1 {
		t.Fatalf("want one count matrix, got %v", matrices)
	}
	b, err := os.ReadFile(matrices[0])
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	want := "class,Alpha,Beta\nLINE,1,0\nLTR,1,0\nSINE,0,1\nSimple_repeat,1,0\n"
	if string(b) != want {
		t.Fatalf("matrix:\n%s\nwant:\n%s", b, want)
	}

	if _, err := os.Stat(filepath.Join(out, "class_divergence_files", "LTR_divergence.csv")); err != nil {
		t.Fatalf("divergence file: %v", err)
	}

	logs, _ := filepath.Glob(filepath.Join(out, "RECollector.*.log"))
	if len(logs) != 1 {
		t.Fatalf("want one run log, got %v", logs)
	}
	lb, err := os.ReadFile(logs[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	first := strings.SplitN(string(lb), "\n", 2)[0]
	var entry map[string]any
	if err := json.Unmarshal([]byte(first), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", first)
	}
	if entry["msg"] != "run started" {
		t.Fatalf("first log entry = %v", entry)
	}
	if !strings.Contains(entry["command"].(string), "collect") {
		t.Fatalf("command not logged: %v", entry)
	}

	summaries, _ := filepath.Glob(filepath.Join(out, "RECollector.*.summary.json"))
	if len(summaries) != 1 {
		t.Fatalf("want one summary, got %v", summaries)
	}
}

func TestCollectFailedSpeciesExit3(t *testing.T) {
	in, names := makeInput(t)
	if err := os.Remove(filepath.Join(in, "spB", "b.fa.cls.tsv")); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()

	var stderr bytes.Buffer
	code := app.Run([]string{"collect", "-i", in, "-n", names, "-o", out, "-q"}, &bytes.Buffer{}, &stderr)
	if code != 3 {
		t.Fatalf("want exit 3, got %d (%s)", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Beta") {
		t.Fatalf("failure not reported on console: %s", stderr.String())
	}
	// the other species is still written
	matrices, _ := filepath.Glob(filepath.Join(out, "*_count_matrix_*.csv"))
	if len(matrices) != 1 {
		t.Fatalf("want count matrix despite failure, got %v", matrices)
	}
}

func TestCollectUsageErrors(t *testing.T) {
	in, names := makeInput(t)
	cases := [][]string{
		{"collect", "-n", names},
		{"collect", "-i", in, "-n", names, "--depth", "family"},
		{"collect", "-i", in, "-n", names, "--no-such-flag"},
		{"bogus"},
	}
	for _, argv := range cases {
		var stderr bytes.Buffer
		if code := app.Run(argv, &bytes.Buffer{}, &stderr); code != 2 {
			t.Fatalf("%v: want exit 2, got %d", argv, code)
		}
		if stderr.Len() == 0 {
			t.Fatalf("%v: expected an error message", argv)
		}
	}
}

func TestMergeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	m := write(t, filepath.Join(dir, "a.out"), maskerA)
	c := write(t, filepath.Join(dir, "a.cls.tsv"), classifierA)

	var stdout, stderr bytes.Buffer
	code := app.Run([]string{"merge", "--masker", m, "--classifier", c, "-q"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("merge exit %d, err=%s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want header plus 3 rows, got %d:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[0], "sequence_id\tstart\tend") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "Gypsy\tTekay") {
		t.Fatalf("classified row = %q", lines[2])
	}

	stdout.Reset()
	code = app.Run([]string{"merge", "--masker", m, "--classifier", c, "-f", "jsonl", "-q"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("jsonl exit %d", code)
	}
	for _, ln := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		var v map[string]any
		if err := json.Unmarshal([]byte(ln), &v); err != nil {
			t.Fatalf("bad jsonl line %q: %v", ln, err)
		}
	}
}

func TestMergeMissingFileExit3(t *testing.T) {
	dir := t.TempDir()
	c := write(t, filepath.Join(dir, "a.cls.tsv"), classifierA)
	code := app.Run([]string{"merge", "--masker", filepath.Join(dir, "nope.out"), "--classifier", c}, &bytes.Buffer{}, &bytes.Buffer{})
	if code != 3 {
		t.Fatalf("want exit 3, got %d", code)
	}
}

func TestVersionAndHelp(t *testing.T) {
	var out bytes.Buffer
	if code := app.Run([]string{"version"}, &out, &bytes.Buffer{}); code != 0 {
		t.Fatalf("version exit %d", code)
	}
	if !strings.HasPrefix(out.String(), "recollector version ") {
		t.Fatalf("version output %q", out.String())
	}

	out.Reset()
	if code := app.Run([]string{"--help"}, &out, &bytes.Buffer{}); code != 0 {
		t.Fatalf("help exit %d", code)
	}
	if !strings.Contains(out.String(), "collect") {
		t.Fatalf("help does not list collect:\n%s", out.String())
	}
}
