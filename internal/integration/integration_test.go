// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"abm/internal/app"
	"abm/internal/report"
	"abm/pkg/api"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ABM_SEED", "ABM_SEED_FILE", "ABM_THREADS", "ABM_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

// smallBatch holds the batch small enough for tests: 2 replicas, 30
// agents, 4 ticks reported every 2.
var smallBatch = []string{
	"-s", "2", "-a", "30", "--infections", "3", "-i", "4",
	"--report-interval", "2", "-e", "5", "-m", "one", "-t", "1", "-q",
}

func TestEndToEnd_SmallBatch(t *testing.T) {
	clearEnv(t)
	code, out, errBuf := run(t, smallBatch...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want header + 2 replicas x 3 rows:\n%s", len(lines), out)
	}
	if lines[0] != report.TallyHeader {
		t.Fatalf("first line %q, want header", lines[0])
	}
	if lines[1] != "0,0,27,3,0,0,0,3,0" {
		t.Fatalf("first data row %q", lines[1])
	}
}

func TestEndToEnd_IterationsZeroEmitsRowTwice(t *testing.T) {
	clearEnv(t)
	code, out, errBuf := run(t, "-s", "1", "--identity", "5", "-i", "0", "-q")
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf)
	}
	want := report.TallyHeader + "\n" +
		"5,0,9990,10,0,0,0,10,0\n" +
		"5,0,9990,10,0,0,0,10,0\n"
	if out != want {
		t.Fatalf("output:\n%swant:\n%s", out, want)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	clearEnv(t)
	exec := func(threads string) []string {
		argv := append([]string{}, smallBatch...)
		argv = append(argv, "-s", "6", "-t", threads)
		code, out, errBuf := run(t, argv...)
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errBuf)
		}
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		sort.Strings(lines)
		return lines
	}

	serial := exec("1")
	parallel := exec("4")

	if len(serial) != len(parallel) {
		t.Fatalf("line counts differ: serial %d, parallel %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("sorted line %d differs\nserial:   %s\nparallel: %s", i, serial[i], parallel[i])
		}
	}
}

func TestSingleReplicaKeepsIdentity(t *testing.T) {
	clearEnv(t)
	argv := append([]string{}, smallBatch...)
	argv = append(argv, "-s", "1", "--identity", "5")
	code, out, errBuf := run(t, argv...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf)
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n")[1:] {
		if !strings.HasPrefix(line, "5,") {
			t.Fatalf("row %q not from identity 5", line)
		}
	}
}

func TestNoHeaderSuppressesHeader(t *testing.T) {
	clearEnv(t)
	argv := append([]string{}, smallBatch...)
	argv = append(argv, "--no-header")
	code, out, _ := run(t, argv...)
	if code != 0 {
		t.Fatalf("run exit %d", code)
	}
	if strings.Contains(out, report.TallyHeader) {
		t.Fatalf("header present despite --no-header:\n%s", out)
	}
	if lines := strings.Split(strings.TrimRight(out, "\n"), "\n"); len(lines) != 6 {
		t.Fatalf("got %d lines, want 6 data rows", len(lines))
	}
}

func TestJSONLRows(t *testing.T) {
	clearEnv(t)
	argv := append([]string{}, smallBatch...)
	argv = append(argv, "-o", "jsonl")
	code, out, errBuf := run(t, argv...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}
	for _, line := range lines {
		var row api.TallyV1
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		if row.Replica > 1 || row.Iteration%2 != 0 || row.Iteration > 4 {
			t.Fatalf("unexpected row %+v", row)
		}
		if sum := row.Susceptible + row.Infectious + row.Recovered + row.Vaccinated + row.Dead; sum < 30 {
			t.Fatalf("state counts sum to %d, want the full population", sum)
		}
	}
}

func TestInitThenScenarioRun(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "scenario.toml")

	code, out, errBuf := run(t, "init", path)
	if code != 0 {
		t.Fatalf("init exit %d, err=%s", code, errBuf)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("init output %q does not name the file", out)
	}

	if code, _, _ = run(t, "init", path); code != 2 {
		t.Fatalf("re-init without --force exit %d, want 2", code)
	}
	if code, _, _ = run(t, "init", path, "--force"); code != 0 {
		t.Fatalf("re-init with --force exit %d, want 0", code)
	}

	// The written scenario carries full-size defaults; shrink via flags.
	code, out, errBuf = run(t, "--scenario", path,
		"-s", "1", "-i", "2", "-a", "20", "--infections", "2",
		"--report-interval", "1", "-m", "one", "-q")
	if code != 0 {
		t.Fatalf("scenario run exit %d, err=%s", code, errBuf)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), out)
	}
	if lines[1] != "0,0,18,2,0,0,0,2,0" {
		t.Fatalf("first data row %q", lines[1])
	}
}

func TestSeedFileMatchesPlainSeed(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	if err := os.WriteFile(path, []byte("7\n7\n"), 0o644); err != nil {
		t.Fatalf("write seeds: %v", err)
	}

	argvFile := append([]string{}, smallBatch...)
	argvFile = append(argvFile, "--seed-file", path)
	codeA, outA, _ := run(t, argvFile...)

	argvSeed := append([]string{}, smallBatch...)
	argvSeed = append(argvSeed, "--seed", "7")
	codeB, outB, _ := run(t, argvSeed...)

	if codeA != 0 || codeB != 0 {
		t.Fatalf("exits %d and %d, want 0", codeA, codeB)
	}
	if outA != outB {
		t.Fatalf("--seed-file and --seed diverge:\nfile:\n%s\nseed:\n%s", outA, outB)
	}
}

func TestAgentDumpWritten(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "agents.csv")
	argv := append([]string{}, smallBatch...)
	argv = append(argv, "-s", "1", "--output-agents", "2", "--agent-file", path)
	code, _, errBuf := run(t, argv...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "id,state" {
		t.Fatalf("dump header %q", lines[0])
	}
	if len(lines) != 31 {
		t.Fatalf("dump has %d lines, want header + 30 agents", len(lines))
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	clearEnv(t)
	cases := [][]string{
		{"--bogus"},
		{"-m", "sideways"},
		{"-o", "xml"},
		{"unexpected-arg"},
	}
	for _, argv := range cases {
		if code, _, errBuf := run(t, argv...); code != 2 {
			t.Fatalf("argv %v exit %d (stderr %q), want 2", argv, code, errBuf)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	clearEnv(t)
	code, out, _ := run(t, "--version")
	if code != 0 {
		t.Fatalf("--version exit %d", code)
	}
	if !strings.Contains(out, "abm") {
		t.Fatalf("version output %q", out)
	}
}
