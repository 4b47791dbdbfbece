package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abm-core/sim"
	"abm/pkg/api"
)

func testSim(t *testing.T) *sim.Simulation {
	t.Helper()
	p := sim.Defaults()
	p.Agents = 5
	p.Infections = 2
	return sim.New(1, p)
}

func TestFormatTallyCSV(t *testing.T) {
	tal := sim.Tally{
		Susceptible: 9990, Infectious: 10,
		TotalInfections: 10,
	}
	got := FormatTallyCSV(5, 0, tal)
	want := "5,0,9990,10,0,0,0,10,0"
	if got != want {
		t.Fatalf("row = %q, want %q", got, want)
	}
}

func TestReporter_CSVSnapshot(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, TallyHeader)
	rep := New(sink, FormatCSV, 0, "")

	if err := rep.Report(testSim(t), 0); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	want := TallyHeader + "\n1,0,3,2,0,0,0,2,0\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestReporter_JSONLSnapshot(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, "")
	rep := New(sink, FormatJSONL, 0, "")

	if err := rep.Report(testSim(t), 7); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	var got api.TallyV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	want := api.TallyV1{
		Replica: 1, Iteration: 7,
		Susceptible: 3, Infectious: 2,
		TotalInfections: 2,
	}
	if got != want {
		t.Fatalf("decoded = %+v, want %+v", got, want)
	}
}

func TestReporter_DumpTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agents.csv")
	var buf bytes.Buffer
	rep := New(NewSink(&buf, ""), FormatCSV, 2, path)
	s := testSim(t)

	// Tick 0 reports but never dumps.
	if err := rep.Report(s, 0); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("dump file exists after tick 0 (stat err %v)", err)
	}

	// Iteration 3 is not a multiple of the interval.
	if err := rep.Report(s, 3); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("dump file exists after off-interval tick (stat err %v)", err)
	}

	if err := rep.Report(s, 4); err != nil {
		t.Fatalf("report: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if lines[0] != sim.AgentDumpHeader {
		t.Fatalf("dump header = %q, want %q", lines[0], sim.AgentDumpHeader)
	}
	if len(lines) != 6 {
		t.Fatalf("dump has %d lines, want header plus 5 agents", len(lines))
	}
	for i, ln := range lines[1:] {
		fields := strings.Split(ln, ",")
		if len(fields) != 2 {
			t.Fatalf("row %q is not id,state", ln)
		}
		if want := []string{"0", "1", "2", "3", "4"}[i]; fields[0] != want {
			t.Fatalf("row %d id = %s, want %s (rows must be identity-sorted)", i, fields[0], want)
		}
		if len(fields[1]) != 1 || !strings.Contains("SIRVD", fields[1]) {
			t.Fatalf("row %q has invalid state letter", ln)
		}
	}
}
