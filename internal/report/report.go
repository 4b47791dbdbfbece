// internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"abm-core/sim"
	"abm/pkg/api"
)

// Output formats for tally snapshots.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// TallyHeader is the canonical header row for tally CSV output.
// Keep this as the single source of truth; the sink and the tests use it.
const TallyHeader = "#,iter,S,I,R,V,D,TI,TID"

// FormatTallyCSV returns one tally row (no trailing newline).
func FormatTallyCSV(replica uint64, iteration int, t sim.Tally) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%d,%d",
		replica, iteration,
		t.Susceptible, t.Infectious, t.Recovered, t.Vaccinated, t.Dead,
		t.TotalInfections, t.InfectionDeaths)
}

// TallyV1 converts a snapshot to the stable wire schema.
func TallyV1(replica uint64, iteration int, t sim.Tally) api.TallyV1 {
	return api.TallyV1{
		Replica:         replica,
		Iteration:       iteration,
		Susceptible:     t.Susceptible,
		Infectious:      t.Infectious,
		Recovered:       t.Recovered,
		Vaccinated:      t.Vaccinated,
		Dead:            t.Dead,
		TotalInfections: t.TotalInfections,
		InfectionDeaths: t.InfectionDeaths,
	}
}

// Reporter turns tally callbacks into sink lines and, when configured,
// rewrites the agent dump file. One instance is shared by every replica
// of a batch; the sink guards the tally stream and dumpMu plus a file
// lock guard the dump.
type Reporter struct {
	sink      *Sink
	format    string
	dumpEvery int
	dumpPath  string
	dumpMu    sync.Mutex
}

// New builds a reporter. format is FormatCSV or FormatJSONL. dumpEvery
// enables the agent dump when positive.
func New(sink *Sink, format string, dumpEvery int, dumpPath string) *Reporter {
	return &Reporter{
		sink:      sink,
		format:    format,
		dumpEvery: dumpEvery,
		dumpPath:  dumpPath,
	}
}

// Report writes one snapshot line for the replica and handles the dump
// trigger: a positive dump interval, on a positive iteration divisible by
// it.
func (r *Reporter) Report(s *sim.Simulation, iteration int) error {
	tal := s.Tally()
	var line string
	switch r.format {
	case FormatJSONL:
		b, err := json.Marshal(TallyV1(s.Identity(), iteration, tal))
		if err != nil {
			return fmt.Errorf("encode tally: %w", err)
		}
		line = string(b)
	default:
		line = FormatTallyCSV(s.Identity(), iteration, tal)
	}
	if err := r.sink.WriteLine(line); err != nil {
		return fmt.Errorf("write tally: %w", err)
	}
	if r.dumpEvery > 0 && iteration > 0 && iteration%r.dumpEvery == 0 {
		if err := r.dumpAgents(s); err != nil {
			return fmt.Errorf("dump agents: %w", err)
		}
	}
	return nil
}

// dumpAgents rewrites the dump file under both the process-local mutex
// and an advisory file lock, so concurrent replicas and concurrent
// processes each produce an internally consistent file. Last writer wins.
func (r *Reporter) dumpAgents(s *sim.Simulation) error {
	r.dumpMu.Lock()
	defer r.dumpMu.Unlock()

	lock := flock.New(r.dumpPath + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.Create(r.dumpPath)
	if err != nil {
		return err
	}
	if err := s.WriteAgents(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
