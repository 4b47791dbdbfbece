// internal/runner/runner.go
package runner

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"abm-core/sim"
	"abm/internal/report"
	"abm/internal/seedfile"
)

// Config controls the batch pool.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Identities lists the replica identities a batch will run. A batch of one
// runs the configured identity alone; larger batches run 0..Replicas-1.
func Identities(p sim.Parameters) []uint64 {
	if p.Replicas <= 1 {
		return []uint64{p.Identity}
	}
	ids := make([]uint64, p.Replicas)
	for i := range ids {
		ids[i] = uint64(i)
	}
	return ids
}

// Run executes every replica of the batch across a worker pool, reporting
// through rep. Replicas are independent; the pool only shares the reporter.
// The first failure is recorded and returned, and replicas not yet started
// are skipped once one is recorded.
func Run(cfg Config, logger *log.Logger, p sim.Parameters, seeds seedfile.Source, rep sim.Reporter) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	var (
		once     sync.Once
		firstErr error
		failed   atomic.Bool
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			failed.Store(true)
			if !report.IsBrokenPipe(err) {
				logger.Error("replica failed", "error", err)
			}
		})
	}

	jobs := make(chan uint64, cfg.Threads*2)

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for identity := range jobs {
				if failed.Load() {
					continue
				}
				if err := runReplica(logger, p, seeds, identity, rep); err != nil {
					fail(err)
				}
			}
		}()
	}

	for _, identity := range Identities(p) {
		jobs <- identity
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

func runReplica(logger *log.Logger, p sim.Parameters, seeds seedfile.Source, identity uint64, rep sim.Reporter) error {
	rp := p
	rp.BaseSeed = seeds.BaseFor(identity)
	logger.Debug("replica start", "identity", identity, "seed", rp.BaseSeed)
	s := sim.New(identity, rp)
	if err := s.Run(rep); err != nil {
		return fmt.Errorf("replica %d: %w", identity, err)
	}
	t := s.Tally()
	logger.Debug("replica done", "identity", identity,
		"susceptible", t.Susceptible, "infectious", t.Infectious, "dead", t.Dead)
	return nil
}
