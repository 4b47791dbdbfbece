// internal/cli/options.go
package cli

import (
	"github.com/spf13/pflag"

	"abm-core/sim"
)

// Output formats accepted by --output.
const (
	OutputCSV   = "csv"
	OutputJSONL = "jsonl"
)

// Options holds all root-command flags. Flag defaults mirror the canonical
// parameter set so --help shows the values a bare run uses; whether a flag
// was explicitly set is tracked by the flag set, not here.
type Options struct {
	// Scenario and seeding
	ScenarioFile string
	Seed         uint64
	SeedFile     string

	// Batch shape
	Replicas   int
	Identity   uint64
	Iterations int
	Agents     int
	Infections int
	Encounters int

	// Event probabilities
	GrowthRate           float64
	DeathProbSusceptible float64
	DeathProbInfectious  float64
	RecoveryProb         float64
	VaccinationProb      float64
	RegressionProb       float64

	// Infection method and reporting
	Method              string
	ReportInterval      int
	AgentOutputInterval int
	AgentFile           string

	// Output
	Output   string
	NoHeader bool

	// Performance and logging
	Threads  int
	LogLevel string
	Quiet    bool
}

// bind registers every root-command flag. Shorthands follow the original
// simulator (-v is vaccination probability, so --version has none).
func bind(fs *pflag.FlagSet, opt *Options) {
	d := sim.Defaults()

	fs.StringVar(&opt.ScenarioFile, "scenario", "", "TOML scenario file")
	fs.Uint64Var(&opt.Seed, "seed", 0, "base seed for replica seed scaling")
	fs.StringVar(&opt.SeedFile, "seed-file", "", "seed file, one value per line (overrides --seed)")

	fs.IntVarP(&opt.Replicas, "simulations", "s", d.Replicas, "number of replica simulations")
	fs.Uint64Var(&opt.Identity, "identity", d.Identity, "replica identity when running a single simulation")
	fs.IntVarP(&opt.Iterations, "iterations", "i", d.Iterations, "ticks per replica")
	fs.IntVarP(&opt.Agents, "agents", "a", d.Agents, "initial population size")
	fs.IntVar(&opt.Infections, "infections", d.Infections, "initially infectious agents")
	fs.IntVarP(&opt.Encounters, "encounters", "e", d.Encounters, "encounter draws per tick")

	fs.Float64VarP(&opt.GrowthRate, "growth", "g", d.GrowthRate, "population growth rate per tick")
	fs.Float64Var(&opt.DeathProbSusceptible, "death-prob-susceptible", d.DeathProbSusceptible, "death probability for susceptible agents")
	fs.Float64Var(&opt.DeathProbInfectious, "death-prob-infectious", d.DeathProbInfectious, "death probability for infectious agents")
	fs.Float64VarP(&opt.RecoveryProb, "recovery-prob", "r", d.RecoveryProb, "recovery probability for infectious agents")
	fs.Float64VarP(&opt.VaccinationProb, "vaccination-prob", "v", d.VaccinationProb, "vaccination probability for susceptible agents")
	fs.Float64Var(&opt.RegressionProb, "regression-prob", d.RegressionProb, "immunity loss probability for recovered and vaccinated agents")

	fs.StringVarP(&opt.Method, "method", "m", d.Method.String(), "infection method: both | one | two")
	fs.IntVar(&opt.ReportInterval, "report-interval", d.ReportInterval, "tally report cadence in ticks")
	fs.IntVar(&opt.AgentOutputInterval, "output-agents", d.AgentOutputInterval, "agent dump cadence in ticks (0 disables)")
	fs.StringVar(&opt.AgentFile, "agent-file", d.AgentFile, "agent dump path")

	fs.StringVarP(&opt.Output, "output", "o", OutputCSV, "output format: csv | jsonl")
	fs.BoolVar(&opt.NoHeader, "no-header", false, "suppress the csv header line")

	fs.IntVarP(&opt.Threads, "threads", "t", 0, "worker threads (0 = all CPUs)")
	fs.StringVar(&opt.LogLevel, "log-level", "", "stderr log level: debug | info | warn | error")
	fs.BoolVarP(&opt.Quiet, "quiet", "q", false, "only log errors")
}
