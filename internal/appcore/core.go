// internal/appcore/core.go
package appcore

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"

	"abm-core/sim"
	"abm/internal/cmdutil"
	"abm/internal/config"
	"abm/internal/report"
	"abm/internal/runner"
	"abm/internal/seedfile"
)

// Options mirrors the command-line surface without importing the cli
// package. Changed reports whether a flag was explicitly set on the
// command line; a nil Changed treats every field as explicit.
type Options struct {
	ScenarioFile string
	Seed         uint64
	SeedFile     string

	Replicas   int
	Identity   uint64
	Iterations int
	Agents     int
	Infections int
	Encounters int

	GrowthRate           float64
	DeathProbSusceptible float64
	DeathProbInfectious  float64
	RecoveryProb         float64
	VaccinationProb      float64
	RegressionProb       float64

	Method              string
	ReportInterval      int
	AgentOutputInterval int
	AgentFile           string

	Output string
	Header bool

	Threads  int
	LogLevel string
	Quiet    bool

	Changed func(name string) bool
}

// Run executes one batch: layer configuration (defaults, scenario file,
// environment, flags), validate, then fan the replicas across the pool
// into a shared sink on stdout. Exit codes: 0 success or broken pipe,
// 2 usage or configuration error, 3 runtime failure.
func Run(stdout, stderr io.Writer, o Options) int {
	env, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 2
	}

	level := "warn"
	if env.LogLevel != "" {
		level = env.LogLevel
	}
	if o.Quiet {
		level = "error"
	}
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	logger := cmdutil.NewLogger(stderr, level)

	changed := o.Changed
	if changed == nil {
		changed = func(string) bool { return true }
	}

	params := sim.Defaults()
	if o.ScenarioFile != "" {
		params, err = config.Load(o.ScenarioFile, params)
		if err != nil {
			fmt.Fprintf(stderr, "abm: %v\n", err)
			return 2
		}
	}
	if err := applyFlags(&params, o, changed); err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 2
	}
	if err := params.Validate(); err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 2
	}
	if o.Output != report.FormatCSV && o.Output != report.FormatJSONL {
		fmt.Fprintf(stderr, "abm: invalid output format %q (want csv or jsonl)\n", o.Output)
		return 2
	}

	baseSeed := env.Seed
	if changed("seed") {
		baseSeed = o.Seed
	}
	seedPath := env.SeedFile
	if changed("seed-file") {
		seedPath = o.SeedFile
	}
	var seeds seedfile.Source
	if seedPath != "" {
		seeds, err = seedfile.FromFile(seedPath)
		if err != nil {
			fmt.Fprintf(stderr, "abm: %v\n", err)
			return 2
		}
	} else {
		seeds = seedfile.Fixed(baseSeed)
	}

	threads := env.Threads
	if changed("threads") {
		threads = o.Threads
	}
	if threads < 0 {
		fmt.Fprintf(stderr, "abm: threads cannot be negative (got %d)\n", threads)
		return 2
	}
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	header := ""
	if o.Header && o.Output == report.FormatCSV {
		header = report.TallyHeader
	}
	sink := report.NewSink(stdout, header)
	rep := report.New(sink, o.Output, params.AgentOutputInterval, params.AgentFile)

	run := uuid.NewString()
	logger.Info("batch start",
		"run", run,
		"replicas", len(runner.Identities(params)),
		"threads", threads,
		"method", params.Method)

	runErr := runner.Run(runner.Config{Threads: threads}, logger, params, seeds, rep)

	if err := sink.Flush(); err != nil {
		if report.IsBrokenPipe(err) {
			return 0
		}
		logger.Error("flush output", "error", err)
		return 3
	}
	if runErr != nil {
		if report.IsBrokenPipe(runErr) {
			return 0
		}
		return 3 // the pool already logged it
	}
	logger.Info("batch finished", "run", run)
	return 0
}

// applyFlags folds explicitly set flags over p.
func applyFlags(p *sim.Parameters, o Options, changed func(string) bool) error {
	if changed("simulations") {
		p.Replicas = o.Replicas
	}
	if changed("identity") {
		p.Identity = o.Identity
	}
	if changed("iterations") {
		p.Iterations = o.Iterations
	}
	if changed("agents") {
		p.Agents = o.Agents
	}
	if changed("infections") {
		p.Infections = o.Infections
	}
	if changed("encounters") {
		p.Encounters = o.Encounters
	}
	if changed("growth") {
		p.GrowthRate = o.GrowthRate
	}
	if changed("death-prob-susceptible") {
		p.DeathProbSusceptible = o.DeathProbSusceptible
	}
	if changed("death-prob-infectious") {
		p.DeathProbInfectious = o.DeathProbInfectious
	}
	if changed("recovery-prob") {
		p.RecoveryProb = o.RecoveryProb
	}
	if changed("vaccination-prob") {
		p.VaccinationProb = o.VaccinationProb
	}
	if changed("regression-prob") {
		p.RegressionProb = o.RegressionProb
	}
	if changed("method") {
		m, err := sim.ParseMethod(o.Method)
		if err != nil {
			return err
		}
		p.Method = m
	}
	if changed("report-interval") {
		p.ReportInterval = o.ReportInterval
	}
	if changed("output-agents") {
		p.AgentOutputInterval = o.AgentOutputInterval
	}
	if changed("agent-file") {
		p.AgentFile = o.AgentFile
	}
	return nil
}

// InitScenario writes the canonical scenario file at path. An existing
// file is preserved unless force is set.
func InitScenario(stdout, stderr io.Writer, path string, force bool) int {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(stderr, "abm: %s exists (use --force to overwrite)\n", path)
			return 2
		}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 3
	}
	if err := config.WriteDefault(f); err != nil {
		_ = f.Close()
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 3
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 3
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return 0
}
