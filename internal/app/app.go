// internal/app/app.go
package app

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"abm/internal/appcore"
	"abm/internal/cli"
)

// RunContext wires the command tree to the batch core. Output streams are
// injected so tests can run the whole binary in process.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	c := cli.New(cli.Handlers{
		Run: func(cmd *cobra.Command, o *cli.Options) int {
			return appcore.Run(stdout, stderr, appcore.Options{
				ScenarioFile: o.ScenarioFile,
				Seed:         o.Seed,
				SeedFile:     o.SeedFile,

				Replicas:   o.Replicas,
				Identity:   o.Identity,
				Iterations: o.Iterations,
				Agents:     o.Agents,
				Infections: o.Infections,
				Encounters: o.Encounters,

				GrowthRate:           o.GrowthRate,
				DeathProbSusceptible: o.DeathProbSusceptible,
				DeathProbInfectious:  o.DeathProbInfectious,
				RecoveryProb:         o.RecoveryProb,
				VaccinationProb:      o.VaccinationProb,
				RegressionProb:       o.RegressionProb,

				Method:              o.Method,
				ReportInterval:      o.ReportInterval,
				AgentOutputInterval: o.AgentOutputInterval,
				AgentFile:           o.AgentFile,

				Output: o.Output,
				Header: !o.NoHeader,

				Threads:  o.Threads,
				LogLevel: o.LogLevel,
				Quiet:    o.Quiet,

				Changed: cmd.Flags().Changed,
			})
		},
		Init: func(_ *cobra.Command, path string, force bool) int {
			return appcore.InitScenario(stdout, stderr, path, force)
		},
	})
	return c.Execute(ctx, argv, stdout, stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
