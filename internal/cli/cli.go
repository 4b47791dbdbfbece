// internal/cli/cli.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"abm/internal/version"
)

// Handlers supply the command bodies. They return process exit codes;
// cobra errors are reserved for usage problems.
type Handlers struct {
	Run  func(cmd *cobra.Command, opts *Options) int
	Init func(cmd *cobra.Command, path string, force bool) int
}

// CLI is one configured command tree. Build a fresh one per invocation;
// flag state lives in the tree.
type CLI struct {
	root *cobra.Command
	code int
}

// New assembles the abm command tree around h.
func New(h Handlers) *CLI {
	c := &CLI{}
	opts := &Options{}

	root := &cobra.Command{
		Use:   "abm",
		Short: "agent-based epidemic simulator",
		Long: `abm runs replicated agent-based epidemic simulations and streams
per-replica tallies as CSV or JSONL.

Each replica advances a population of agents through the susceptible,
infectious, recovered, vaccinated and dead states with a fixed linear
congruential generator, so equal seeds reproduce bit for bit.

Examples:
  abm                              # default batch of 20 replicas
  abm -s 1 --identity 5            # one replica under identity 5
  abm --scenario run.toml -o jsonl
  abm init my-scenario.toml`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.code = h.Run(cmd, opts)
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	bind(root.Flags(), opts)

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default scenario file",
		Long: `init writes the canonical scenario TOML, ready to edit and pass
back through --scenario. Without a path it writes scenario.toml in the
current directory; an existing file is only overwritten with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scenario.toml"
			if len(args) == 1 {
				path = args[0]
			}
			c.code = h.Init(cmd, path, force)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	root.AddCommand(initCmd)

	c.root = root
	return c
}

// Execute parses argv and runs the selected command. Usage errors exit 2;
// handler codes pass through unchanged.
func (c *CLI) Execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if argv == nil {
		argv = []string{} // nil would make cobra fall back to os.Args
	}
	c.root.SetArgs(argv)
	c.root.SetOut(stdout)
	c.root.SetErr(stderr)
	if err := c.root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return 2
	}
	return c.code
}
