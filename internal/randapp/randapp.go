// internal/randapp/randapp.go
package randapp

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"abm-core/rng"
	"abm/internal/report"
	"abm/internal/version"
)

// RunContext runs the makerand command: write seed values one per line,
// to a path argument or stdout.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var (
		count int
		seed  uint64
	)
	code := 0
	cmd := &cobra.Command{
		Use:   "makerand [path]",
		Short: "generate a seed file",
		Long: `makerand writes seed values, one per line, in the format abm
--seed-file reads back. Values come from the OS entropy source; with
--seed they come from the simulator's own generator instead, so a
seed file itself can be reproduced.`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				fmt.Fprintf(stderr, "makerand: count must be at least 1 (got %d)\n", count)
				code = 2
				return nil
			}
			next := fromEntropy
			if cmd.Flags().Changed("seed") {
				next = fromGenerator(seed)
			}

			var out io.Writer = stdout
			var f *os.File
			if len(args) == 1 {
				var err error
				f, err = os.Create(args[0])
				if err != nil {
					fmt.Fprintf(stderr, "makerand: %v\n", err)
					code = 3
					return nil
				}
				out = f
			}
			err := generate(out, count, next)
			if f != nil {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}
			if report.IsBrokenPipe(err) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(stderr, "makerand: %v\n", err)
				code = 3
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of seed values")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "deterministic generator seed")

	if argv == nil {
		argv = []string{}
	}
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "makerand: %v\n", err)
		return 2
	}
	return code
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func generate(w io.Writer, count int, next func() (uint64, error)) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		v, err := next()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// fromGenerator composes two generator draws per value, spreading seeds
// over 30 bits while staying inside the uint32 range the seed file
// parser accepts.
func fromGenerator(seed uint64) func() (uint64, error) {
	g := rng.New(seed)
	return func() (uint64, error) {
		return g.Uint()*rng.M + g.Uint(), nil
	}
}

func fromEntropy() (uint64, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return uint64(binary.BigEndian.Uint32(b[:])), nil
}
