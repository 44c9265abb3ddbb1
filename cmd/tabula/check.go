package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/machines"
)

var checkCmd = &cobra.Command{
	Use:   "check [input...]",
	Short: "Validate inputs against a machine",
	Long: `Runs each input through the selected machine and prints the verdict:

  Is "3+2-1" a valid arithmetic expression? Yes

Without arguments, inputs are read from standard input, one per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, done, err := setup(cmd)
		if err != nil {
			return err
		}
		defer done()

		machine, _ := cmd.Flags().GetString("machine")
		trace, _ := cmd.Flags().GetBool("trace")
		fail, _ := cmd.Flags().GetBool("fail")

		ctx := cmd.Context()
		eng, cleanup, err := openEngine(ctx, cmd, cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer cleanup()

		inputs := args
		if len(inputs) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				inputs = append(inputs, strings.TrimRight(scanner.Text(), "\r"))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read inputs: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		all, err := cli.RunCheck(ctx, out, eng, machine, inputs, tui.IsTerminal(os.Stdout))
		if err != nil {
			return err
		}

		if trace {
			m, _ := eng.Machine(machine)
			for _, in := range inputs {
				steps, _ := m.Trace(in)
				fmt.Fprintf(out, "\n%q\n", in)
				for _, st := range steps {
					fmt.Fprintf(out, "  %3d %q %-10s %s -> %s\n", st.Offset, st.Symbol,
						m.Table().ColumnName(st.Column), m.Table().StateName(st.From), m.Table().StateName(st.To))
				}
			}
		}

		if fail && !all {
			return fmt.Errorf("some inputs were rejected")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("machine", "m", machines.ExpressionName, "Machine to validate with")
	checkCmd.Flags().Bool("trace", false, "Print the transitions taken for each input")
	checkCmd.Flags().Bool("fail", false, "Exit with an error if any input is rejected")
}
