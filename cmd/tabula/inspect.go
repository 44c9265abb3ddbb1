package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/domain"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <machine>",
	Short: "Print a machine's transition table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, done, err := setup(cmd)
		if err != nil {
			return err
		}
		defer done()

		eng, cleanup, err := openEngine(cmd.Context(), cmd, cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer cleanup()

		m, err := eng.Machine(args[0])
		if err != nil {
			return err
		}

		out, err := tui.NewRenderer()(tui.TableMarkdown(m.Table()))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
