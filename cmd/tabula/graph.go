package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/presentation/graph"
	"github.com/aretw0/tabula/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export a machine as a Mermaid state diagram",
	Long: `Outputs a Mermaid diagram (stateDiagram-v2) of the machine's transition table.
With --trace, the states visited by the given input are highlighted.`,
	Args: cobra.ExactArgs(1),
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

		hideSink, _ := cmd.Flags().GetBool("hide-sink")
		opts := graph.Options{HideSink: hideSink}
		if cmd.Flags().Changed("trace") {
			input, _ := cmd.Flags().GetString("trace")
			steps, out := m.Trace(input)
			opts.Overlay = graph.OverlayFromTrace(m.Table(), steps, out.Final)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m.Table(), opts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("hide-sink", false, "Omit edges into the sink state")
	graphCmd.Flags().String("trace", "", "Highlight the run of this input")
}
