package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/internal/validator"
	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/fsm"
	"github.com/aretw0/tabula/pkg/machines"
	"github.com/aretw0/tabula/pkg/ports"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check machine definitions for consistency",
	Long: `Compiles every definition under --dir and every --file, reporting all
problems at once: missing transitions, unknown targets, error states that
accept or lead back out, and a sink that does not absorb. States unreachable
from the initial state are reported as warnings.

Without --dir or --file, the built-in machines are checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, done, err := setup(cmd)
		if err != nil {
			return err
		}
		defer done()

		files, _ := cmd.Flags().GetStringSlice("file")
		loader, err := cli.LoadDefinitions(cfg.Dir, files)
		if err != nil {
			return err
		}
		if loader == nil {
			loader, err = builtinLoader()
			if err != nil {
				return err
			}
		}

		report, err := validator.ValidateDefinitions(loader, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, f := range report.Findings {
			if !f.OK() {
				fmt.Fprintf(out, "✗ %s\n", f.Machine)
				for _, e := range f.Errors {
					fmt.Fprintf(out, "    %v\n", e)
				}
				continue
			}
			fmt.Fprintf(out, "✓ %s\n", f.Machine)
			for _, s := range f.Unreachable {
				fmt.Fprintf(out, "    warning: state %q is unreachable\n", s)
			}
		}

		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed")
		}
		fmt.Fprintln(out, "All definitions are valid!")
		return nil
	},
}

func builtinLoader() (ports.DefinitionLoader, error) {
	defs := make([]fsm.Definition, 0, 2)
	for _, m := range machines.All() {
		defs = append(defs, m.Table().Definition())
	}
	return memory.NewLoader(defs...)
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
