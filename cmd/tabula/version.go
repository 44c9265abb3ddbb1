package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tabula",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tabula version %s\n", strings.TrimSpace(tabula.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
