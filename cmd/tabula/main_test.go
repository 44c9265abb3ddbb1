package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default, since the command tree is
// shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, "check", "--machine", "expression", "3+2-1", "3++2")
	require.NoError(t, err)
	assert.Equal(t, "Is \"3+2-1\" a valid arithmetic expression? Yes\nIs \"3++2\" a valid arithmetic expression? No\n", out)

	out, err = run(t, "check", "-m", "binary", "--fail", "101", "102")
	assert.Error(t, err)
	assert.Contains(t, out, "Is \"102\" a valid binary number? No")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ binary")
	assert.Contains(t, out, "✓ expression")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`
states: [start, dead]
columns: [a]
initial: start
sink: dead
transitions:
  start: {}
  dead: {a: dead}
`), 0644))

	out, err = run(t, "validate", "--file", broken)
	assert.Error(t, err)
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "missing transition")
}

func TestGraphAndVersion(t *testing.T) {
	out, err := run(t, "graph", "binary", "--hide-sink")
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tabula version")
}
