package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupDefinitionRepo creates a temporary directory holding the given
// documents (file name -> content) and returns its absolute path.
// It fails the test immediately on error.
func SetupDefinitionRepo(t *testing.T, docs map[string]string) string {
	t.Helper()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range docs {
		path := filepath.Join(absPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	}
	return absPath
}

// MarkdownDefinition wraps a YAML definition as the frontmatter of a Markdown
// document whose body is the description.
func MarkdownDefinition(yaml, description string) string {
	return "---\n" + yaml + "\n---\n" + description + "\n"
}
