package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula/internal/config"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
)

const octalYAML = `
name: octal
states: [start, digits, dead]
columns: [octal, other]
initial: start
sink: dead
accepting: [digits]
classes:
  octal: "01234567"
default: other
transitions:
  start:  {octal: digits, other: dead}
  digits: {octal: digits, other: dead}
  dead:   {octal: dead, other: dead}
`

func TestRunCheck(t *testing.T) {
	eng, cleanup, err := CreateEngine(context.Background(), EngineOptions{}, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	var buf bytes.Buffer
	all, err := RunCheck(context.Background(), &buf, eng, "expression", []string{"3+2-1", "3++2"}, false)
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, "Is \"3+2-1\" a valid arithmetic expression? Yes\nIs \"3++2\" a valid arithmetic expression? No\n", buf.String())

	buf.Reset()
	all, err = RunCheck(context.Background(), &buf, eng, "binary", []string{"101"}, false)
	require.NoError(t, err)
	assert.True(t, all)
	assert.Equal(t, "Is \"101\" a valid binary number? Yes\n", buf.String())

	_, err = RunCheck(context.Background(), &buf, eng, "roman", []string{"X"}, false)
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)
}

func TestCreateEngine_Files(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(octalYAML), 0644))

	eng, cleanup, err := CreateEngine(context.Background(), EngineOptions{Files: []string{path}}, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, []string{"binary", "expression", "octal"}, eng.Machines())
	assert.Equal(t, "octal", Noun("octal"))
}

func TestCreateEngine_DirAndFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "octal.md"), []byte("---"+octalYAML+"---\n"), 0644))

	other := filepath.Join(t.TempDir(), "octal.yaml")
	override := octalYAML + "description: from file\n"
	require.NoError(t, os.WriteFile(other, []byte(override), 0644))

	loader, err := LoadDefinitions(dir, []string{other})
	require.NoError(t, err)

	names, err := loader.ListDefinitions()
	require.NoError(t, err)
	assert.Equal(t, []string{"octal"}, names)

	def, err := loader.GetDefinition("octal")
	require.NoError(t, err)
	assert.Equal(t, "from file", def.Description, "files win over the repository")
}

func TestCreateEngine_Cache(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	t.Run("Memory", func(t *testing.T) {
		eng, cleanup, err := CreateEngine(context.Background(), EngineOptions{Config: cfg}, logging.NewNop())
		require.NoError(t, err)
		defer cleanup()

		eng.Validate(context.Background(), "binary", "1")
		res, err := eng.Validate(context.Background(), "binary", "1")
		require.NoError(t, err)
		assert.True(t, res.Cached)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		redisCfg := *cfg
		redisCfg.Redis.Addr = mr.Addr()

		eng, cleanup, err := CreateEngine(context.Background(), EngineOptions{Config: &redisCfg}, logging.NewNop())
		require.NoError(t, err)

		eng.Validate(context.Background(), "binary", "10")
		res, err := eng.Validate(context.Background(), "binary", "10")
		require.NoError(t, err)
		assert.True(t, res.Cached)
		assert.Len(t, mr.Keys(), 1)
		require.NoError(t, cleanup())
	})

	t.Run("Redis Unavailable Falls Back", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		redisCfg := *cfg
		redisCfg.Redis.Addr = addr

		eng, cleanup, err := CreateEngine(context.Background(), EngineOptions{Config: &redisCfg}, logging.NewNop())
		require.NoError(t, err)
		defer cleanup()

		eng.Validate(context.Background(), "binary", "11")
		res, err := eng.Validate(context.Background(), "binary", "11")
		require.NoError(t, err)
		assert.True(t, res.Cached)
	})
}
