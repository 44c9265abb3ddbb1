package tabula_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/testutils"
	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/machines"
)

func TestHelpers(t *testing.T) {
	assert.True(t, tabula.IsBinaryNumber("101"))
	assert.False(t, tabula.IsBinaryNumber("102"))
	assert.False(t, tabula.IsBinaryNumber(""))

	assert.True(t, tabula.IsValidExpression("3+2-1"))
	assert.False(t, tabula.IsValidExpression("3++2"))
	assert.True(t, tabula.IsValidExpression("3+"))
	assert.False(t, tabula.IsValidExpression(""))
}

func TestEngine_Validate(t *testing.T) {
	eng, err := tabula.New()
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, []string{"binary", "expression"}, eng.Machines())

	res, err := eng.Validate(ctx, "binary", "101")
	require.NoError(t, err)
	assert.Equal(t, domain.Result{Machine: "binary", Input: "101", Final: "digits", Accepted: true, Steps: 3}, res)

	res, err = eng.Validate(ctx, "expression", "3++2")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "dead", res.Final)
	assert.Equal(t, 3, res.Steps, "the run stops once the sink is reached")
	assert.Equal(t, "No", res.Verdict())
}

func TestEngine_Errors(t *testing.T) {
	eng, err := tabula.New(tabula.WithMaxInputBytes(4))
	require.NoError(t, err)

	_, err = eng.Validate(context.Background(), "roman", "XIV")
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)

	_, err = eng.Validate(context.Background(), "binary", "101010")
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Validate(ctx, "binary", "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Cache(t *testing.T) {
	cache := memory.NewCache()
	var events []domain.ValidationEvent
	var mu sync.Mutex

	eng, err := tabula.New(
		tabula.WithCache(cache),
		tabula.WithLifecycleHooks(domain.LifecycleHooks{
			OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, *e)
			},
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := eng.Validate(ctx, "expression", "12+3")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := eng.Validate(ctx, "expression", "12+3")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Accepted, second.Accepted)
	assert.Equal(t, first.Final, second.Final)

	require.Len(t, events, 2)
	assert.False(t, events[0].Cached)
	assert.True(t, events[1].Cached)
	assert.Equal(t, 4, events[0].InputLength)
	assert.Equal(t, 1, cache.Len())
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (domain.Result, error) {
	return domain.Result{}, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, domain.Result) error {
	return errors.New("connection refused")
}

func TestEngine_CacheFailureIsNotFatal(t *testing.T) {
	eng, err := tabula.New(tabula.WithCache(brokenCache{}))
	require.NoError(t, err)

	res, err := eng.Validate(context.Background(), "binary", "11")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestEngine_CacheIsolatesRedefinedMachines(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()

	builtin, err := tabula.New(tabula.WithCache(cache))
	require.NoError(t, err)

	// The same name, now accepting octal digits.
	octal := machines.BinaryDefinition()
	octal.Classes = map[string]string{"bit": "01234567", "non_bit": "89"}
	loader, err := memory.NewLoader(octal)
	require.NoError(t, err)
	redefined, err := tabula.New(tabula.WithCache(cache), tabula.WithLoader(loader))
	require.NoError(t, err)

	res, err := builtin.Validate(ctx, "binary", "7")
	require.NoError(t, err)
	assert.False(t, res.Accepted)

	res, err = redefined.Validate(ctx, "binary", "7")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.False(t, res.Cached, "verdicts of another table are never reused")

	res, err = builtin.Validate(ctx, "binary", "7")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.True(t, res.Cached)
	assert.Equal(t, 2, cache.Len())
}

func TestEngine_TraceRespectsInputLimit(t *testing.T) {
	eng, err := tabula.New(tabula.WithMaxInputBytes(4))
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = eng.Trace(ctx, "binary", "101010")
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)

	steps, res, err := eng.Trace(ctx, "binary", "1010")
	require.NoError(t, err)
	assert.Len(t, steps, 4)
	assert.True(t, res.Accepted)
}

func TestEngine_Loader(t *testing.T) {
	octal := machines.BinaryDefinition()
	octal.Name = "octal"
	octal.Classes = map[string]string{"bit": "01234567", "non_bit": "89"}

	loader, err := memory.NewLoader(octal)
	require.NoError(t, err)

	eng, err := tabula.New(tabula.WithLoader(loader), tabula.WithoutBuiltins())
	require.NoError(t, err)
	assert.Equal(t, []string{"octal"}, eng.Machines())

	res, err := eng.Validate(context.Background(), "octal", "0755")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	_, err = eng.Machine("binary")
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)
}

func TestEngine_LoaderRejectsBrokenDefinitions(t *testing.T) {
	broken := machines.BinaryDefinition()
	broken.Name = "broken"
	broken.Errors = nil
	broken.Sink = ""

	loader, err := memory.NewLoader(broken)
	require.NoError(t, err)

	_, err = tabula.New(tabula.WithLoader(loader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "machine broken")
}

func TestOpen(t *testing.T) {
	dir := testutils.SetupDefinitionRepo(t, map[string]string{
		"letters.md": testutils.MarkdownDefinition(`states: [start, seen, dead]
columns: [a, other]
initial: start
sink: dead
accepting: [seen]
classes:
  a: "aA"
default: other
transitions:
  start: {a: seen, other: dead}
  seen:  {a: seen, other: dead}
  dead:  {a: dead, other: dead}`, "Runs of the letter a."),
	})

	eng, err := tabula.Open(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"binary", "expression", "letters"}, eng.Machines())

	steps, res, err := eng.Trace(context.Background(), "letters", "aAb")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Len(t, steps, 3)
}

func TestOpen_ExampleMachines(t *testing.T) {
	eng, err := tabula.Open(filepath.Join("examples", "machines"))
	require.NoError(t, err)
	ctx := context.Background()

	res, err := eng.Validate(ctx, "octal", "0755")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	res, err = eng.Validate(ctx, "signed", "-42")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	res, err = eng.Validate(ctx, "signed", "+-1")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, tabula.Version)
}
