package fsm_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula/pkg/fsm"
)

// signDefinition mirrors the arithmetic expression table: a digit run, then
// operator/digit alternations.
func signDefinition() fsm.Definition {
	return fsm.Definition{
		Name:      "sign",
		States:    []string{"start", "number", "operator", "bad_sign", "dead"},
		Columns:   []string{"digit", "plus", "minus", "other"},
		Initial:   "start",
		Errors:    []string{"bad_sign", "dead"},
		Accepting: []string{"number", "operator"},
		Transitions: map[string]map[string]string{
			"start":    {"digit": "number", "plus": "bad_sign", "minus": "bad_sign", "other": "dead"},
			"number":   {"digit": "number", "plus": "operator", "minus": "operator", "other": "dead"},
			"operator": {"digit": "number", "plus": "dead", "minus": "dead", "other": "dead"},
			"bad_sign": {"digit": "dead", "plus": "dead", "minus": "dead", "other": "dead"},
			"dead":     {"digit": "dead", "plus": "dead", "minus": "dead", "other": "dead"},
		},
		Classes: map[string]string{"digit": "0123456789", "plus": "+", "minus": "-"},
		Default: "other",
	}
}

func TestCompile_Valid(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	assert.Equal(t, "sign", table.Name())
	assert.Equal(t, 5, table.NumStates())
	assert.Equal(t, 4, table.NumColumns())
	assert.Equal(t, fsm.State(0), table.Initial())

	dead, ok := table.StateByName("dead")
	require.True(t, ok)
	assert.Equal(t, dead, table.Sink(), "sink is auto-detected as the self-looping error state")

	badSign, _ := table.StateByName("bad_sign")
	assert.True(t, table.IsError(badSign))
	assert.False(t, table.IsAccepting(badSign))
	assert.Equal(t, []fsm.State{1, 2}, table.Accepting())
	assert.Equal(t, []fsm.State{3, 4}, table.Errors())
}

func TestCompile_Totality(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	for _, s := range table.States() {
		for _, c := range table.Columns() {
			next := table.Next(s, c)
			assert.True(t, next >= 0 && int(next) < table.NumStates(),
				"table[%s][%s] = %d is not a state", table.StateName(s), table.ColumnName(c), next)
		}
	}
}

func TestCompile_SinkClosure(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	sink := table.Sink()
	require.NotEqual(t, fsm.NoState, sink)
	for _, c := range table.Columns() {
		assert.Equal(t, sink, table.Next(sink, c))
	}
	for _, e := range table.Errors() {
		for _, c := range table.Columns() {
			assert.True(t, table.IsError(table.Next(e, c)), "error states only lead to error states")
		}
	}
}

func TestCompile_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fsm.Definition)
		want   fsm.TableError
	}{
		{
			name:   "Missing Cell",
			mutate: func(d *fsm.Definition) { delete(d.Transitions["number"], "minus") },
			want:   fsm.TableError{State: "number", Column: "minus", Reason: "missing transition"},
		},
		{
			name:   "Missing Row",
			mutate: func(d *fsm.Definition) { delete(d.Transitions, "operator") },
			want:   fsm.TableError{State: "operator", Reason: "missing transition row"},
		},
		{
			name:   "Unknown Target",
			mutate: func(d *fsm.Definition) { d.Transitions["start"]["digit"] = "nowhere" },
			want:   fsm.TableError{State: "start", Column: "digit", Reason: `target "nowhere" is not a declared state`},
		},
		{
			name:   "Undeclared Column",
			mutate: func(d *fsm.Definition) { d.Transitions["start"]["star"] = "dead" },
			want:   fsm.TableError{State: "start", Column: "star", Reason: "transition given for an undeclared column"},
		},
		{
			name: "Undeclared Row",
			mutate: func(d *fsm.Definition) {
				d.Transitions["ghost"] = map[string]string{"digit": "dead", "plus": "dead", "minus": "dead", "other": "dead"}
			},
			want: fsm.TableError{State: "ghost", Reason: "transitions given for an undeclared state"},
		},
		{
			name:   "No Error State",
			mutate: func(d *fsm.Definition) { d.Errors = nil },
			want:   fsm.TableError{Reason: "no error state declared"},
		},
		{
			name:   "Accepting Error State",
			mutate: func(d *fsm.Definition) { d.Accepting = append(d.Accepting, "dead") },
			want:   fsm.TableError{State: "dead", Reason: "error state cannot be accepting"},
		},
		{
			name:   "Error State Escapes",
			mutate: func(d *fsm.Definition) { d.Transitions["bad_sign"]["digit"] = "number" },
			want:   fsm.TableError{State: "bad_sign", Column: "digit", Reason: `error state leads to non-error state "number"`},
		},
		{
			name:   "Sink Does Not Absorb",
			mutate: func(d *fsm.Definition) { d.Sink = "bad_sign" },
			want:   fsm.TableError{State: "bad_sign", Reason: "sink state must transition to itself on every column"},
		},
		{
			name:   "Unknown Initial",
			mutate: func(d *fsm.Definition) { d.Initial = "begin" },
			want:   fsm.TableError{State: "begin", Reason: "initial state is not a declared state"},
		},
		{
			name:   "Duplicate State",
			mutate: func(d *fsm.Definition) { d.States = append(d.States, "number") },
			want:   fsm.TableError{State: "number", Reason: "declared more than once"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := signDefinition()
			tt.mutate(&def)

			table, err := fsm.Compile(def)
			assert.Nil(t, table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, fsm.ErrInvalidTable))

			var found bool
			for _, e := range fsm.TableErrors(err) {
				var te *fsm.TableError
				if errors.As(e, &te) && *te == tt.want {
					found = true
				}
			}
			assert.True(t, found, "expected %+v in %v", tt.want, err)
		})
	}
}

func TestCompile_ReportsAllProblems(t *testing.T) {
	def := signDefinition()
	delete(def.Transitions["start"], "digit")
	delete(def.Transitions["number"], "plus")

	_, err := fsm.Compile(def)
	require.Error(t, err)
	assert.Len(t, fsm.TableErrors(err), 2)
	assert.Contains(t, err.Error(), "2 definition errors")
}

func TestCompile_WarnsUnreachable(t *testing.T) {
	def := signDefinition()
	def.States = append(def.States, "island")
	def.Transitions["island"] = map[string]string{"digit": "number", "plus": "dead", "minus": "dead", "other": "dead"}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	table, err := fsm.Compile(def, fsm.WithLogger(logger))
	require.NoError(t, err, "unreachable states are a diagnostic, not a failure")

	island, _ := table.StateByName("island")
	assert.Equal(t, []fsm.State{island}, table.Unreachable())
	assert.Contains(t, buf.String(), "state unreachable from initial state")
	assert.Contains(t, buf.String(), "state=island")
}

func TestCompile_ExplicitSink(t *testing.T) {
	def := signDefinition()
	def.Sink = "dead"
	def.Errors = []string{"bad_sign"} // sink is implicitly an error state

	table, err := fsm.Compile(def)
	require.NoError(t, err)
	dead, _ := table.StateByName("dead")
	assert.Equal(t, dead, table.Sink())
	assert.True(t, table.IsError(dead))
}

func TestTable_DefinitionRoundTrip(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	again, err := fsm.Compile(table.Definition())
	require.NoError(t, err)

	for _, s := range table.States() {
		for _, c := range table.Columns() {
			assert.Equal(t, table.Next(s, c), again.Next(s, c))
		}
	}
	assert.Equal(t, table.Sink(), again.Sink())
	assert.Equal(t, table.Accepting(), again.Accepting())
}

func TestTable_CanAccept(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	for _, s := range table.States() {
		assert.Equal(t, !table.IsError(s), table.CanAccept(s), table.StateName(s))
	}
}
