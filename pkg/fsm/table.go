package fsm

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Table is a compiled, total transition table.
// It is immutable after Compile returns it.
type Table struct {
	name        string
	description string
	states      []string
	columns     []string
	stateIndex  map[string]State
	columnIndex map[string]Column
	cells       []State // row-major, len(states) * len(columns)
	initial     State
	sink        State
	accepting   []bool
	errors      []bool
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving construction diagnostics
// (e.g. states unreachable from the initial state).
func WithLogger(logger *slog.Logger) CompileOption {
	return func(c *compileConfig) {
		c.logger = logger
	}
}

// Compile checks a definition and builds its table.
//
// Every problem found is reported in a single *ConfigError; no partially valid
// table is ever returned. States unreachable from the initial state are logged
// as warnings and do not fail compilation.
func Compile(def Definition, opts ...CompileOption) (*Table, error) {
	cfg := &compileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &compilation{def: def}
	t := c.build()
	if len(c.errs) > 0 {
		return nil, &ConfigError{Machine: def.Name, Errors: c.errs}
	}

	for _, s := range t.Unreachable() {
		cfg.logger.Warn("state unreachable from initial state",
			"machine", t.name,
			"state", t.StateName(s),
			"initial", t.StateName(t.initial))
	}
	return t, nil
}

// MustCompile is like Compile but panics on an invalid definition.
// It is intended for package-level tables built from literals.
func MustCompile(def Definition, opts ...CompileOption) *Table {
	t, err := Compile(def, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

type compilation struct {
	def  Definition
	errs []error
}

func (c *compilation) fail(state, column, format string, args ...any) {
	c.errs = append(c.errs, &TableError{State: state, Column: column, Reason: fmt.Sprintf(format, args...)})
}

func (c *compilation) build() *Table {
	def := c.def
	t := &Table{
		name:        def.Name,
		description: def.Description,
		states:      append([]string(nil), def.States...),
		columns:     append([]string(nil), def.Columns...),
		stateIndex:  make(map[string]State, len(def.States)),
		columnIndex: make(map[string]Column, len(def.Columns)),
		initial:     NoState,
		sink:        NoState,
	}

	if len(t.states) == 0 {
		c.fail("", "", "no states declared")
	}
	if len(t.columns) == 0 {
		c.fail("", "", "no columns declared")
	}
	for i, name := range t.states {
		if name == "" {
			c.fail("", "", "state #%d has an empty name", i)
			continue
		}
		if _, dup := t.stateIndex[name]; dup {
			c.fail(name, "", "declared more than once")
			continue
		}
		t.stateIndex[name] = State(i)
	}
	for i, name := range t.columns {
		if name == "" {
			c.fail("", "", "column #%d has an empty name", i)
			continue
		}
		if _, dup := t.columnIndex[name]; dup {
			c.fail("", name, "declared more than once")
			continue
		}
		t.columnIndex[name] = Column(i)
	}
	if len(c.errs) > 0 {
		return t
	}

	t.initial = c.lookup(t, def.Initial, "initial state")
	t.accepting = c.flags(t, def.Accepting, "accepting")
	errorNames := def.Errors
	if def.Sink != "" {
		errorNames = append(append([]string(nil), def.Errors...), def.Sink)
	}
	t.errors = c.flags(t, errorNames, "error")

	c.fillCells(t)
	if len(c.errs) > 0 {
		return t
	}

	c.checkErrorStates(t)
	t.sink = c.resolveSink(t)
	return t
}

func (c *compilation) lookup(t *Table, name, role string) State {
	if name == "" {
		c.fail("", "", "no %s declared", role)
		return NoState
	}
	s, ok := t.stateIndex[name]
	if !ok {
		c.fail(name, "", "%s is not a declared state", role)
		return NoState
	}
	return s
}

func (c *compilation) flags(t *Table, names []string, role string) []bool {
	set := make([]bool, len(t.states))
	for _, name := range names {
		s, ok := t.stateIndex[name]
		if !ok {
			c.fail(name, "", "%s state is not declared", role)
			continue
		}
		set[s] = true
	}
	return set
}

// fillCells enforces totality: one declared target for every (state, column).
func (c *compilation) fillCells(t *Table) {
	rows := c.def.Transitions
	t.cells = make([]State, len(t.states)*len(t.columns))

	for _, key := range sortedKeys(rows) {
		if _, ok := t.stateIndex[key]; !ok {
			c.fail(key, "", "transitions given for an undeclared state")
		}
	}

	for si, state := range t.states {
		row, ok := rows[state]
		if !ok {
			c.fail(state, "", "missing transition row")
			continue
		}
		for _, key := range sortedKeys(row) {
			if _, ok := t.columnIndex[key]; !ok {
				c.fail(state, key, "transition given for an undeclared column")
			}
		}
		for ci, column := range t.columns {
			target, ok := row[column]
			if !ok {
				c.fail(state, column, "missing transition")
				continue
			}
			to, ok := t.stateIndex[target]
			if !ok {
				c.fail(state, column, "target %q is not a declared state", target)
				continue
			}
			t.cells[si*len(t.columns)+ci] = to
		}
	}
}

// checkErrorStates enforces the error-state invariants: at least one exists,
// none accepts, and no column leads from an error state to a non-error state.
func (c *compilation) checkErrorStates(t *Table) {
	count := 0
	for si, isErr := range t.errors {
		if !isErr {
			continue
		}
		count++
		if t.accepting[si] {
			c.fail(t.states[si], "", "error state cannot be accepting")
		}
		for ci := range t.columns {
			to := t.cells[si*len(t.columns)+ci]
			if !t.errors[to] {
				c.fail(t.states[si], t.columns[ci], "error state leads to non-error state %q", t.states[to])
			}
		}
	}
	if count == 0 {
		c.fail("", "", "no error state declared")
	}
	if t.initial != NoState && t.errors[t.initial] {
		c.fail(t.states[t.initial], "", "initial state cannot be an error state")
	}
}

func (c *compilation) resolveSink(t *Table) State {
	if name := c.def.Sink; name != "" {
		s, ok := t.stateIndex[name]
		if !ok {
			return NoState // already reported by flags
		}
		if !t.absorbs(s) {
			c.fail(name, "", "sink state must transition to itself on every column")
			return NoState
		}
		return s
	}
	for si, isErr := range t.errors {
		if isErr && t.absorbs(State(si)) {
			return State(si)
		}
	}
	return NoState
}

func (t *Table) absorbs(s State) bool {
	for ci := range t.columns {
		if t.cells[int(s)*len(t.columns)+ci] != s {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Read-only accessors ---------------------------------------------------

// Name returns the machine name of the definition.
func (t *Table) Name() string { return t.name }

// Description returns the free-text description of the definition.
func (t *Table) Description() string { return t.description }

// NumStates returns N, the number of states.
func (t *Table) NumStates() int { return len(t.states) }

// NumColumns returns C, the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Initial returns the designated initial state.
func (t *Table) Initial() State { return t.initial }

// Sink returns the absorbing error state, or NoState if the table has none.
func (t *Table) Sink() State { return t.sink }

// Next returns table[s][c]. Both arguments must be in range.
func (t *Table) Next(s State, c Column) State {
	return t.cells[int(s)*len(t.columns)+int(c)]
}

// IsAccepting reports whether s is a member of the accepting set.
func (t *Table) IsAccepting(s State) bool {
	return s >= 0 && int(s) < len(t.accepting) && t.accepting[s]
}

// IsError reports whether s is an error state.
func (t *Table) IsError(s State) bool {
	return s >= 0 && int(s) < len(t.errors) && t.errors[s]
}

// StateName returns the declared name of s.
func (t *Table) StateName(s State) string {
	if s < 0 || int(s) >= len(t.states) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return t.states[s]
}

// ColumnName returns the declared name of c.
func (t *Table) ColumnName(c Column) string {
	if c < 0 || int(c) >= len(t.columns) {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return t.columns[c]
}

// StateByName looks up a state by its declared name.
func (t *Table) StateByName(name string) (State, bool) {
	s, ok := t.stateIndex[name]
	return s, ok
}

// ColumnByName looks up a column by its declared name.
func (t *Table) ColumnByName(name string) (Column, bool) {
	c, ok := t.columnIndex[name]
	return c, ok
}

// States returns every state in declaration order.
func (t *Table) States() []State {
	out := make([]State, len(t.states))
	for i := range t.states {
		out[i] = State(i)
	}
	return out
}

// Columns returns every column in declaration order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i := range t.columns {
		out[i] = Column(i)
	}
	return out
}

// Accepting returns the accepting states in declaration order.
func (t *Table) Accepting() []State {
	return collect(t.accepting)
}

// Errors returns the error states in declaration order.
func (t *Table) Errors() []State {
	return collect(t.errors)
}

func collect(set []bool) []State {
	var out []State
	for i, ok := range set {
		if ok {
			out = append(out, State(i))
		}
	}
	return out
}

// Definition reconstructs a definition equivalent to the compiled table.
// Classifier classes are not part of a table and are left empty.
func (t *Table) Definition() Definition {
	def := Definition{
		Name:        t.name,
		Description: t.description,
		States:      append([]string(nil), t.states...),
		Columns:     append([]string(nil), t.columns...),
		Initial:     t.StateName(t.initial),
		Transitions: make(map[string]map[string]string, len(t.states)),
	}
	if t.sink != NoState {
		def.Sink = t.states[t.sink]
	}
	for _, s := range t.Errors() {
		def.Errors = append(def.Errors, t.states[s])
	}
	for _, s := range t.Accepting() {
		def.Accepting = append(def.Accepting, t.states[s])
	}
	for si, state := range t.states {
		row := make(map[string]string, len(t.columns))
		for ci, column := range t.columns {
			row[column] = t.states[t.cells[si*len(t.columns)+ci]]
		}
		def.Transitions[state] = row
	}
	return def
}
