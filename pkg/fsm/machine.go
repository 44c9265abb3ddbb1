package fsm

import (
	"errors"
	"fmt"
)

// Machine pairs a table with the classifier feeding it.
type Machine struct {
	table       *Table
	classifier  Classifier
	fingerprint string
}

// Outcome is the result of running a machine over one input.
type Outcome struct {
	Final    State
	Accepted bool
	// Consumed counts the symbols read before the run ended.
	// It is lower than the input length when the run stopped at the sink.
	Consumed int
}

// Step records one transition of a traced run.
type Step struct {
	Offset int    // byte offset of Symbol in the input
	Symbol rune
	Column Column
	From   State
	To     State
}

// NewMachine combines a compiled table and a classifier.
func NewMachine(t *Table, c Classifier) *Machine {
	return &Machine{table: t, classifier: c, fingerprint: fingerprint(t, c)}
}

// FromDefinition compiles def and builds its classifier from def.Classes and def.Default.
func FromDefinition(def Definition, opts ...CompileOption) (*Machine, error) {
	t, err := Compile(def, opts...)
	if err != nil {
		return nil, err
	}
	cc, err := NewCharClasses(t, def.Classes, def.Default)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return NewMachine(t, cc), nil
}

// Name returns the machine name.
func (m *Machine) Name() string { return m.table.Name() }

// Table returns the underlying transition table.
func (m *Machine) Table() *Table { return m.table }

// Classifier returns the classifier feeding the table.
func (m *Machine) Classifier() Classifier { return m.classifier }

// Run folds input through the table starting at from and returns the final state.
// Symbols are the runes of input, processed strictly left to right; invalid
// UTF-8 bytes are classified as utf8.RuneError.
func (m *Machine) Run(from State, input string) State {
	final, _ := m.run(from, input)
	return final
}

func (m *Machine) run(from State, input string) (State, int) {
	state := from
	sink := m.table.sink
	consumed := 0
	for _, r := range input {
		if state == sink {
			break
		}
		state = m.table.Next(state, m.classifier.Classify(r))
		consumed++
	}
	return state, consumed
}

// Accepts reports whether a run ending in s is accepted.
func (m *Machine) Accepts(s State) bool {
	return m.table.IsAccepting(s)
}

// Validate runs input from the initial state and returns the verdict.
func (m *Machine) Validate(input string) bool {
	return m.Accepts(m.Run(m.table.initial, input))
}

// Evaluate runs input from the initial state and reports the full outcome.
func (m *Machine) Evaluate(input string) Outcome {
	final, consumed := m.run(m.table.initial, input)
	return Outcome{
		Final:    final,
		Accepted: m.Accepts(final),
		Consumed: consumed,
	}
}

// Trace runs input from the initial state and records every transition taken.
// It stops at the sink exactly like Run does.
func (m *Machine) Trace(input string) ([]Step, Outcome) {
	var steps []Step
	state := m.table.initial
	for offset, r := range input {
		if state == m.table.sink {
			break
		}
		col := m.classifier.Classify(r)
		next := m.table.Next(state, col)
		steps = append(steps, Step{Offset: offset, Symbol: r, Column: col, From: state, To: next})
		state = next
	}
	return steps, Outcome{Final: state, Accepted: m.Accepts(state), Consumed: len(steps)}
}

// CheckClassifier classifies every rune in [0, limit) and verifies the classifier
// only returns columns of the table. It is a construction-time sanity check for
// hand-written classifiers.
func (m *Machine) CheckClassifier(limit rune) error {
	var errs []error
	n := Column(m.table.NumColumns())
	for r := rune(0); r < limit; r++ {
		if c := m.classifier.Classify(r); c < 0 || c >= n {
			errs = append(errs, fmt.Errorf("symbol %q classified as out-of-range column %d", r, c))
			if len(errs) >= 8 {
				break
			}
		}
	}
	return errors.Join(errs...)
}
