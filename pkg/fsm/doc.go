/*
Package fsm implements table-driven finite-state machines over character input.

A machine is assembled from three parts:

  - a Table: an immutable, total matrix State x Column -> State, compiled and
    checked once from a Definition;
  - a Classifier: a total function mapping every rune to a Column;
  - an acceptance set, carried by the Table, deciding the verdict for the
    state the input ends in.

Running a machine folds the input left to right through the table. Output is a
pure function of the final state (Moore style). Once the run reaches the
table's absorbing sink state, the remaining input is skipped, since no column
leads out of the sink.

# Definitions

Tables are declared as a mapping of mappings, keyed by state name and then by
column name:

	def := fsm.Definition{
		Name:      "ab",
		States:    []string{"start", "seen", "dead"},
		Columns:   []string{"a", "other"},
		Initial:   "start",
		Accepting: []string{"seen"},
		Errors:    []string{"dead"},
		Transitions: map[string]map[string]string{
			"start": {"a": "seen", "other": "dead"},
			"seen":  {"a": "seen", "other": "dead"},
			"dead":  {"a": "dead", "other": "dead"},
		},
		Classes: map[string]string{"a": "aA"},
		Default: "other",
	}

	m, err := fsm.FromDefinition(def)
	if err != nil {
		// *fsm.ConfigError lists every missing or invalid entry
	}
	m.Validate("aAa") // true

State and column indices follow declaration order, so callers may define typed
constants for them (see package machines).

Tables and machines are never mutated after construction and are safe for
concurrent use.
*/
package fsm
