package dsl

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id        string
	initial   bool
	accepting bool
	isError   bool
	sink      bool
	on        map[string]string
	otherwise string
	builder   *Builder
}

// Initial marks the state as the start of every run.
func (s *StateBuilder) Initial() *StateBuilder {
	s.initial = true
	return s
}

// Accepting adds the state to the accepting set.
func (s *StateBuilder) Accepting() *StateBuilder {
	s.accepting = true
	return s
}

// Error marks the state as an error state. Its transitions must still be
// declared and may only lead to error states.
func (s *StateBuilder) Error() *StateBuilder {
	s.isError = true
	return s
}

// Sink marks the state as the absorbing error state: every column not set
// explicitly loops back to it.
func (s *StateBuilder) Sink() *StateBuilder {
	s.isError = true
	s.sink = true
	s.otherwise = s.id
	return s
}

// On sets the target of one column.
func (s *StateBuilder) On(column, target string) *StateBuilder {
	s.on[column] = target
	return s
}

// Otherwise sets the target of every column not set with On.
func (s *StateBuilder) Otherwise(target string) *StateBuilder {
	s.otherwise = target
	return s
}

// Add is a shortcut to declare the next state on the parent builder.
func (s *StateBuilder) Add(id string) *StateBuilder {
	return s.builder.Add(id)
}

func (s *StateBuilder) row(columns []string) map[string]string {
	row := make(map[string]string, len(columns))
	for col, target := range s.on {
		row[col] = target
	}
	if s.otherwise != "" {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = s.otherwise
			}
		}
	}
	return row
}
