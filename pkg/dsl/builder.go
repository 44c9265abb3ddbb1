package dsl

import (
	"fmt"

	"github.com/aretw0/tabula/pkg/fsm"
)

// Builder manages the table construction.
type Builder struct {
	name        string
	description string
	columns     []string
	classes     map[string]string
	fallback    string
	states      map[string]*StateBuilder
	order       []string
}

// New creates a new table builder for the named machine.
func New(name string) *Builder {
	return &Builder{
		name:    name,
		classes: make(map[string]string),
		states:  make(map[string]*StateBuilder),
	}
}

// Describe attaches a free-text description to the machine.
func (b *Builder) Describe(text string) *Builder {
	b.description = text
	return b
}

// Columns declares input columns, in index order.
func (b *Builder) Columns(names ...string) *Builder {
	b.columns = append(b.columns, names...)
	return b
}

// Class appends literal symbols to the class of a column.
func (b *Builder) Class(column, symbols string) *Builder {
	b.classes[column] += symbols
	return b
}

// Default names the column receiving every symbol not listed in a class.
func (b *Builder) Default(column string) *Builder {
	b.fallback = column
	return b
}

// Add creates a new state in the table. States are indexed in the order they are first added.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		id:      id,
		on:      make(map[string]string),
		builder: b,
	}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Definition renders the builder into a definition.
// Otherwise and Sink targets are expanded against the declared columns.
func (b *Builder) Definition() fsm.Definition {
	def := fsm.Definition{
		Name:        b.name,
		Description: b.description,
		States:      append([]string(nil), b.order...),
		Columns:     append([]string(nil), b.columns...),
		Transitions: make(map[string]map[string]string, len(b.order)),
		Default:     b.fallback,
	}
	if len(b.classes) > 0 {
		def.Classes = make(map[string]string, len(b.classes))
		for col, symbols := range b.classes {
			def.Classes[col] = symbols
		}
	}

	for _, id := range b.order {
		sb := b.states[id]
		if sb.initial {
			def.Initial = id
		}
		if sb.accepting {
			def.Accepting = append(def.Accepting, id)
		}
		if sb.sink {
			def.Sink = id
		} else if sb.isError {
			def.Errors = append(def.Errors, id)
		}
		def.Transitions[id] = sb.row(b.columns)
	}
	return def
}

// Build compiles the definition into a machine.
func (b *Builder) Build(opts ...fsm.CompileOption) (*fsm.Machine, error) {
	m, err := fsm.FromDefinition(b.Definition(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build machine %s: %w", b.name, err)
	}
	return m, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild(opts ...fsm.CompileOption) *fsm.Machine {
	m, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return m
}
