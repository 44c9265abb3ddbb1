package fsm

import (
	"fmt"
	"unicode/utf8"
)

// Classifier maps an input symbol to a column of a table.
// Implementations must be total and deterministic: every rune maps to a column
// in [0, NumColumns) of the table they are paired with.
type Classifier interface {
	Classify(r rune) Column
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(r rune) Column

// Classify calls f(r).
func (f ClassifierFunc) Classify(r rune) Column {
	return f(r)
}

// CharClasses is a lookup-table classifier built from literal symbol sets.
// ASCII symbols are resolved by array index; everything else goes through a
// map, then falls back to the default column.
type CharClasses struct {
	ascii    [utf8.RuneSelf]Column
	extra    map[rune]Column
	fallback Column
}

var _ Classifier = (*CharClasses)(nil)

// NewCharClasses builds a classifier for t.
// classes maps a column name to the symbols belonging to it; fallback names the
// column receiving every other symbol. A symbol may belong to one class only.
func NewCharClasses(t *Table, classes map[string]string, fallback string) (*CharClasses, error) {
	var errs []error
	fail := func(column, format string, args ...any) {
		errs = append(errs, &TableError{Column: column, Reason: fmt.Sprintf(format, args...)})
	}

	cc := &CharClasses{extra: make(map[rune]Column)}
	if fallback == "" {
		fail("", "no default column declared for unclassified symbols")
	} else if col, ok := t.ColumnByName(fallback); ok {
		cc.fallback = col
	} else {
		fail(fallback, "default column is not declared")
	}
	for i := range cc.ascii {
		cc.ascii[i] = cc.fallback
	}

	owner := make(map[rune]string)
	for _, name := range sortedKeys(classes) {
		col, ok := t.ColumnByName(name)
		if !ok {
			fail(name, "class given for an undeclared column")
			continue
		}
		for _, r := range classes[name] {
			if prev, dup := owner[r]; dup {
				if prev != name {
					fail(name, "symbol %q already belongs to column %q", r, prev)
				}
				continue
			}
			owner[r] = name
			if r >= 0 && r < utf8.RuneSelf {
				cc.ascii[r] = col
			} else {
				cc.extra[r] = col
			}
		}
	}

	if len(errs) > 0 {
		return nil, &ConfigError{Machine: t.Name(), Errors: errs}
	}
	return cc, nil
}

// Classify returns the column of r.
func (c *CharClasses) Classify(r rune) Column {
	if r >= 0 && r < utf8.RuneSelf {
		return c.ascii[r]
	}
	if col, ok := c.extra[r]; ok {
		return col
	}
	return c.fallback
}
