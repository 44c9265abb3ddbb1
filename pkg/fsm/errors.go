package fsm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is matched by every *ConfigError (errors.Is).
var ErrInvalidTable = errors.New("invalid machine definition")

// TableError reports a single problem found while compiling a definition.
// State and Column are set when the problem is tied to a cell or a row.
type TableError struct {
	State  string
	Column string
	Reason string
}

func (e *TableError) Error() string {
	switch {
	case e.State != "" && e.Column != "":
		return fmt.Sprintf("state %q, column %q: %s", e.State, e.Column, e.Reason)
	case e.State != "":
		return fmt.Sprintf("state %q: %s", e.State, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
	default:
		return e.Reason
	}
}

// ConfigError collects every TableError of one definition.
type ConfigError struct {
	Machine string
	Errors  []error
}

func (e *ConfigError) Error() string {
	name := e.Machine
	if name == "" {
		name = "<unnamed>"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("machine %q: %s", name, e.Errors[0].Error())
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("machine %q: %d definition errors:\n", name, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func (e *ConfigError) Unwrap() []error {
	return e.Errors
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidTable
}

// TableErrors returns the individual problems if err carries a *ConfigError.
// Otherwise returns nil.
func TableErrors(err error) []error {
	var cfg *ConfigError
	if errors.As(err, &cfg) {
		return cfg.Errors
	}
	return nil
}
