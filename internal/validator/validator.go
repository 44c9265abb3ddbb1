package validator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/fsm"
	"github.com/aretw0/tabula/pkg/ports"
)

// Finding is the lint result for one definition.
type Finding struct {
	Machine     string
	Errors      []error
	Unreachable []string
}

// OK reports whether the definition compiled.
func (f Finding) OK() bool { return len(f.Errors) == 0 }

// Report collects the findings of a validation run, in listing order.
type Report struct {
	Findings []Finding
}

// Err summarises every failed definition into a single error, or nil.
func (r *Report) Err() error {
	var lines []string
	for _, f := range r.Findings {
		for _, e := range f.Errors {
			lines = append(lines, fmt.Sprintf("%s: %v", f.Machine, e))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

// ValidateDefinitions compiles every definition the loader lists, without
// stopping at the first broken one. Unreachable states are reported but do
// not fail the definition.
func ValidateDefinitions(loader ports.DefinitionLoader, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	names, err := loader.ListDefinitions()
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	report := &Report{}
	for _, name := range names {
		report.Findings = append(report.Findings, validateOne(loader, name, logger))
	}
	return report, nil
}

func validateOne(loader ports.DefinitionLoader, name string, logger *slog.Logger) Finding {
	finding := Finding{Machine: name}

	def, err := loader.GetDefinition(name)
	if err != nil {
		finding.Errors = []error{err}
		logger.Error("failed to load definition", "machine", name, "err", err)
		return finding
	}

	m, err := fsm.FromDefinition(*def, fsm.WithLogger(logger))
	if err != nil {
		if errs := fsm.TableErrors(err); len(errs) > 0 {
			finding.Errors = errs
		} else {
			finding.Errors = []error{err}
		}
		logger.Error("invalid definition", "machine", name, "problems", len(finding.Errors))
		return finding
	}

	table := m.Table()
	for _, s := range table.Unreachable() {
		finding.Unreachable = append(finding.Unreachable, table.StateName(s))
	}
	return finding
}
