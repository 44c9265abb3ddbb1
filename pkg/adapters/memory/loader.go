package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/tabula/pkg/fsm"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
type Loader struct {
	defs map[string]fsm.Definition
}

// NewLoader creates a new MemoryLoader from definitions.
// Later definitions replace earlier ones of the same name.
func NewLoader(defs ...fsm.Definition) (*Loader, error) {
	data := make(map[string]fsm.Definition, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("definition missing name")
		}
		data[d.Name] = d
	}
	return &Loader{defs: data}, nil
}

// GetDefinition retrieves a definition by name.
// The caller receives its own copy of the top-level fields.
func (l *Loader) GetDefinition(name string) (*fsm.Definition, error) {
	def, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("definition not found: %s", name)
	}
	return &def, nil
}

// ListDefinitions returns all available definition names.
func (l *Loader) ListDefinitions() ([]string, error) {
	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
