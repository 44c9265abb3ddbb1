package ports

import "github.com/aretw0/tabula/pkg/fsm"

// DefinitionLoader defines how the engine retrieves machine definitions.
// This allows the storage layer (Loam, files, memory) to be decoupled.
type DefinitionLoader interface {
	// GetDefinition retrieves the definition of a machine by name.
	GetDefinition(name string) (*fsm.Definition, error)

	// ListDefinitions returns the names of all available definitions.
	ListDefinitions() ([]string, error)
}
