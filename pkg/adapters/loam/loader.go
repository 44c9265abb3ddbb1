package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/tabula/pkg/fsm"
)

// Loader adapts the Loam library to the Tabula DefinitionLoader interface.
// Each document holds one machine: the definition in its frontmatter, an
// optional free-text description in its body.
type Loader struct {
	Repo *loam.TypedRepository[fsm.Definition]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[fsm.Definition]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric types consistent across JSON and YAML documents.
	// The loader never writes, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[fsm.Definition](repo)), nil
}

// GetDefinition retrieves a definition from the Loam repository.
func (l *Loader) GetDefinition(name string) (*fsm.Definition, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	def := doc.Data
	if def.Name == "" {
		def.Name = trimExtension(doc.ID)
	}
	if def.Description == "" {
		def.Description = strings.TrimSpace(doc.Content)
	}
	return &def, nil
}

// ListDefinitions lists all machines in the repository.
func (l *Loader) ListDefinitions() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		name := trimExtension(doc.ID)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
