package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/tabula/pkg/fsm"
)

// Registry manages the available machines by name.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]*fsm.Machine
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		machines: make(map[string]*fsm.Machine),
	}
}

// Register adds machines under their own names.
// It reports whether any of them replaced a machine of the same name.
func (r *Registry) Register(machines ...*fsm.Machine) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range machines {
		if _, ok := r.machines[m.Name()]; ok {
			replaced = true
		}
		r.machines[m.Name()] = m
	}
	return replaced
}

// Get looks up a machine by name.
func (r *Registry) Get(name string) (*fsm.Machine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[name]
	return m, ok
}

// Names returns the registered machine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
