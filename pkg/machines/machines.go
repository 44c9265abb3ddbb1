package machines

import "github.com/aretw0/tabula/pkg/fsm"

// All returns the reference machines.
func All() []*fsm.Machine {
	return []*fsm.Machine{Binary, Expression}
}
