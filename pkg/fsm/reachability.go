package fsm

// Reachable reports, per state, whether it can be reached from the initial
// state by some input.
func (t *Table) Reachable() []bool {
	seen := make([]bool, len(t.states))
	if t.initial == NoState {
		return seen
	}
	queue := []State{t.initial}
	seen[t.initial] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for ci := range t.columns {
			to := t.cells[int(s)*len(t.columns)+ci]
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}

// Unreachable returns the states no input can lead to, in declaration order.
func (t *Table) Unreachable() []State {
	var out []State
	for i, ok := range t.Reachable() {
		if !ok {
			out = append(out, State(i))
		}
	}
	return out
}

// CanAccept reports whether some (possibly empty) input leads from s to an
// accepting state. Error states never can.
func (t *Table) CanAccept(s State) bool {
	if s < 0 || int(s) >= len(t.states) {
		return false
	}
	seen := make([]bool, len(t.states))
	queue := []State{s}
	seen[s] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if t.accepting[cur] {
			return true
		}
		for ci := range t.columns {
			to := t.cells[int(cur)*len(t.columns)+ci]
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return false
}
