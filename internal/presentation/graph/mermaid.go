package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tabula/pkg/fsm"
)

// GraphOverlay highlights a run on top of the table diagram.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// Options tune the generated diagram.
type Options struct {
	// HideSink drops every edge into the sink state, which otherwise
	// dominates the picture for tables with a catch-all column.
	HideSink bool
	Overlay  *GraphOverlay
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 for a compiled table.
// Columns leading from the same state to the same target are merged into a
// single labelled edge. Accepting states get an exit arrow; error states are
// styled apart.
func GenerateMermaid(table *fsm.Table, opts Options) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	ids := mermaidIDs(table)
	for _, s := range table.States() {
		if ids[s] != table.StateName(s) {
			sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", table.StateName(s), ids[s]))
		}
	}

	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", ids[table.Initial()]))

	for _, s := range table.States() {
		if s == table.Sink() {
			continue // the sink only loops to itself
		}

		// Group columns by target, keeping the order targets first appear in.
		var targets []fsm.State
		labels := make(map[fsm.State][]string)
		for _, c := range table.Columns() {
			next := table.Next(s, c)
			if opts.HideSink && next == table.Sink() {
				continue
			}
			if _, ok := labels[next]; !ok {
				targets = append(targets, next)
			}
			labels[next] = append(labels[next], table.ColumnName(c))
		}

		for _, next := range targets {
			sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n", ids[s], ids[next], strings.Join(labels[next], ", ")))
		}
	}

	for _, s := range table.Accepting() {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", ids[s]))
	}

	if errs := table.Errors(); len(errs) > 0 {
		sb.WriteString("\n    classDef error fill:#ffebee,stroke:#c62828,color:#000\n")
		for _, s := range errs {
			sb.WriteString(fmt.Sprintf("    class %s error\n", ids[s]))
		}
	}

	// Apply Overlay Styles
	if o := opts.Overlay; o != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[string]bool)
		for _, name := range o.VisitedStates {
			if _, ok := table.StateByName(name); !ok || seen[name] || name == o.CurrentState {
				continue
			}
			seen[name] = true
			s, _ := table.StateByName(name)
			sb.WriteString(fmt.Sprintf("    class %s visited\n", ids[s]))
		}
		if s, ok := table.StateByName(o.CurrentState); ok {
			sb.WriteString(fmt.Sprintf("    class %s current\n", ids[s]))
		}
	}

	return sb.String()
}

// OverlayFromTrace builds an overlay from the steps of a traced run.
func OverlayFromTrace(table *fsm.Table, steps []fsm.Step, final fsm.State) *GraphOverlay {
	o := &GraphOverlay{
		VisitedStates: []string{table.StateName(table.Initial())},
		CurrentState:  table.StateName(final),
	}
	for _, st := range steps {
		o.VisitedStates = append(o.VisitedStates, table.StateName(st.To))
	}
	return o
}

// mermaidIDs assigns every state a distinct diagram identifier. Names that
// sanitize to an identifier already taken get a numeric suffix.
func mermaidIDs(table *fsm.Table) []string {
	ids := make([]string, table.NumStates())
	taken := make(map[string]bool, table.NumStates())
	// Names that need no rewriting keep their identifier.
	for _, s := range table.States() {
		if name := table.StateName(s); sanitizeMermaidID(name) == name {
			ids[s] = name
			taken[name] = true
		}
	}
	for _, s := range table.States() {
		if ids[s] != "" {
			continue
		}
		base := sanitizeMermaidID(table.StateName(s))
		id := base
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		ids[s] = id
		taken[id] = true
	}
	return ids
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
