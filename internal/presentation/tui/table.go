package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tabula/pkg/fsm"
)

// TableMarkdown lays out a transition table as a Markdown document: one row
// per state, one column per symbol class, with the state roles marked.
func TableMarkdown(table *fsm.Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", table.Name()))
	if d := table.Description(); d != "" {
		sb.WriteString(d + "\n\n")
	}

	sb.WriteString("| state |")
	for _, c := range table.Columns() {
		sb.WriteString(fmt.Sprintf(" %s |", escapeCell(table.ColumnName(c))))
	}
	sb.WriteString(" role |\n|---|")
	for range table.Columns() {
		sb.WriteString("---|")
	}
	sb.WriteString("---|\n")

	for _, s := range table.States() {
		sb.WriteString(fmt.Sprintf("| %s |", escapeCell(table.StateName(s))))
		for _, c := range table.Columns() {
			sb.WriteString(fmt.Sprintf(" %s |", escapeCell(table.StateName(table.Next(s, c)))))
		}
		sb.WriteString(fmt.Sprintf(" %s |\n", roles(table, s)))
	}
	return sb.String()
}

func roles(table *fsm.Table, s fsm.State) string {
	var r []string
	if s == table.Initial() {
		r = append(r, "initial")
	}
	if table.IsAccepting(s) {
		r = append(r, "accepting")
	}
	if s == table.Sink() {
		r = append(r, "sink")
	} else if table.IsError(s) {
		r = append(r, "error")
	}
	return strings.Join(r, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
