package behavior

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	nameStyle    = lipgloss.NewStyle().Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyles = map[Status]lipgloss.Style{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

// Fprint writes one line per node of the subtree at n, indented by depth:
//
//	Farmer Root [Selector] Success x3
//
// Nodes never ticked show "-" for their status.
func Fprint(w io.Writer, n *Node, styled bool) error {
	var err error
	n.Walk(func(node *Node, depth int) {
		if err != nil {
			return
		}
		name, kind, status := node.name, "["+node.kind.String()+"]", "-"
		if node.executions > 0 {
			status = node.last.String()
		}
		if styled {
			name = nameStyle.Render(name)
			kind = kindStyle.Render(kind)
			if node.executions > 0 {
				status = statusStyles[node.last].Render(status)
			}
		}
		_, err = fmt.Fprintf(w, "%s%s %s %s x%d\n", strings.Repeat("  ", depth), name, kind, status, node.executions)
	})
	return err
}

// FprintStats writes a one-line summary of t's stats.
func FprintStats(w io.Writer, t *Tree) error {
	s := t.stats
	_, err := fmt.Fprintf(w, "%s: %d ticks, %.1f%% success, %.1f%% failure, %.1f%% running\n",
		t.Name, s.Ticks, s.Rate(s.Successes), s.Rate(s.Failures), s.Rate(s.Running))
	return err
}
