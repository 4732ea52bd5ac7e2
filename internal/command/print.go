package command

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/joeycumines/lifesim/internal/decision"
)

var (
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	actorStyle   = lipgloss.NewStyle().Bold(true)
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	outcomeStyle = map[string]lipgloss.Style{
		"ok":      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"failed":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"pending": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func outcomeLabel(r *decision.Record) string {
	switch {
	case !r.Outcome.Executed:
		return "pending"
	case r.Outcome.Succeeded:
		return "ok"
	default:
		return "failed"
	}
}

// printDecision writes one line per record:
//
//	#12 day 2 Morning Bob: Harvest [ok] utility 0.80 - reasoning
func printDecision(w io.Writer, r *decision.Record, styled bool) error {
	clock := fmt.Sprintf("#%d day %d %s", r.ID, r.Day, r.TimeOfDay)
	actor, action, outcome := r.ActorName, r.Action.String(), outcomeLabel(r)
	if styled {
		clock = clockStyle.Render(clock)
		actor = actorStyle.Render(actor)
		action = actionStyle.Render(action)
		outcome = outcomeStyle[outcome].Render(outcome)
	}
	utility := 0.0
	if r.Chosen >= 0 && r.Chosen < len(r.Options) {
		utility = r.Options[r.Chosen].Utility
	}
	_, err := fmt.Fprintf(w, "%s %s: %s [%s] utility %.2f - %s\n", clock, actor, action, outcome, utility, r.Reasoning)
	return err
}

// printStats writes the totals of a decision log, one action per line.
func printStats(w io.Writer, s decision.Stats) error {
	if _, err := fmt.Fprintf(w, "%d decisions, %d succeeded, %d failed\n", s.Total, s.Succeeded, s.Failed); err != nil {
		return err
	}
	for i, n := range s.ByAction {
		if n == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-10s %d\n", decision.Action(i), n); err != nil {
			return err
		}
	}
	return nil
}
