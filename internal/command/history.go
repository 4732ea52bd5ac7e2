package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/joeycumines/lifesim/internal/archive"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/journal"
)

// HistoryCommand prints recorded decisions from an archive or a journal.
type HistoryCommand struct {
	*BaseCommand
	env *Env

	archive string
	journal string
	run     string
	actor   int
	day     int
	action  string
	limit   int
	runs    bool
	plain   bool
}

func NewHistoryCommand(env *Env) *HistoryCommand {
	return &HistoryCommand{
		BaseCommand: NewBaseCommand(
			"history",
			"Show recorded decisions from an archive or journal",
			"history [options]",
		),
		env: env,
	}
}

func (c *HistoryCommand) SetupFlags(fs *flag.FlagSet) {
	cfg, s := c.env.Config, c.env.Schema
	fs.StringVar(&c.archive, "archive", s.String(cfg, "", "archive.path"), "SQLite archive to read")
	fs.StringVar(&c.journal, "journal", "", "Read this journal instead of the archive")
	fs.StringVar(&c.run, "run", "", "Only this run id (archive only)")
	fs.IntVar(&c.actor, "actor", 0, "Only this actor id")
	fs.IntVar(&c.day, "day", 0, "Only this in-game day")
	fs.StringVar(&c.action, "action", "", "Only this action, e.g. Harvest")
	fs.IntVar(&c.limit, "limit", s.Int(cfg, "history", "limit"), "Most recent rows to show, 0 for all")
	fs.BoolVar(&c.runs, "runs", false, "List archived runs instead")
	fs.BoolVar(&c.plain, "plain", !s.Bool(cfg, "history", "styled"), "Never colour output")
}

func (c *HistoryCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	var action *decision.Action
	if c.action != "" {
		a, err := decision.ParseAction(c.action)
		if err != nil {
			return err
		}
		action = &a
	}

	var (
		recs []*decision.Record
		err  error
	)
	switch {
	case c.journal != "":
		recs, err = c.fromJournal(action)
	case c.archive != "":
		recs, err = c.fromArchive(action, stdout)
	default:
		return fmt.Errorf("history: pass -archive or -journal, or set archive.path")
	}
	if err != nil {
		return err
	}

	styled := !c.plain && isTerminal(stdout)
	for _, r := range recs {
		if err := printDecision(stdout, r, styled); err != nil {
			return err
		}
	}
	return nil
}

func (c *HistoryCommand) fromArchive(action *decision.Action, stdout io.Writer) ([]*decision.Record, error) {
	arc, err := archive.Open(c.archive, c.env.logger())
	if err != nil {
		return nil, err
	}
	defer arc.Close()

	if c.runs {
		runs, err := arc.Runs()
		if err != nil {
			return nil, err
		}
		tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tACTORS\tDECISIONS\tSUCCEEDED\tEVENTS")
		for _, r := range runs {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Actors, r.Decisions, r.Succeeded, r.Events)
		}
		return nil, tw.Flush()
	}

	f := archive.DecisionFilter{Day: c.day, Actor: c.actor, Action: action, Limit: c.limit}
	if c.run != "" {
		if f.Run, err = uuid.Parse(c.run); err != nil {
			return nil, fmt.Errorf("history: run id: %w", err)
		}
	}
	return arc.Decisions(f)
}

// fromJournal applies the same filters to a journal's decision log.
func (c *HistoryCommand) fromJournal(action *decision.Action) ([]*decision.Record, error) {
	j, err := journal.Load(c.journal)
	if err != nil {
		return nil, err
	}
	dl := decision.NewLog(decision.DefaultLogCapacity)
	dl.Restore(j.Decisions)

	var out []*decision.Record
	for _, r := range dl.Recent(dl.Len()) {
		switch {
		case c.actor != 0 && r.ActorID != c.actor:
		case c.day != 0 && r.Day != c.day:
		case action != nil && r.Action != *action:
		default:
			out = append(out, r)
		}
		if c.limit > 0 && len(out) == c.limit {
			break
		}
	}
	slices.Reverse(out)
	return out, nil
}
