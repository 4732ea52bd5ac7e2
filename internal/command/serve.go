package command

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/lifesim/internal/archive"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/inspect"
	"github.com/joeycumines/lifesim/internal/journal"
)

// ServeCommand serves a saved journal over the inspect API.
type ServeCommand struct {
	*BaseCommand
	env *Env

	journal string
	archive string
	addr    string
	rate    float64
	burst   int
}

func NewServeCommand(env *Env) *ServeCommand {
	return &ServeCommand{
		BaseCommand: NewBaseCommand(
			"serve",
			"Serve a saved journal over the inspect HTTP API",
			"serve [options]",
		),
		env: env,
	}
}

func (c *ServeCommand) SetupFlags(fs *flag.FlagSet) {
	cfg, s := c.env.Config, c.env.Schema
	fs.StringVar(&c.journal, "journal", s.String(cfg, "", "journal.path"), "Journal file to serve")
	fs.StringVar(&c.archive, "archive", s.String(cfg, "", "archive.path"), "SQLite archive listed under /api/runs")
	fs.StringVar(&c.addr, "addr", s.String(cfg, "", "inspect.addr"), "Listen address")
	fs.Float64Var(&c.rate, "rate", s.Float(cfg, "", "inspect.rate"), "Requests per second per client")
	fs.IntVar(&c.burst, "burst", s.Int(cfg, "", "inspect.burst"), "Request burst per client")
}

func (c *ServeCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	if c.journal == "" {
		return fmt.Errorf("serve: no journal; pass -journal or set journal.path")
	}
	logger := c.env.logger()

	j, err := journal.Load(c.journal)
	if err != nil {
		return err
	}
	decisions, events := decision.NewLog(decision.DefaultLogCapacity), event.NewLog(event.DefaultLogCapacity)
	j.Restore(nil, events, decisions, nil)
	logger.Info("journal loaded", "path", c.journal, "run", j.Run.String(), "decisions", decisions.Len(), "events", events.Len())

	var arc *archive.Archive
	if c.archive != "" {
		if arc, err = archive.Open(c.archive, logger); err != nil {
			return err
		}
		defer arc.Close()
	}

	_, _ = fmt.Fprintf(stdout, "serving run %s on http://%s\n", j.Run, c.addr)
	return inspect.New(decisions, events, inspect.Options{
		Rate:    c.rate,
		Burst:   c.burst,
		Archive: arc,
		Logger:  logger,
	}).Serve(ctx, c.addr)
}
