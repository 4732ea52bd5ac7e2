package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/joeycumines/lifesim/internal/archive"
	"github.com/joeycumines/lifesim/internal/behavior"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/inspect"
	"github.com/joeycumines/lifesim/internal/journal"
	"github.com/joeycumines/lifesim/internal/sim"
)

// SimulateCommand runs the stock village and reports every decision.
type SimulateCommand struct {
	*BaseCommand
	env *Env

	ticks    int
	interval time.Duration
	radius   float64
	trace    bool
	seed     uint64
	archive  string
	journal  string
	serve    string
	quiet    bool
	plain    bool
	trees    bool
}

func NewSimulateCommand(env *Env) *SimulateCommand {
	return &SimulateCommand{
		BaseCommand: NewBaseCommand(
			"simulate",
			"Run the village simulation and record decisions",
			"simulate [options]",
		),
		env: env,
	}
}

func (c *SimulateCommand) SetupFlags(fs *flag.FlagSet) {
	cfg, s := c.env.Config, c.env.Schema
	fs.IntVar(&c.ticks, "ticks", s.Int(cfg, "", "sim.ticks"), "Steps to run, 0 runs until interrupted")
	fs.DurationVar(&c.interval, "interval", s.Duration(cfg, "", "sim.interval"), "Delay between steps")
	fs.Float64Var(&c.radius, "radius", s.Float(cfg, "", "sim.radius"), "Nearby-actor radius for snapshots")
	fs.BoolVar(&c.trace, "trace", s.Bool(cfg, "", "sim.trace"), "Log every behavior node tick")
	fs.Uint64Var(&c.seed, "seed", uint64(s.Int(cfg, "", "sim.seed")), "Weather seed")
	fs.StringVar(&c.archive, "archive", s.String(cfg, "", "archive.path"), "SQLite archive to record into")
	fs.StringVar(&c.journal, "journal", s.String(cfg, "", "journal.path"), "Journal file to save after the run")
	fs.StringVar(&c.serve, "serve", "", "Serve the inspect API on this address while running")
	fs.BoolVar(&c.quiet, "quiet", false, "Only print the summary")
	fs.BoolVar(&c.plain, "plain", false, "Never colour output")
	fs.BoolVar(&c.trees, "trees", false, "Print each behavior tree after the run")
}

// gates compiles the [behavior] need checks.
func (c *SimulateCommand) gates() (behavior.Gates, error) {
	exprs := make(map[string]string, len(behavior.GateNames))
	for _, name := range behavior.GateNames {
		exprs[name] = c.env.Schema.String(c.env.Config, "behavior", name)
	}
	return behavior.CompileGates(exprs)
}

func (c *SimulateCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	logger := c.env.logger()
	styled := !c.plain && isTerminal(stdout)

	gates, err := c.gates()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return err
	}

	w := sim.NewVillage()
	eng := sim.New(w, sim.Config{
		Steps:  c.ticks,
		Radius: c.radius,
		Trace:  c.trace,
		Seed:   c.seed,
		Gates:  gates,
	}, logger)

	var arc *archive.Archive
	if c.archive != "" {
		if arc, err = archive.Open(c.archive, logger); err != nil {
			return err
		}
		defer arc.Close()
		if err := arc.StartRun(eng.RunID, w.Len()); err != nil {
			return err
		}
		arc.Attach(eng.Bus)
	}

	eng.OnDecision = func(r *decision.Record) {
		if !c.quiet {
			_ = printDecision(stdout, r, styled)
		}
		if arc != nil {
			if err := arc.SaveDecision(r); err != nil {
				logger.Error("archive decision", "id", r.ID, "error", err)
			}
		}
	}

	var wg sync.WaitGroup
	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	var serveErr error
	if c.serve != "" {
		srv := inspect.New(eng.Decisions(), eng.Events, inspect.Options{
			Rate:    c.env.Schema.Float(c.env.Config, "", "inspect.rate"),
			Burst:   c.env.Schema.Int(c.env.Config, "", "inspect.burst"),
			Archive: arc,
			Logger:  logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveErr = srv.Serve(serveCtx, c.serve)
		}()
	}

	runErr := eng.Run(ctx, c.interval)

	_, _ = fmt.Fprintf(stdout, "\n%d steps, now %s\n", eng.Steps(), w.Clock)
	_ = printStats(stdout, eng.Decisions().Stats())
	for _, a := range w.Actors() {
		t, ok := eng.Tree(a.ID)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(stdout, "%s ", a.Name)
		_ = behavior.FprintStats(stdout, t)
		if c.trees {
			_ = behavior.Fprint(stdout, t.Root(), styled)
		}
	}

	if c.journal != "" {
		eng.Bus.Publish(event.New(event.GameSaved, event.NoEntity, "Journal saved to "+c.journal).At(w.Clock))
		if err := journal.Save(c.journal, journal.Capture(eng.RunID, w, eng.Events, eng.Decisions())); err != nil {
			return errors.Join(runErr, err)
		}
		_, _ = fmt.Fprintf(stdout, "journal saved to %s\n", c.journal)
	}

	if c.serve != "" && runErr == nil && ctx.Err() == nil {
		_, _ = fmt.Fprintf(stdout, "inspect API on http://%s, interrupt to stop\n", c.serve)
	} else {
		stopServe()
	}
	wg.Wait()
	return errors.Join(runErr, serveErr)
}
