// Package sim drives the decision core: each step every active actor has
// its needs decay, ticks its behavior tree against a fresh snapshot and has
// the outcome recorded, after which the world clock advances.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/lifesim/internal/behavior"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/world"
)

// Config tunes an Engine. Zero values select defaults.
type Config struct {
	// Steps bounds Node and Run; 0 means unbounded.
	Steps int

	// Radius is the nearby-actor radius for snapshots.
	Radius float64

	// Trace turns on per-node tick logging.
	Trace bool

	// Seed drives the weather.
	Seed uint64

	// Gates replaces need checks in the archetype trees Bind picks.
	Gates behavior.Gates

	HungerDecay float64
	EnergyDecay float64
	SocialDecay float64
}

// Default decay per step.
const (
	DefaultHungerDecay = 5
	DefaultEnergyDecay = 3
	DefaultSocialDecay = 2
)

func (c Config) withDefaults() Config {
	if c.Radius <= 0 {
		c.Radius = decision.DefaultRadius
	}
	if c.HungerDecay == 0 && c.EnergyDecay == 0 && c.SocialDecay == 0 {
		c.HungerDecay, c.EnergyDecay, c.SocialDecay = DefaultHungerDecay, DefaultEnergyDecay, DefaultSocialDecay
	}
	return c
}

type agent struct {
	tree *behavior.Tree
	ctx  *behavior.Context
	node bt.Node
}

// Engine owns a world and the logs its actors' decisions land in. It is not
// safe for concurrent Step calls; the logs may be read concurrently.
type Engine struct {
	World    *world.State
	Bus      *event.Bus
	Events   *event.Log
	Recorder *decision.Recorder
	RunID    uuid.UUID

	// OnDecision, when set, sees each decision once its outcome is recorded.
	OnDecision func(*decision.Record)

	cfg    Config
	logger *slog.Logger
	rng    *rand.Rand
	agents map[int]*agent
	steps  int
}

// New wires an engine around w with fresh logs. A nil logger uses
// slog.Default.
func New(w *world.State, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	runID := uuid.New()
	logger = logger.With("run", runID.String())

	bus := event.NewBus(logger)
	events := event.NewLog(event.DefaultLogCapacity)
	events.Attach(bus)

	return &Engine{
		World:    w,
		Bus:      bus,
		Events:   events,
		Recorder: decision.NewRecorder(decision.NewLog(decision.DefaultLogCapacity), logger),
		RunID:    runID,
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		agents:   make(map[int]*agent),
	}
}

func (e *Engine) Decisions() *decision.Log { return e.Recorder.Log() }

// Steps reports how many steps have run.
func (e *Engine) Steps() int { return e.steps }

// Bind gives a its behavior tree, replacing any previous one. A nil tree
// picks the archetype for a's occupation.
func (e *Engine) Bind(a *world.Actor, t *behavior.Tree) error {
	ctx, err := behavior.NewContext(e.World, a, e.logger)
	if err != nil {
		return err
	}
	if t == nil {
		t = behavior.ForActorWith(a, e.cfg.Gates)
	}
	t.ActorID = a.ID
	ctx.Bus = e.Bus
	ctx.Events = e.Events
	ctx.Decisions = e.Decisions()
	ctx.SetLogging(e.cfg.Trace)
	_, existed := e.agents[a.ID]
	ag := &agent{tree: t, ctx: ctx}
	ag.node = bt.New(e.act(a, ag), behavior.AdaptTree(t, ctx))
	e.agents[a.ID] = ag
	if !existed {
		ev := event.New(event.EntityCreated, a.ID, fmt.Sprintf("%s the %s joined", a.Name, a.Kind))
		e.Bus.Publish(ev.At(e.World.Clock))
	}
	return nil
}

// Tree returns the tree bound to an actor.
func (e *Engine) Tree(actorID int) (*behavior.Tree, bool) {
	ag, ok := e.agents[actorID]
	if !ok {
		return nil, false
	}
	return ag.tree, true
}

// Step runs one simulation step. Actors without a tree are bound to their
// archetype first. Per-actor failures are logged and skipped.
func (e *Engine) Step() error {
	if e.World == nil {
		return behavior.ErrNoWorld
	}
	for _, a := range e.World.Actors() {
		if !a.Active {
			continue
		}
		if _, ok := e.agents[a.ID]; !ok {
			if err := e.Bind(a, nil); err != nil {
				return err
			}
		}
		if _, err := e.agents[a.ID].node.Tick(); err != nil {
			e.logger.Warn("actor step failed", "actor", a.ID, "error", err)
		}
	}
	e.steps++
	e.advance()
	return nil
}

// act is the tick of an actor's node. Its only child is the actor's adapted
// tree, ticked between the snapshot and the record.
func (e *Engine) act(a *world.Actor, ag *agent) bt.Tick {
	return func(children []bt.Node) (bt.Status, error) {
		if a.Needs != nil {
			a.Needs.Decay(e.cfg.HungerDecay, e.cfg.EnergyDecay, e.cfg.SocialDecay)
		}
		snap, err := decision.Build(e.World, a, e.Events, e.cfg.Radius)
		if err != nil {
			e.logger.Warn("snapshot failed", "actor", a.ID, "error", err)
			return bt.Failure, nil
		}
		ticked, err := children[0].Tick()
		if err != nil {
			return bt.Failure, err
		}
		status := behavior.FromBTStatus(ticked)
		e.record(a, ag, snap, status)
		return ticked, nil
	}
}

func (e *Engine) record(a *world.Actor, ag *agent, snap *decision.Snapshot, status behavior.Status) {
	action, acted := ag.ctx.TakeAction()
	if !acted {
		action = decision.NoPreference
	}

	rec, err := e.Recorder.Decide(snap, action)
	if err != nil {
		e.logger.Warn("decision not recorded", "actor", a.ID, "error", err)
		return
	}

	// Only an action the tree carried out gets an outcome. A running or
	// failed tree that did nothing leaves the best option as an unexecuted
	// candidate.
	if acted {
		succeeded := status != behavior.Failure
		utility := 0.0
		if succeeded {
			utility = rec.ChosenOption().Utility
		}
		e.Recorder.Complete(rec.ID, succeeded, utility, fmt.Sprintf("%s: tree %s", rec.Action, status))
	} else {
		e.logger.Debug("no action performed", "actor", a.ID, "tree", status, "candidate", rec.Action)
	}
	if e.OnDecision != nil {
		if done, ok := e.Decisions().Get(rec.ID); ok {
			e.OnDecision(done)
		}
	}

	if a.Memory != nil && acted && action != decision.None {
		a.Memory.Remember(fmt.Sprintf("Chose to %s", action), e.World.Clock)
	}
}

var timeOfDayEvents = [...]event.Subtype{
	world.Morning:   event.MorningStarted,
	world.Afternoon: event.AfternoonStarted,
	world.Evening:   event.EveningStarted,
	world.Night:     event.NightStarted,
}

func (e *Engine) advance() {
	before := e.World.Clock
	newDay := e.World.Advance()
	now := e.World.Clock

	e.Bus.Publish(event.TimeAdvance(timeOfDayEvents[now.TimeOfDay], now))
	if !newDay {
		return
	}
	e.Bus.Publish(event.TimeAdvance(event.NewDay, now))
	if now.Season != before.Season {
		e.Bus.Publish(event.TimeAdvance(event.NewSeason, now))
	}
	if now.Year != before.Year {
		e.Bus.Publish(event.TimeAdvance(event.NewYear, now))
	}
	if next := e.rollWeather(now.Season); next != e.World.Weather {
		prev := e.World.Weather
		e.World.Weather = next
		e.Bus.Publish(event.WeatherChange(prev, next).At(now))
	}
}

// rollWeather picks tomorrow's weather, drier in summer and stormier in
// the fall.
func (e *Engine) rollWeather(s world.Season) world.Weather {
	r := e.rng.IntN(100)
	switch {
	case s == world.Summer && r < 10:
		return world.Drought
	case s == world.Fall && r < 15:
		return world.Stormy
	case r < 50:
		return world.Sunny
	case r < 75:
		return world.Cloudy
	case r < 95:
		return world.Rainy
	default:
		return world.Stormy
	}
}

// Node exposes Step as a go-behaviortree node. It fails once the configured
// step budget is spent and errors if a step does.
func (e *Engine) Node() bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if e.cfg.Steps > 0 && e.steps >= e.cfg.Steps {
			return bt.Failure, nil
		}
		if err := e.Step(); err != nil {
			return bt.Failure, err
		}
		return bt.Success, nil
	})
}

// Run steps every interval until the budget is spent or ctx ends. An
// unbounded run only stops with ctx, and returns nil when it does.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	e.logger.Info("simulation started", "actors", e.World.Len(), "steps", e.cfg.Steps, "interval", interval)
	ticker := bt.NewTickerStopOnFailure(ctx, interval, e.Node())
	<-ticker.Done()
	err := ticker.Err()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	e.logger.Info("simulation stopped", "steps", e.steps, "day", e.World.Clock.Day, "error", err)
	return err
}
