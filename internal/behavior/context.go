package behavior

import (
	"errors"
	"log/slog"

	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/world"
)

var (
	ErrNoWorld = errors.New("behavior: no world state")
	ErrNoActor = errors.New("behavior: no actor")
)

// Context is the per-actor evaluation environment. It outlives individual
// ticks and must not be shared between actors.
type Context struct {
	World *world.State
	Actor *world.Actor

	// Optional collaborators. Leaves publish through Bus when set, else
	// append straight to Events.
	Bus       *event.Bus
	Events    *event.Log
	Decisions *decision.Log

	Blackboard Blackboard

	ticks   int
	logging bool
	logger  *slog.Logger
}

// NewContext binds actor within w. A nil logger leaves tick tracing off
// regardless of SetLogging.
func NewContext(w *world.State, actor *world.Actor, logger *slog.Logger) (*Context, error) {
	if w == nil {
		return nil, ErrNoWorld
	}
	if actor == nil {
		return nil, ErrNoActor
	}
	return &Context{World: w, Actor: actor, logger: logger}, nil
}

// SetLogging toggles per-node tick tracing at debug level.
func (c *Context) SetLogging(on bool) { c.logging = on }

func (c *Context) Logging() bool { return c.logging }

// Ticks counts tree ticks made with this context.
func (c *Context) Ticks() int { return c.ticks }

func (c *Context) trace(n *Node, s Status) {
	if !c.logging || c.logger == nil {
		return
	}
	c.logger.Debug("bt tick",
		"actor", c.Actor.Name,
		"node", n.name,
		"kind", n.kind.String(),
		"status", s.String(),
		"tick", c.ticks,
	)
}

// SetAction notes the action performed this tick.
func (c *Context) SetAction(a decision.Action) { c.Blackboard.Set(KeyAction, a) }

// TakeAction returns and clears the action noted this tick.
func (c *Context) TakeAction() (decision.Action, bool) {
	v, ok := c.Blackboard.Lookup(KeyAction)
	if !ok {
		return decision.None, false
	}
	c.Blackboard.Delete(KeyAction)
	a, ok := v.(decision.Action)
	return a, ok
}

func (c *Context) publish(e *event.Event) {
	e.At(c.World.Clock)
	if p := c.Actor.Position; p != nil && e.Location == "" {
		e.Location = p.Location
	}
	switch {
	case c.Bus != nil:
		c.Bus.Publish(e)
	case c.Events != nil:
		c.Events.Append(e)
	}
}
