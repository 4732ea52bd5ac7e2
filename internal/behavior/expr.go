package behavior

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/joeycumines/lifesim/internal/world"
)

// ExprEnv is the environment an ExprCondition evaluates against. Fields of
// absent components are zero; the has_* flags say which were present.
type ExprEnv struct {
	Name       string  `expr:"name"`
	Kind       string  `expr:"kind"`
	Hunger     float64 `expr:"hunger"`
	Energy     float64 `expr:"energy"`
	Social     float64 `expr:"social"`
	HasNeeds   bool    `expr:"has_needs"`
	Health     int     `expr:"health"`
	Currency   int     `expr:"currency"`
	Items      int     `expr:"items"`
	Food       int     `expr:"food"`
	Occupation string  `expr:"occupation"`
	Location   string  `expr:"location"`
	Friends    int     `expr:"friends_nearby"`
	Day        int     `expr:"day"`
	Time       string  `expr:"time"`
	Season     string  `expr:"season"`
	Weather    string  `expr:"weather"`
	Tick       int     `expr:"tick"`
}

func newExprEnv(ctx *Context) ExprEnv {
	a, w := ctx.Actor, ctx.World
	env := ExprEnv{
		Name:    a.Name,
		Kind:    a.Kind,
		Day:     w.Clock.Day,
		Time:    w.Clock.TimeOfDay.String(),
		Season:  w.Clock.Season.String(),
		Weather: w.Weather.String(),
		Tick:    ctx.ticks,
		Friends: len(friendsNearby(ctx)),
	}
	if n := a.Needs; n != nil {
		env.HasNeeds = true
		env.Hunger, env.Energy, env.Social = n.Hunger, n.Energy, n.Social
	}
	if h := a.Health; h != nil {
		env.Health = h.Current
	}
	if wl := a.Wallet; wl != nil {
		env.Currency = wl.Amount
	}
	if inv := a.Inventory; inv != nil {
		env.Items = inv.Len()
		env.Food = inv.Count(world.ItemBread) + inv.Count(world.ItemWheat)
	}
	if o := a.Occupation; o != nil {
		env.Occupation = o.Title
	}
	if p := a.Position; p != nil {
		env.Location = p.Location
	}
	return env
}

// ExprCondition is a Condition written as an expr-lang boolean expression
// over ExprEnv, e.g. `hunger < 30 && food > 0`.
type ExprCondition struct {
	expression string
	program    *vm.Program

	mu      sync.Mutex
	lastErr error
}

var _ Condition = (*ExprCondition)(nil)

// NewExprCondition compiles expression. Unknown identifiers and non-boolean
// results are compile errors.
func NewExprCondition(expression string) (*ExprCondition, error) {
	if expression == "" {
		return nil, errors.New("behavior: empty expression")
	}
	program, err := expr.Compile(expression, expr.Env(ExprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %q: %w", expression, err)
	}
	return &ExprCondition{expression: expression, program: program}, nil
}

// MustExprCondition is NewExprCondition for expressions known at build time.
func MustExprCondition(expression string) *ExprCondition {
	c, err := NewExprCondition(expression)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *ExprCondition) Expression() string { return c.expression }

// Check evaluates the expression. Evaluation errors count as false and are
// kept for Err.
func (c *ExprCondition) Check(ctx *Context) bool {
	out, err := expr.Run(c.program, newExprEnv(ctx))
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	if err != nil {
		logger := ctx.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("expr condition failed", "expression", c.expression, "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// Err returns the error from the most recent Check, if any.
func (c *ExprCondition) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
