package behavior

import (
	"testing"

	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/world"
	"github.com/stretchr/testify/require"
)

func TestExprCondition(t *testing.T) {
	t.Parallel()

	ctx := newFarmerContext(t, 25)
	ctx.Actor.Inventory.Add(world.ItemBread, 1)

	for _, tc := range []struct {
		expression string
		want       bool
	}{
		{`hunger < 30 && food > 0`, true},
		{`energy < 30`, false},
		{`time == "Morning" && day == 1`, true},
		{`occupation == "Farmer"`, true},
		{`location contains "Far"`, true},
		{`season == "Spring" && has_needs`, true},
		{`currency >= 10 || friends_nearby > 0`, false},
	} {
		expression, want := tc.expression, tc.want
		c, err := NewExprCondition(expression)
		require.NoError(t, err, expression)
		require.Equal(t, want, c.Check(ctx), expression)
		require.NoError(t, c.Err())
		require.Equal(t, expression, c.Expression())
	}
}

func TestExprCondition_CompileErrors(t *testing.T) {
	t.Parallel()

	_, err := NewExprCondition("")
	require.Error(t, err)
	_, err = NewExprCondition("no_such_field > 1")
	require.Error(t, err)
	_, err = NewExprCondition("hunger + 1")
	require.Error(t, err, "non-boolean result")
	require.Panics(t, func() { MustExprCondition("hunger <") })
}

func TestExprCondition_InTree(t *testing.T) {
	t.Parallel()

	ctx := newFarmerContext(t, 25)
	ctx.Actor.Inventory.Add(world.ItemWheat, 1)
	root := NewSequence("eat when peckish",
		NewCondition("peckish", MustExprCondition(`hunger < 50 && food > 0`)),
		NewAction("eat", EatFood),
	)
	require.Equal(t, Success, root.Tick(ctx))
	require.Equal(t, 40.0, ctx.Actor.Needs.Hunger)
	require.Equal(t, Failure, root.Tick(ctx))
}

func TestCompileGates(t *testing.T) {
	t.Parallel()

	g, err := CompileGates(map[string]string{GateHungry: "hunger < 90", GateTired: "  "})
	require.NoError(t, err)
	require.Len(t, g, 1)
	require.Contains(t, g, GateHungry)

	_, err = CompileGates(map[string]string{"thirsty": "true"})
	require.ErrorContains(t, err, `unknown gate "thirsty"`)
	_, err = CompileGates(map[string]string{GateLonely: "social <"})
	require.ErrorContains(t, err, "gate lonely")
}

func TestForActorWith_GatesReplaceNeedChecks(t *testing.T) {
	t.Parallel()

	ctx := newFarmerContext(t, 60)
	ctx.Actor.Inventory.Add(world.ItemBread, 1)
	require.Equal(t, Success, ForActor(ctx.Actor).Tick(ctx))
	a, _ := ctx.TakeAction()
	require.Equal(t, decision.Harvest, a, "stock farmer is not hungry at 60")

	g, err := CompileGates(map[string]string{GateHungry: "hunger < 70"})
	require.NoError(t, err)
	require.Equal(t, Success, ForActorWith(ctx.Actor, g).Tick(ctx))
	a, _ = ctx.TakeAction()
	require.Equal(t, decision.Eat, a)
	require.Zero(t, ctx.Actor.Inventory.Count(world.ItemBread))
}
