package behavior

import (
	"fmt"
	"testing"

	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/stretchr/testify/require"
)

func TestBlackboard_Capacity(t *testing.T) {
	t.Parallel()

	var bb Blackboard
	for i := range MaxBlackboardEntries {
		require.True(t, bb.Set(fmt.Sprintf("k%d", i), i))
	}
	require.False(t, bb.Set("overflow", 1))
	require.False(t, bb.Has("overflow"))
	require.Equal(t, MaxBlackboardEntries, bb.Len())

	// existing keys may still be overwritten
	require.True(t, bb.Set("k0", "changed"))
	require.Equal(t, "changed", bb.Get("k0"))

	bb.Delete("k1")
	require.True(t, bb.Set("overflow", 1))
}

func TestBlackboard_Basics(t *testing.T) {
	t.Parallel()

	var bb Blackboard
	require.Nil(t, bb.Get("missing"))
	_, ok := bb.Lookup("missing")
	require.False(t, ok)

	bb.Set("b", "two")
	bb.Set("a", 1)
	require.Equal(t, []string{"a", "b"}, bb.Keys())
	s, ok := bb.String("b")
	require.True(t, ok)
	require.Equal(t, "two", s)
	_, ok = bb.String("a")
	require.False(t, ok)

	snap := bb.Snapshot()
	snap["c"] = 3
	require.False(t, bb.Has("c"))

	bb.Clear()
	require.Zero(t, bb.Len())
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, err := NewContext(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoWorld)

	ctx := newTestContext(t)
	_, err = NewContext(ctx.World, nil, nil)
	require.ErrorIs(t, err, ErrNoActor)

	_, ok := ctx.TakeAction()
	require.False(t, ok)
	ctx.SetAction(decision.Rest)
	a, ok := ctx.TakeAction()
	require.True(t, ok)
	require.Equal(t, decision.Rest, a)
	_, ok = ctx.TakeAction()
	require.False(t, ok)
}
