package behavior

import (
	"context"
	"testing"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/stretchr/testify/require"
)

func TestAdaptTree_Statuses(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	n, _ := leaf("a", Running, Success, Failure)
	tr, err := NewTree("t", n)
	require.NoError(t, err)
	node := AdaptTree(tr, ctx)

	for _, want := range []bt.Status{bt.Running, bt.Success, bt.Failure} {
		got, err := node.Tick()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	stats := tr.Stats()
	require.Equal(t, 3, stats.Ticks)
	require.Equal(t, 1, stats.Successes)
	require.Equal(t, 1, stats.Failures)
}

func TestAdaptTree_Composes(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	a, _ := leaf("a", Success)
	tr, err := NewTree("t", a)
	require.NoError(t, err)

	status, err := bt.New(bt.Sequence, AdaptTree(tr, ctx), AdaptTree(tr, ctx)).Tick()
	require.NoError(t, err)
	require.Equal(t, bt.Success, status)
	require.Equal(t, 2, tr.Stats().Ticks)
	require.Equal(t, 2, ctx.Ticks())
}

func TestFromBTStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, Success, FromBTStatus(bt.Success))
	require.Equal(t, Running, FromBTStatus(bt.Running))
	require.Equal(t, Failure, FromBTStatus(bt.Failure))
	for _, s := range []Status{Success, Failure, Running} {
		require.Equal(t, s, FromBTStatus(toBT(s)))
	}
}

func TestAdaptTree_Ticker(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	n, _ := leaf("a", Success, Success, Failure)
	tr, err := NewTree("t", n)
	require.NoError(t, err)
	ticker := bt.NewTickerStopOnFailure(context.Background(), time.Millisecond, AdaptTree(tr, ctx))
	select {
	case <-ticker.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("ticker did not stop")
	}
	require.NoError(t, ticker.Err())
	require.Equal(t, 3, n.Executions())
}
