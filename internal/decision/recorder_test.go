package decision

import (
	"testing"

	"github.com/joeycumines/lifesim/internal/world"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordAndComplete(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(NewLog(10), nil)
	_, err := rec.Record(&Snapshot{}, nil, 0, "")
	require.ErrorIs(t, err, ErrNoOptions)
	require.Zero(t, rec.Log().Len())

	r, err := rec.Record(&Snapshot{ActorID: 3}, opts(Eat, Rest), 0, "hungry")
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.ID)
	require.True(t, rec.Complete(r.ID, true, 30, "ate"))

	got, ok := rec.Log().Get(r.ID)
	require.True(t, ok)
	require.True(t, got.Outcome.Succeeded)
}

func TestEvaluate_HungryFarmer(t *testing.T) {
	t.Parallel()

	s := world.New()
	a := newFarmer(s)
	snap, err := Build(s, a, nil, DefaultRadius)
	require.NoError(t, err)

	options := Evaluate(snap)
	require.LessOrEqual(t, len(options), MaxOptions)
	require.Equal(t, Eat, options[Best(options)].Action)
	require.GreaterOrEqual(t, indexOf(options, Harvest), 0)
	require.GreaterOrEqual(t, indexOf(options, Plant), 0)
	require.GreaterOrEqual(t, indexOf(options, Trade), 0)
	require.Equal(t, Wait, options[len(options)-1].Action)
}

func TestEvaluate_NoNeeds(t *testing.T) {
	t.Parallel()

	options := Evaluate(&Snapshot{TimeOfDay: world.Night})
	require.Equal(t, []Action{Work, Wait}, []Action{options[0].Action, options[1].Action})
	require.Nil(t, Evaluate(nil))
	require.Equal(t, -1, Best(nil))
}

func TestRecorder_DecidePreferred(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(nil, nil)
	snap := &Snapshot{ActorName: "Di", HasNeeds: true, Hunger: 90, Energy: 90, Social: 90}

	r, err := rec.Decide(snap, Move)
	require.NoError(t, err)
	require.Equal(t, Move, r.Action)
	require.Contains(t, r.Reasoning, "Di chose Move")

	r, err = rec.Decide(snap, Rest)
	require.NoError(t, err)
	require.Equal(t, Rest, r.Action)

	r, err = rec.Decide(snap, None)
	require.NoError(t, err)
	require.Equal(t, None, r.Action, "doing nothing is recorded as such")
	require.Equal(t, "None (behavior)", r.ChosenOption().Description)
	require.Zero(t, r.ChosenOption().Utility)

	r, err = rec.Decide(snap, NoPreference)
	require.NoError(t, err)
	require.Equal(t, Work, r.Action)
	require.Equal(t, Best(r.Options), r.Chosen)

	_, err = rec.Decide(nil, Eat)
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestExplain(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		ActorName:     "Bob",
		Day:           4,
		TimeOfDay:     world.Morning,
		HasNeeds:      true,
		Hunger:        25,
		Energy:        80,
		Social:        60,
		HasOccupation: true,
		Occupation:    "farmer",
		HasGoal:       true,
		Goal:          "grow wheat",
	}
	options := opts(Eat, Rest)
	text := Explain(snap, options, 0)
	require.Contains(t, text, "Bob the Farmer chose Eat")
	require.Contains(t, text, "hunger 25 is below 30")
	require.Contains(t, text, "goal: Grow Wheat")
	require.Contains(t, text, "Next best: Rest")
	require.Empty(t, Explain(snap, options, 5))
}
