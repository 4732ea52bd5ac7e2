package decision

import (
	"encoding/json"
	"testing"

	"github.com/joeycumines/lifesim/internal/world"
	"github.com/stretchr/testify/require"
)

func opts(actions ...Action) []Option {
	out := make([]Option, len(actions))
	for i, a := range actions {
		out[i] = Option{Action: a, Description: a.String(), Utility: float64(i), SuccessChance: 1, Target: NoTarget}
	}
	return out
}

func TestNewRecord_Validation(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{ActorID: 1}
	_, err := NewRecord(nil, opts(Eat), 0, "")
	require.ErrorIs(t, err, ErrNoSnapshot)
	_, err = NewRecord(snap, nil, 0, "")
	require.ErrorIs(t, err, ErrNoOptions)
	_, err = NewRecord(snap, opts(Eat, Rest), 2, "")
	require.ErrorIs(t, err, ErrChoiceOutOfRange)
	_, err = NewRecord(snap, opts(Eat), -1, "")
	require.ErrorIs(t, err, ErrChoiceOutOfRange)
}

func TestNewRecord_CopiesInputs(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{ActorID: 7, ActorName: "Ada", Day: 3, TimeOfDay: world.Evening, Nearby: []NearbyActor{{ID: 2}}}
	options := opts(Eat, Rest, Talk)
	rec, err := NewRecord(snap, options, 1, "tired")
	require.NoError(t, err)
	require.Equal(t, 7, rec.ActorID)
	require.Equal(t, 3, rec.Day)
	require.Equal(t, world.Evening, rec.TimeOfDay)
	require.Equal(t, Rest, rec.Action)
	require.Equal(t, Rest, rec.ChosenOption().Action)
	require.False(t, rec.Outcome.Executed)

	snap.Nearby[0].ID = 99
	options[1].Action = Wait
	require.Equal(t, 2, rec.Context.Nearby[0].ID)
	require.Equal(t, Rest, rec.Options[1].Action)
}

func TestNewRecord_TruncatesOptions(t *testing.T) {
	t.Parallel()

	many := opts(Move, Talk, Trade, Work, Rest, Eat, Plant, Harvest, Water, GiveGift, Wait, None)
	rec, err := NewRecord(&Snapshot{}, many, 9, "")
	require.NoError(t, err)
	require.Len(t, rec.Options, MaxOptions)
	require.Equal(t, GiveGift, rec.Action)

	_, err = NewRecord(&Snapshot{}, many, 10, "")
	require.ErrorIs(t, err, ErrChoiceOutOfRange)
}

func TestRecord_SetOutcomeOnce(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(&Snapshot{}, opts(Eat), 0, "")
	require.NoError(t, err)
	require.True(t, rec.SetOutcome(true, 30, "ate bread"))
	require.False(t, rec.SetOutcome(false, 0, "again"))
	require.Equal(t, Outcome{Executed: true, Succeeded: true, ActualUtility: 30, Description: "ate bread"}, rec.Outcome)
	require.Contains(t, rec.String(), "succeeded")
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{ActorID: 5, ActorName: "Cy", Day: 12, TimeOfDay: world.Night, HasNeeds: true, Hunger: 10}
	rec, err := NewRecord(snap, opts(Eat, GiveGift), 1, "generous")
	require.NoError(t, err)
	rec.ID = 77
	rec.SetOutcome(false, -5, "no wheat")

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(b), `"chosen_action":"Give Gift"`)

	var got Record
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.ActorID, got.ActorID)
	require.Equal(t, rec.Day, got.Day)
	require.Equal(t, rec.TimeOfDay, got.TimeOfDay)
	require.Equal(t, rec.Action, got.Action)
	require.Equal(t, rec.Options, got.Options)
	require.Equal(t, rec.Outcome, got.Outcome)
	require.Equal(t, rec.Reasoning, got.Reasoning)
	require.True(t, got.Context.HasNeeds)
	require.Equal(t, 10.0, got.Context.Hunger)
}
