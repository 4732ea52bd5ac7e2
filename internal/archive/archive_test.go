package archive

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/world"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "nested", "archive.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func record(t *testing.T, w *world.State, actor *world.Actor, id uint64, action decision.Action) *decision.Record {
	t.Helper()
	snap, err := decision.Build(w, actor, nil, decision.DefaultRadius)
	require.NoError(t, err)
	r, err := decision.NewRecord(snap, []decision.Option{{Action: action, Utility: 40, SuccessChance: 1}}, 0, "because")
	require.NoError(t, err)
	r.ID = id
	return r
}

func TestSave_RequiresRun(t *testing.T) {
	t.Parallel()

	a := openTemp(t)
	require.ErrorIs(t, a.SaveEvent(event.New(event.NewDay, event.NoEntity, "")), ErrNoRun)
	require.ErrorIs(t, a.SaveDecision(&decision.Record{}), ErrNoRun)
	require.ErrorIs(t, a.SaveDecisions(nil), ErrNoRun)
}

func TestEvents_RoundTripAndFilters(t *testing.T) {
	t.Parallel()

	a := openTemp(t)
	run := uuid.New()
	require.NoError(t, a.StartRun(run, 2))
	require.Equal(t, run, a.Run())

	bus := event.NewBus(nil)
	_, ok := a.Attach(bus)
	require.True(t, ok)

	c := world.Clock{Day: 1, Year: 1}
	bus.Publish(event.Currency(1, 20, "wages").At(c))
	bus.Publish(event.New(event.ConversationStarted, 1, "chat").At(c))
	c.Day = 2
	trade := event.Trade(2, 1, "wheat", 3, 12, true, "fair")
	trade.At(c)
	bus.Publish(trade)
	bus.Publish(event.TimeAdvance(event.NewDay, c))

	all, err := a.Events(EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, uint64(1), all[0].ID)
	require.Equal(t, uint64(4), all[3].ID)

	got, err := a.Events(EventFilter{Run: run, Day: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = a.Events(EventFilter{Entity: 1})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.IsType(t, &event.TradeData{}, got[2].Payload)
	require.Equal(t, 12, got[2].Payload.(*event.TradeData).OfferedPrice)

	social := event.Social
	got, err = a.Events(EventFilter{Type: &social})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "chat", got[0].Description)

	got, err = a.Events(EventFilter{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, []uint64{got[0].ID, got[1].ID})

	// duplicates are ignored
	require.NoError(t, a.SaveEvent(&all[0]))
	all, err = a.Events(EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	got, err = a.Events(EventFilter{Run: uuid.New()})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecisions_UpsertKeepsLatestOutcome(t *testing.T) {
	t.Parallel()

	a := openTemp(t)
	require.NoError(t, a.StartRun(uuid.New(), 1))
	w := world.New()
	bob := w.Spawn("Bob", "Villager")
	bob.Needs = &world.Needs{Hunger: 25, Energy: 80, Social: 60}

	r := record(t, w, bob, 1, decision.Eat)
	require.NoError(t, a.SaveDecision(r))
	require.True(t, r.SetOutcome(true, 35, "ate bread"))
	require.NoError(t, a.SaveDecision(r))

	got, err := a.Decisions(DecisionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, decision.Eat, got[0].Action)
	require.True(t, got[0].Outcome.Succeeded)
	require.Equal(t, "because", got[0].Reasoning)
	require.NotNil(t, got[0].Context)
	require.Equal(t, 25.0, got[0].Context.Hunger)
}

func TestDecisions_Filters(t *testing.T) {
	t.Parallel()

	a := openTemp(t)
	run := uuid.New()
	require.NoError(t, a.StartRun(run, 2))
	w := world.New()
	bob := w.Spawn("Bob", "Villager")
	ann := w.Spawn("Ann", "Villager")

	var batch []*decision.Record
	batch = append(batch, record(t, w, bob, 1, decision.Work), record(t, w, ann, 2, decision.Rest))
	w.Clock.Day = 2
	batch = append(batch, record(t, w, bob, 3, decision.Rest))
	require.NoError(t, a.SaveDecisions(batch))

	got, err := a.Decisions(DecisionFilter{Actor: bob.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint64(1), got[0].ID)

	rest := decision.Rest
	got, err = a.Decisions(DecisionFilter{Run: run, Action: &rest})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = a.Decisions(DecisionFilter{Day: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint64(3), got[0].ID)

	require.True(t, batch[0].SetOutcome(true, 20, "paid"))
	require.NoError(t, a.SaveDecision(batch[0]))

	runs, err := a.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run.String(), runs[0].ID)
	require.Equal(t, 2, runs[0].Actors)
	require.Equal(t, 3, runs[0].Decisions)
	require.Equal(t, 1, runs[0].Succeeded)
	require.Zero(t, runs[0].Events)
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := Open(path, nil)
	require.NoError(t, err)
	run := uuid.New()
	require.NoError(t, a.StartRun(run, 0))
	require.NoError(t, a.SaveEvent(event.New(event.GameSaved, event.NoEntity, "saved")))
	require.NoError(t, a.Close())

	b, err := Open(path, nil)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Events(EventFilter{Run: run})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "saved", got[0].Description)
}
