package event

import (
	"encoding/json"
	"testing"

	"github.com/joeycumines/lifesim/internal/world"
	"github.com/stretchr/testify/require"
)

func TestSubtype_Type(t *testing.T) {
	t.Parallel()

	for sub, want := range map[Subtype]Type{
		TradeOffered:        Economic,
		PriceChanged:        Economic,
		ConversationStarted: Social,
		GiftGiven:           Social,
		CropPlanted:         Agricultural,
		CropGrowthStage:     Agricultural,
		WeatherChanged:      Environmental,
		DayStarted:          Environmental,
		MorningStarted:      Time,
		NewYear:             Time,
		EntityCreated:       System,
		GameLoaded:          System,
	} {
		require.Equal(t, want, sub.Type(), sub.String())
	}
	require.Equal(t, "Unknown", Subtype(999).String())
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	e := Trade(1, 2, "wheat", 5, 20, true, "fair price")
	require.Equal(t, Economic, e.Type)
	require.Equal(t, TradeAccepted, e.Subtype)
	require.Equal(t, 2, e.Target)
	require.Equal(t, "Trade accepted: 5 wheat for 20 gold. fair price", e.Description)
	require.Equal(t, KindTrade, e.Payload.Kind())

	e = RelationshipChange(1, 2, 10, 35, "gift")
	require.Equal(t, "Relationship changed: 10 -> 35 (+25). gift", e.Description)
	require.Equal(t, 25, e.Payload.(*RelationshipData).Delta)

	e = Currency(3, -7, "bread")
	require.Equal(t, CurrencySpent, e.Subtype)
	require.Equal(t, "Spent 7 gold. bread", e.Description)
	require.Equal(t, NoEntity, e.Target)

	e = CropAction(CropHarvested, "wheat", 4, 5, 3)
	require.Equal(t, "harvested wheat at (4, 5)", e.Description)

	e = WeatherChange(world.Sunny, world.Rainy)
	require.Equal(t, NoEntity, e.Source)
	require.Equal(t, "Weather changed from Sunny to Rainy", e.Description)

	e = TimeAdvance(NewDay, world.Clock{Day: 4, TimeOfDay: world.Morning})
	require.Equal(t, Time, e.Type)
	require.Equal(t, 4, e.Day)
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	e := Trade(1, 2, "bread", 1, 5, false, "too pricey").At(world.Clock{Day: 9, TimeOfDay: world.Evening})
	e.ID = 42
	e.Location = "Market"

	b, err := json.Marshal(e)
	require.NoError(t, err)
	require.Contains(t, string(b), `"type":"Economic"`)
	require.Contains(t, string(b), `"payload_kind":"trade"`)

	var got Event
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, e.ID, got.ID)
	require.Equal(t, e.Type, got.Type)
	require.Equal(t, e.Subtype, got.Subtype)
	require.Equal(t, e.Day, got.Day)
	require.Equal(t, e.TimeOfDay, got.TimeOfDay)
	require.Equal(t, e.Source, got.Source)
	require.Equal(t, e.Target, got.Target)
	require.Equal(t, e.Location, got.Location)
	require.Equal(t, e.Payload, got.Payload)
	require.True(t, e.Timestamp.Equal(got.Timestamp))
}

func TestEvent_JSONWithoutPayload(t *testing.T) {
	t.Parallel()

	e := New(EntityCreated, 7, "spawned")
	b, err := json.Marshal(e)
	require.NoError(t, err)
	require.NotContains(t, string(b), "payload")

	var got Event
	require.NoError(t, json.Unmarshal(b, &got))
	require.Nil(t, got.Payload)
	require.Equal(t, System, got.Type)

	require.Error(t, json.Unmarshal([]byte(`{"type":"Economic","payload_kind":"bogus","payload":{}}`), &got))
	require.Error(t, json.Unmarshal([]byte(`{"type":"Nope"}`), &got))
}

func TestParseType(t *testing.T) {
	t.Parallel()

	v, err := ParseType("Social")
	require.NoError(t, err)
	require.Equal(t, Social, v)
	v, err = ParseType("All")
	require.NoError(t, err)
	require.Equal(t, AllTypes, v)
	_, err = ParseType("social")
	require.Error(t, err)
}
