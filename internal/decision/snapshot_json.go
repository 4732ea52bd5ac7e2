package decision

import (
	"encoding/json"

	"github.com/joeycumines/lifesim/internal/world"
)

type needsJSON struct {
	Hunger float64 `json:"hunger"`
	Energy float64 `json:"energy"`
	Social float64 `json:"social"`
}

type healthJSON struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

type inventoryJSON struct {
	Items    int `json:"items"`
	Capacity int `json:"capacity"`
}

type occupationJSON struct {
	Title     string `json:"title"`
	Workplace string `json:"workplace,omitempty"`
	Skill     int    `json:"skill_level"`
}

// Optional groups are omitted when absent, and their presence restores the
// HasX flags on decode.
type snapshotJSON struct {
	Entity struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"entity"`
	World struct {
		Day       int             `json:"day"`
		TimeOfDay world.TimeOfDay `json:"time_of_day"`
		Season    world.Season    `json:"season"`
		Year      int             `json:"year"`
		Weather   world.Weather   `json:"weather"`
	} `json:"world"`
	Position struct {
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Location string  `json:"location"`
	} `json:"position"`
	Needs         *needsJSON      `json:"needs,omitempty"`
	Health        *healthJSON     `json:"health,omitempty"`
	Currency      *int            `json:"currency,omitempty"`
	Inventory     *inventoryJSON  `json:"inventory,omitempty"`
	Occupation    *occupationJSON `json:"occupation,omitempty"`
	Goal          *string         `json:"goal,omitempty"`
	Relationships *bool           `json:"has_relationships,omitempty"`
	Nearby        []NearbyActor   `json:"nearby"`
	Activity      *string         `json:"activity,omitempty"`
	MemoryCount   *int            `json:"memory_count,omitempty"`
	RecentEvents  []uint64        `json:"recent_events"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var j snapshotJSON
	j.Entity.ID, j.Entity.Name, j.Entity.Type = s.ActorID, s.ActorName, s.ActorKind
	j.World.Day, j.World.TimeOfDay, j.World.Season, j.World.Year, j.World.Weather = s.Day, s.TimeOfDay, s.Season, s.Year, s.Weather
	j.Position.X, j.Position.Y, j.Position.Location = s.X, s.Y, s.Location
	if s.HasNeeds {
		j.Needs = &needsJSON{s.Hunger, s.Energy, s.Social}
	}
	if s.HasHealth {
		j.Health = &healthJSON{s.Health, s.HealthMax}
	}
	if s.HasCurrency {
		j.Currency = &s.Currency
	}
	if s.HasInventory {
		j.Inventory = &inventoryJSON{s.InventoryItems, s.InventoryCapacity}
	}
	if s.HasOccupation {
		j.Occupation = &occupationJSON{s.Occupation, s.Workplace, s.Skill}
	}
	if s.HasGoal {
		j.Goal = &s.Goal
	}
	if s.HasRelationships {
		j.Relationships = &s.HasRelationships
	}
	if s.HasSchedule {
		j.Activity = &s.Activity
	}
	if s.HasMemory {
		j.MemoryCount = &s.MemoryCount
	}
	j.Nearby = s.Nearby
	if j.Nearby == nil {
		j.Nearby = []NearbyActor{}
	}
	j.RecentEvents = s.RecentEvents
	if j.RecentEvents == nil {
		j.RecentEvents = []uint64{}
	}
	return json.Marshal(j)
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var j snapshotJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*s = Snapshot{
		ActorID:      j.Entity.ID,
		ActorName:    j.Entity.Name,
		ActorKind:    j.Entity.Type,
		Day:          j.World.Day,
		TimeOfDay:    j.World.TimeOfDay,
		Season:       j.World.Season,
		Year:         j.World.Year,
		Weather:      j.World.Weather,
		X:            j.Position.X,
		Y:            j.Position.Y,
		Location:     j.Position.Location,
		Nearby:       j.Nearby,
		RecentEvents: j.RecentEvents,
	}
	if j.Needs != nil {
		s.HasNeeds = true
		s.Hunger, s.Energy, s.Social = j.Needs.Hunger, j.Needs.Energy, j.Needs.Social
	}
	if j.Health != nil {
		s.HasHealth = true
		s.Health, s.HealthMax = j.Health.Current, j.Health.Max
	}
	if j.Currency != nil {
		s.HasCurrency, s.Currency = true, *j.Currency
	}
	if j.Inventory != nil {
		s.HasInventory = true
		s.InventoryItems, s.InventoryCapacity = j.Inventory.Items, j.Inventory.Capacity
	}
	if j.Occupation != nil {
		s.HasOccupation = true
		s.Occupation, s.Workplace, s.Skill = j.Occupation.Title, j.Occupation.Workplace, j.Occupation.Skill
	}
	if j.Goal != nil {
		s.HasGoal, s.Goal = true, *j.Goal
	}
	s.HasRelationships = j.Relationships != nil && *j.Relationships
	if j.Activity != nil {
		s.HasSchedule, s.Activity = true, *j.Activity
	}
	if j.MemoryCount != nil {
		s.HasMemory, s.MemoryCount = true, *j.MemoryCount
	}
	return nil
}
