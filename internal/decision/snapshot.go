package decision

import (
	"errors"
	"slices"

	"github.com/joeycumines/lifesim/internal/world"
)

// Snapshot limits.
const (
	MaxNearby       = 20
	MaxRecentEvents = 10
	DefaultRadius   = 100.0
)

var (
	ErrNoWorld = errors.New("decision: no world state")
	ErrNoActor = errors.New("decision: no actor")
)

// NearbyActor is another actor within the snapshot radius.
type NearbyActor struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Relationship int    `json:"relationship"`
}

// Snapshot is everything an actor could see when deciding. It is a deep copy
// and holds no references into the world; treat it as read-only. Each HasX
// flag is true exactly when the corresponding fields were populated.
type Snapshot struct {
	ActorID   int
	ActorName string
	ActorKind string

	Day       int
	TimeOfDay world.TimeOfDay
	Season    world.Season
	Year      int
	Weather   world.Weather

	X, Y     float64
	Location string

	HasNeeds               bool
	Hunger, Energy, Social float64

	HasHealth         bool
	Health, HealthMax int

	HasCurrency bool
	Currency    int

	HasInventory      bool
	InventoryItems    int
	InventoryCapacity int

	HasOccupation bool
	Occupation    string
	Workplace     string
	Skill         int

	HasGoal bool
	Goal    string

	HasRelationships bool
	Nearby           []NearbyActor

	HasSchedule bool
	Activity    string

	HasMemory   bool
	MemoryCount int

	RecentEvents []uint64
}

// RecentEventSource supplies the ids of the latest events involving an actor,
// oldest first.
type RecentEventSource interface {
	RecentIDsFor(actorID, n int) []uint64
}

// Build captures actor's view of s. Actors within radius of the actor are
// listed in world order up to MaxNearby. events may be nil.
func Build(s *world.State, actor *world.Actor, events RecentEventSource, radius float64) (*Snapshot, error) {
	if s == nil {
		return nil, ErrNoWorld
	}
	if actor == nil {
		return nil, ErrNoActor
	}

	snap := &Snapshot{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorKind: actor.Kind,
		Day:       s.Clock.Day,
		TimeOfDay: s.Clock.TimeOfDay,
		Season:    s.Clock.Season,
		Year:      s.Clock.Year,
		Weather:   s.Weather,
	}

	if p := actor.Position; p != nil {
		snap.X, snap.Y, snap.Location = p.X, p.Y, p.Location
	}
	if n := actor.Needs; n != nil {
		snap.HasNeeds = true
		snap.Hunger, snap.Energy, snap.Social = n.Hunger, n.Energy, n.Social
	}
	if h := actor.Health; h != nil {
		snap.HasHealth = true
		snap.Health, snap.HealthMax = h.Current, h.Max
	}
	if w := actor.Wallet; w != nil {
		snap.HasCurrency = true
		snap.Currency = w.Amount
	}
	if inv := actor.Inventory; inv != nil {
		snap.HasInventory = true
		snap.InventoryItems, snap.InventoryCapacity = inv.Len(), inv.Capacity()
	}
	if o := actor.Occupation; o != nil {
		snap.HasOccupation = true
		snap.Occupation, snap.Workplace, snap.Skill = o.Title, o.Workplace, o.Skill
	}
	if g := actor.Goals; g != nil && g.Current != "" {
		snap.HasGoal = true
		snap.Goal = g.Current
	}
	snap.HasRelationships = actor.Relationships != nil && actor.Relationships.Len() > 0
	if act, ok := actor.Schedule.Activity(s.Clock.TimeOfDay); ok {
		snap.HasSchedule = true
		snap.Activity = act
	}
	if m := actor.Memory; m != nil && len(m.Entries) > 0 {
		snap.HasMemory = true
		snap.MemoryCount = len(m.Entries)
	}

	snap.Nearby = nearby(s, actor, radius)
	if events != nil {
		snap.RecentEvents = events.RecentIDsFor(actor.ID, MaxRecentEvents)
	}
	return snap, nil
}

func nearby(s *world.State, self *world.Actor, radius float64) []NearbyActor {
	if self.Position == nil {
		return nil
	}
	var out []NearbyActor
	for _, other := range s.Actors() {
		if len(out) == MaxNearby {
			break
		}
		if !other.Active || other.ID == self.ID || other.Position == nil {
			continue
		}
		if self.Position.Distance(*other.Position) > radius {
			continue
		}
		out = append(out, NearbyActor{
			ID:           other.ID,
			Name:         other.Name,
			Relationship: self.Relationships.Get(other.ID),
		})
	}
	return out
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Nearby = slices.Clone(s.Nearby)
	c.RecentEvents = slices.Clone(s.RecentEvents)
	return &c
}

// Friends returns the nearby actors whose relationship exceeds
// world.FriendThreshold.
func (s *Snapshot) Friends() []NearbyActor {
	var out []NearbyActor
	for _, n := range s.Nearby {
		if n.Relationship > world.FriendThreshold {
			out = append(out, n)
		}
	}
	return out
}
