package world

import "math"

// Position places an actor on the map.
type Position struct {
	Location string  `json:"location"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Distance is the Euclidean distance between two positions.
func (p Position) Distance(o Position) float64 { return math.Hypot(o.X-p.X, o.Y-p.Y) }

// Needs are satisfaction levels in [0, 100], higher being better.
type Needs struct {
	Hunger float64 `json:"hunger"`
	Energy float64 `json:"energy"`
	Social float64 `json:"social"`
}

// Thresholds used when judging needs and relationships.
const (
	NeedThreshold   = 30 // below this a need is pressing
	UrgentThreshold = 20 // below this a need overrides everything else
	CurrencyReserve = 10 // minimum currency considered "has money"
	FriendThreshold = 30 // relationship above this is a friend
	FriendRange     = 10 // distance within which a friend counts as nearby
)

func (n Needs) Hungry() bool { return n.Hunger < NeedThreshold }
func (n Needs) Tired() bool  { return n.Energy < NeedThreshold }
func (n Needs) Lonely() bool { return n.Social < NeedThreshold }

// Urgent reports whether any need has dropped below UrgentThreshold.
func (n Needs) Urgent() bool {
	_, v := n.Lowest()
	return v < UrgentThreshold
}

func clampNeed(v float64) float64 { return math.Max(0, math.Min(100, v)) }

func (n *Needs) Eat(amount float64)       { n.Hunger = clampNeed(n.Hunger + amount) }
func (n *Needs) Rest(amount float64)      { n.Energy = clampNeed(n.Energy + amount) }
func (n *Needs) Socialize(amount float64) { n.Social = clampNeed(n.Social + amount) }

// Decay lowers every need by the given amounts.
func (n *Needs) Decay(hunger, energy, social float64) {
	n.Hunger = clampNeed(n.Hunger - hunger)
	n.Energy = clampNeed(n.Energy - energy)
	n.Social = clampNeed(n.Social - social)
}

// Lowest returns the name and value of the least satisfied need.
func (n Needs) Lowest() (string, float64) {
	name, v := "hunger", n.Hunger
	if n.Energy < v {
		name, v = "energy", n.Energy
	}
	if n.Social < v {
		name, v = "social", n.Social
	}
	return name, v
}

type Health struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Wallet holds an actor's currency.
type Wallet struct {
	Amount int `json:"amount"`
}

func (w *Wallet) Add(n int) { w.Amount += n }

// Spend deducts n if affordable.
func (w *Wallet) Spend(n int) bool {
	if n < 0 || n > w.Amount {
		return false
	}
	w.Amount -= n
	return true
}

// Items the stock behaviors know about.
const (
	ItemBread = "bread"
	ItemWheat = "wheat"
)

type ItemStack struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DefaultInventoryCapacity is the stack limit used by NewInventory when given
// a non-positive capacity.
const DefaultInventoryCapacity = 50

// Inventory is a bounded list of item stacks.
type Inventory struct {
	items    []ItemStack
	capacity int
}

func NewInventory(capacity int) *Inventory {
	if capacity <= 0 {
		capacity = DefaultInventoryCapacity
	}
	return &Inventory{capacity: capacity}
}

func (inv *Inventory) index(name string) int {
	for i, it := range inv.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Add stacks qty of name, returning false if a new stack is needed and the
// inventory is full.
func (inv *Inventory) Add(name string, qty int) bool {
	if qty <= 0 {
		return false
	}
	if i := inv.index(name); i >= 0 {
		inv.items[i].Quantity += qty
		return true
	}
	if len(inv.items) >= inv.capacity {
		return false
	}
	inv.items = append(inv.items, ItemStack{Name: name, Quantity: qty})
	return true
}

// Remove takes qty of name, dropping the stack when it empties.
func (inv *Inventory) Remove(name string, qty int) bool {
	i := inv.index(name)
	if i < 0 || qty <= 0 || inv.items[i].Quantity < qty {
		return false
	}
	inv.items[i].Quantity -= qty
	if inv.items[i].Quantity == 0 {
		inv.items = append(inv.items[:i], inv.items[i+1:]...)
	}
	return true
}

func (inv *Inventory) Count(name string) int {
	if i := inv.index(name); i >= 0 {
		return inv.items[i].Quantity
	}
	return 0
}

func (inv *Inventory) Has(name string, qty int) bool { return inv.Count(name) >= qty }

// Len is the number of distinct stacks.
func (inv *Inventory) Len() int      { return len(inv.items) }
func (inv *Inventory) Capacity() int { return inv.capacity }
func (inv *Inventory) Full() bool    { return len(inv.items) >= inv.capacity }

func (inv *Inventory) Items() []ItemStack { return append([]ItemStack(nil), inv.items...) }

type Occupation struct {
	Title     string `json:"title"`
	Workplace string `json:"workplace"`
	Skill     int    `json:"skill"`
}

type Goals struct {
	Current string   `json:"current"`
	Pending []string `json:"pending,omitempty"`
}

// Relationship scores are clamped to [-100, 100].
const (
	MinRelationship = -100
	MaxRelationship = 100
)

type relation struct {
	id    int
	value int
}

// Relationships is an actor's opinion of other actors, in insertion order.
type Relationships struct {
	entries []relation
}

func clampRelationship(v int) int { return max(MinRelationship, min(MaxRelationship, v)) }

// Get returns the stored score toward id, or 0 if none is recorded.
func (r *Relationships) Get(id int) int {
	if r == nil {
		return 0
	}
	for _, e := range r.entries {
		if e.id == id {
			return e.value
		}
	}
	return 0
}

func (r *Relationships) Set(id, value int) {
	value = clampRelationship(value)
	for i := range r.entries {
		if r.entries[i].id == id {
			r.entries[i].value = value
			return
		}
	}
	r.entries = append(r.entries, relation{id: id, value: value})
}

// Adjust adds delta to the score toward id and returns the new value.
func (r *Relationships) Adjust(id, delta int) int {
	v := clampRelationship(r.Get(id) + delta)
	r.Set(id, v)
	return v
}

func (r *Relationships) Len() int { return len(r.entries) }

type ScheduleEntry struct {
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Activity  string    `json:"activity"`
}

type Schedule struct {
	Entries []ScheduleEntry `json:"entries"`
}

// Activity returns the scheduled activity for t. ok is false when no entry
// covers t.
func (s *Schedule) Activity(t TimeOfDay) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, e := range s.Entries {
		if e.TimeOfDay == t {
			return e.Activity, true
		}
	}
	return "", false
}

type MemoryEntry struct {
	Text      string    `json:"text"`
	Day       int       `json:"day"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
}

// DefaultMemoryLimit bounds Memory when no limit is set.
const DefaultMemoryLimit = 50

type Memory struct {
	Entries []MemoryEntry `json:"entries"`
	Limit   int           `json:"limit"`
}

// Remember appends an entry, forgetting the oldest past the limit.
func (m *Memory) Remember(text string, c Clock) {
	limit := m.Limit
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	m.Entries = append(m.Entries, MemoryEntry{Text: text, Day: c.Day, TimeOfDay: c.TimeOfDay})
	if over := len(m.Entries) - limit; over > 0 {
		m.Entries = append(m.Entries[:0], m.Entries[over:]...)
	}
}
