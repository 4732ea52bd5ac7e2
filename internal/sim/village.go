package sim

import "github.com/joeycumines/lifesim/internal/world"

// NewVillage returns the stock scenario: two farmers, a merchant and a
// villager who is friends with one of the farmers.
func NewVillage() *world.State {
	w := world.New()

	bob := villager(w, "Bob", "Farmer", "Farm", 2, 3)
	bob.Inventory.Add(world.ItemBread, 1)
	bob.Schedule = &world.Schedule{Entries: []world.ScheduleEntry{
		{TimeOfDay: world.Morning, Activity: "tend crops"},
		{TimeOfDay: world.Afternoon, Activity: "sell produce"},
		{TimeOfDay: world.Evening, Activity: "visit friends"},
		{TimeOfDay: world.Night, Activity: "sleep"},
	}}

	ann := villager(w, "Ann", "Merchant", "Market", 50, 0)
	ann.Wallet.Amount = 60
	ann.Inventory.Add(world.ItemBread, 4)

	cora := villager(w, "Cora", "Weaver", "Cottage", 6, 6)
	cora.Needs.Social = 25
	cora.Goals = &world.Goals{Current: "make friends"}

	dan := villager(w, "Dan", "Farmer", "Farm", 0, 40)
	dan.Needs.Hunger = 35

	befriend(bob, cora, 60)
	befriend(bob, dan, 40)
	befriend(ann, cora, 20)
	return w
}

func villager(w *world.State, name, title, workplace string, x, y float64) *world.Actor {
	a := w.Spawn(name, "Villager")
	a.Position = &world.Position{Location: workplace, X: x, Y: y}
	a.Needs = &world.Needs{Hunger: 80, Energy: 80, Social: 70}
	a.Health = &world.Health{Current: 100, Max: 100}
	a.Wallet = &world.Wallet{Amount: 15}
	a.Inventory = world.NewInventory(10)
	a.Occupation = &world.Occupation{Title: title, Workplace: workplace, Skill: 1}
	a.Relationships = &world.Relationships{}
	a.Memory = &world.Memory{}
	return a
}

func befriend(a, b *world.Actor, score int) {
	a.Relationships.Set(b.ID, score)
	b.Relationships.Set(a.ID, score)
}
