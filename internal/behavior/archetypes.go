package behavior

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joeycumines/lifesim/internal/world"
)

// Names of the archetype need checks that Gates can replace.
const (
	GateUrgent = "urgent"
	GateHungry = "hungry"
	GateTired  = "tired"
	GateLonely = "lonely"
)

// GateNames lists every replaceable check.
var GateNames = []string{GateUrgent, GateHungry, GateTired, GateLonely}

// Gates replaces archetype need checks by name. Checks without an entry keep
// their stock condition.
type Gates map[string]Condition

// CompileGates compiles one expression per gate. Empty expressions are
// skipped.
func CompileGates(exprs map[string]string) (Gates, error) {
	g := make(Gates, len(exprs))
	for name, src := range exprs {
		if !slices.Contains(GateNames, name) {
			return nil, fmt.Errorf("behavior: unknown gate %q", name)
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		c, err := NewExprCondition(src)
		if err != nil {
			return nil, fmt.Errorf("behavior: gate %s: %w", name, err)
		}
		g[name] = c
	}
	return g, nil
}

func (g Gates) pick(name string, stock Condition) Condition {
	if c, ok := g[name]; ok && c != nil {
		return c
	}
	return stock
}

func cond(name string, c Condition) *Node { return NewCondition(name, c) }
func act(name string, a Action) *Node     { return NewAction(name, a) }

// NewNPCTree attends to the most pressing need and idles otherwise.
func NewNPCTree() *Tree { return newNPCTree(nil) }

func newNPCTree(g Gates) *Tree {
	root := NewSelector("NPC Root",
		NewSequence("Handle Urgent", cond("Needs Urgent?", g.pick(GateUrgent, NeedsUrgent)), act("Rest", Rest)),
		NewSequence("Handle Hunger", cond("Is Hungry?", g.pick(GateHungry, IsHungry)), act("Eat", EatFood)),
		NewSequence("Handle Tiredness", cond("Is Tired?", g.pick(GateTired, IsTired)), act("Rest", Rest)),
		NewSequence("Handle Loneliness", cond("Is Lonely?", g.pick(GateLonely, IsLonely)), act("Socialize", Socialize)),
		act("Idle", Idle),
	)
	t, _ := NewTree("NPC", root)
	return t
}

// NewVillagerTree is the NPC tree under the villager name.
func NewVillagerTree() *Tree { return newVillagerTree(nil) }

func newVillagerTree(g Gates) *Tree {
	t := newNPCTree(g)
	t.Name = "Villager"
	return t
}

// NewFarmerTree follows the farming day: fields in the morning, town work in
// the afternoon, friends in the evening and bed at night. Needs come first.
func NewFarmerTree() *Tree { return newFarmerTree(nil) }

func newFarmerTree(g Gates) *Tree {
	root := NewSelector("Farmer Root",
		NewSequence("Handle Urgent",
			cond("Needs Urgent?", g.pick(GateUrgent, NeedsUrgent)),
			NewSelector("Recover",
				NewSequence("Eat If Possible", cond("Has Food?", HasFood), act("Eat", EatFood)),
				act("Rest", Rest),
			),
		),
		NewSequence("Handle Hunger", cond("Is Hungry?", g.pick(GateHungry, IsHungry)), cond("Has Food?", HasFood), act("Eat", EatFood)),
		NewSequence("Morning Farming", cond("Is Morning?", IsMorning), act("Farm", Farm)),
		NewSequence("Afternoon Work", cond("Is Afternoon?", IsAfternoon), act("Work", Work)),
		NewSequence("Evening Social",
			cond("Is Evening?", IsEvening),
			cond("Friend Nearby?", FriendNearby),
			act("Talk", TalkToNearby),
		),
		NewSequence("Night Rest", cond("Is Night?", IsNight), act("Rest", Rest)),
		act("Idle", Idle),
	)
	t, _ := NewTree("Farmer", root)
	return t
}

// NewMerchantTree works the shop through the day and socializes after.
func NewMerchantTree() *Tree { return newMerchantTree(nil) }

func newMerchantTree(g Gates) *Tree {
	root := NewSelector("Merchant Root",
		NewSequence("Handle Urgent", cond("Needs Urgent?", g.pick(GateUrgent, NeedsUrgent)), act("Rest", Rest)),
		NewSequence("Business Hours",
			NewSelector("Open?", cond("Is Morning?", IsMorning), cond("Is Afternoon?", IsAfternoon)),
			act("Work", Work),
		),
		NewSequence("Evening Social", cond("Is Evening?", IsEvening), act("Socialize", Socialize)),
		act("Wait", Wait),
	)
	t, _ := NewTree("Merchant", root)
	return t
}

// ForActor builds the archetype matching a's occupation, falling back to the
// villager tree. The tree is bound to a.
func ForActor(a *world.Actor) *Tree { return ForActorWith(a, nil) }

// ForActorWith is ForActor with need checks replaced by g.
func ForActorWith(a *world.Actor, g Gates) *Tree {
	var t *Tree
	title := ""
	if a.Occupation != nil {
		title = strings.ToLower(a.Occupation.Title)
	}
	switch title {
	case "farmer":
		t = newFarmerTree(g)
	case "merchant":
		t = newMerchantTree(g)
	default:
		t = newVillagerTree(g)
	}
	t.ActorID = a.ID
	return t
}
