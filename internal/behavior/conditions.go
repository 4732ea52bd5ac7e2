package behavior

import (
	"strings"

	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/world"
)

func needs(ctx *Context, fn func(world.Needs) bool) bool {
	n := ctx.Actor.Needs
	return n != nil && fn(*n)
}

func isTime(t world.TimeOfDay) Condition {
	return ConditionFunc(func(ctx *Context) bool { return ctx.World.Clock.TimeOfDay == t })
}

// Stock conditions.
var (
	IsHungry    Condition = ConditionFunc(func(ctx *Context) bool { return needs(ctx, world.Needs.Hungry) })
	IsTired     Condition = ConditionFunc(func(ctx *Context) bool { return needs(ctx, world.Needs.Tired) })
	IsLonely    Condition = ConditionFunc(func(ctx *Context) bool { return needs(ctx, world.Needs.Lonely) })
	NeedsUrgent Condition = ConditionFunc(func(ctx *Context) bool { return needs(ctx, world.Needs.Urgent) })

	HasCurrency Condition = ConditionFunc(func(ctx *Context) bool {
		w := ctx.Actor.Wallet
		return w != nil && w.Amount >= world.CurrencyReserve
	})
	InventoryFull Condition = ConditionFunc(func(ctx *Context) bool {
		inv := ctx.Actor.Inventory
		return inv != nil && inv.Full()
	})
	HasFood Condition = ConditionFunc(func(ctx *Context) bool {
		inv := ctx.Actor.Inventory
		return inv != nil && (inv.Has(world.ItemBread, 1) || inv.Has(world.ItemWheat, 1))
	})

	IsMorning   = isTime(world.Morning)
	IsAfternoon = isTime(world.Afternoon)
	IsEvening   = isTime(world.Evening)
	IsNight     = isTime(world.Night)

	FriendNearby Condition = ConditionFunc(func(ctx *Context) bool { return len(friendsNearby(ctx)) > 0 })

	AtWorkplace Condition = ConditionFunc(func(ctx *Context) bool {
		p, o := ctx.Actor.Position, ctx.Actor.Occupation
		return p != nil && o != nil && strings.Contains(p.Location, o.Workplace)
	})
)

// HasItem holds when the actor carries at least qty of item.
func HasItem(item string, qty int) Condition {
	return ConditionFunc(func(ctx *Context) bool {
		inv := ctx.Actor.Inventory
		return inv != nil && inv.Has(item, qty)
	})
}

// LastDecision holds when the actor's most recent logged decision chose a.
// It is false without a decision log.
func LastDecision(a decision.Action) Condition {
	return ConditionFunc(func(ctx *Context) bool {
		if ctx.Decisions == nil {
			return false
		}
		recs := ctx.Decisions.ByActor(ctx.Actor.ID, 0)
		return len(recs) > 0 && recs[len(recs)-1].Action == a
	})
}

// friendsNearby lists active actors within world.FriendRange whose
// relationship exceeds world.FriendThreshold, in world order.
func friendsNearby(ctx *Context) []*world.Actor {
	self := ctx.Actor
	if self.Position == nil || self.Relationships == nil {
		return nil
	}
	var out []*world.Actor
	for _, other := range ctx.World.Actors() {
		if !other.Active || other.ID == self.ID || other.Position == nil {
			continue
		}
		if self.Position.Distance(*other.Position) > world.FriendRange {
			continue
		}
		if self.Relationships.Get(other.ID) > world.FriendThreshold {
			out = append(out, other)
		}
	}
	return out
}
