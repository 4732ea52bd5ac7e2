package behavior

import (
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/world"
)

// Amounts applied by the stock actions.
const (
	BreadNourishment = 30
	WheatNourishment = 15
	RestAmount       = 40
	SocializeAmount  = 30
	TalkAmount       = 25
	WorkEnergyCost   = 10
	WorkWage         = 20
	FarmEnergyCost   = 15
	FarmYield        = 5
)

func done(ctx *Context, a decision.Action) Status {
	ctx.SetAction(a)
	return Success
}

// Stock actions. Each notes the decision.Action it performed on the
// blackboard when it succeeds.
var (
	// MoveToTarget relocates the actor to the KeyTargetLocation entry.
	MoveToTarget Action = ActionFunc(func(ctx *Context) Status {
		target, ok := ctx.Blackboard.String(KeyTargetLocation)
		p := ctx.Actor.Position
		if !ok || target == "" || p == nil {
			return Failure
		}
		p.Location = target
		return done(ctx, decision.Move)
	})

	Wait Action = ActionFunc(func(ctx *Context) Status { return done(ctx, decision.Wait) })

	Idle Action = ActionFunc(func(ctx *Context) Status { return done(ctx, decision.None) })

	// EatFood eats bread, or wheat when there is no bread.
	EatFood Action = ActionFunc(func(ctx *Context) Status {
		n, inv := ctx.Actor.Needs, ctx.Actor.Inventory
		if n == nil || inv == nil {
			return Failure
		}
		switch {
		case inv.Remove(world.ItemBread, 1):
			n.Eat(BreadNourishment)
		case inv.Remove(world.ItemWheat, 1):
			n.Eat(WheatNourishment)
		default:
			return Failure
		}
		return done(ctx, decision.Eat)
	})

	Rest Action = ActionFunc(func(ctx *Context) Status {
		n := ctx.Actor.Needs
		if n == nil {
			return Failure
		}
		n.Rest(RestAmount)
		return done(ctx, decision.Rest)
	})

	Socialize Action = ActionFunc(func(ctx *Context) Status {
		n := ctx.Actor.Needs
		if n == nil {
			return Failure
		}
		n.Socialize(SocializeAmount)
		return done(ctx, decision.Talk)
	})

	Work Action = ActionFunc(func(ctx *Context) Status {
		a := ctx.Actor
		if a.Needs != nil {
			a.Needs.Decay(0, WorkEnergyCost, 0)
		}
		if a.Wallet != nil {
			a.Wallet.Add(WorkWage)
			ctx.publish(event.Currency(a.ID, WorkWage, "wages"))
		}
		return done(ctx, decision.Work)
	})

	Farm Action = ActionFunc(func(ctx *Context) Status {
		a := ctx.Actor
		if a.Needs != nil {
			a.Needs.Decay(0, FarmEnergyCost, 0)
		}
		if a.Inventory != nil && a.Inventory.Add(world.ItemWheat, FarmYield) {
			var x, y int
			if p := a.Position; p != nil {
				x, y = int(p.X), int(p.Y)
			}
			ctx.publish(event.CropAction(event.CropHarvested, world.ItemWheat, x, y, a.ID))
		}
		return done(ctx, decision.Harvest)
	})

	// TalkToNearby chats with the first nearby friend, if any.
	TalkToNearby Action = ActionFunc(func(ctx *Context) Status {
		a := ctx.Actor
		if a.Needs != nil {
			a.Needs.Socialize(TalkAmount)
		}
		e := event.New(event.ConversationStarted, a.ID, a.Name+" chatted")
		if friends := friendsNearby(ctx); len(friends) > 0 {
			e.Target = friends[0].ID
			e.Description = a.Name + " chatted with " + friends[0].Name
			ctx.Blackboard.Set(KeyTargetActor, friends[0].ID)
		}
		ctx.publish(e)
		return done(ctx, decision.Talk)
	})

	// GiveGift hands one wheat to the first nearby friend.
	GiveGift Action = ActionFunc(func(ctx *Context) Status {
		a := ctx.Actor
		if a.Inventory == nil || !a.Inventory.Remove(world.ItemWheat, 1) {
			return Failure
		}
		e := event.New(event.GiftGiven, a.ID, a.Name+" gave away wheat")
		if friends := friendsNearby(ctx); len(friends) > 0 {
			e.Target = friends[0].ID
			ctx.Blackboard.Set(KeyTargetActor, friends[0].ID)
		}
		ctx.publish(e)
		return done(ctx, decision.GiveGift)
	})
)
