package behavior

import (
	bt "github.com/joeycumines/go-behaviortree"
)

func toBT(s Status) bt.Status {
	switch s {
	case Success:
		return bt.Success
	case Running:
		return bt.Running
	default:
		return bt.Failure
	}
}

// FromBTStatus maps a go-behaviortree status onto Status.
func FromBTStatus(s bt.Status) Status {
	switch s {
	case bt.Success:
		return Success
	case bt.Running:
		return Running
	default:
		return Failure
	}
}

// AdaptTree exposes t, evaluated against ctx, as a go-behaviortree leaf.
// Ticking the leaf ticks the tree, so its stats keep counting.
func AdaptTree(t *Tree, ctx *Context) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		return toBT(t.Tick(ctx)), nil
	})
}
