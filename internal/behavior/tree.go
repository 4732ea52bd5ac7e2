package behavior

import "errors"

var ErrNoRoot = errors.New("behavior: tree has no root")

// TreeStats counts tree ticks by result.
type TreeStats struct {
	Ticks     int `json:"ticks"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
	Running   int `json:"running"`
}

// Rate returns n as a percentage of Ticks.
func (s TreeStats) Rate(n int) float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(n) * 100 / float64(s.Ticks)
}

// Tree is a named root node owned by one actor.
type Tree struct {
	Name    string
	ActorID int

	root  *Node
	stats TreeStats
}

func NewTree(name string, root *Node) (*Tree, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	return &Tree{Name: name, root: root}, nil
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Stats() TreeStats { return t.stats }

// Tick ticks the root once. A nil ctx fails without counting.
func (t *Tree) Tick(ctx *Context) Status {
	if t == nil || ctx == nil {
		return Failure
	}
	ctx.ticks++
	s := t.root.Tick(ctx)
	t.stats.Ticks++
	switch s {
	case Success:
		t.stats.Successes++
	case Failure:
		t.stats.Failures++
	case Running:
		t.stats.Running++
	}
	return s
}

// Reset clears resume state across the tree. Stats are kept.
func (t *Tree) Reset() { t.root.Reset() }
