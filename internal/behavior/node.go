// Package behavior implements resumable behavior trees that decide what an
// actor does each tick.
//
// Composite nodes remember which child was Running and resume there on the
// next tick instead of rescanning from the start. Trees are single-owner: a
// node has at most one parent and cycles are rejected.
package behavior

// Status is the result of ticking a node.
type Status int

const (
	Success Status = iota
	Failure
	Running
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

// Kind is the variant of a Node.
type Kind int

const (
	KindSequence Kind = iota
	KindSelector
	KindParallel
	KindCondition
	KindAction
	KindDecorator
)

var kindNames = [...]string{"Sequence", "Selector", "Parallel", "Condition", "Action", "Decorator"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Composite reports whether nodes of kind k hold a list of children.
func (k Kind) Composite() bool { return k <= KindParallel }

// MaxChildren bounds the children of a composite node.
const MaxChildren = 10

// Condition is a predicate over the evaluation context.
type Condition interface {
	Check(*Context) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(*Context) bool

func (f ConditionFunc) Check(ctx *Context) bool { return f(ctx) }

// Action performs an effect and reports its status.
type Action interface {
	Run(*Context) Status
}

// ActionFunc adapts a function to Action.
type ActionFunc func(*Context) Status

func (f ActionFunc) Run(ctx *Context) Status { return f(ctx) }

// Node is one vertex of a behavior tree.
type Node struct {
	name     string
	kind     Kind
	parent   *Node
	children []*Node

	// resume is the child a Sequence or Selector continues from.
	resume int

	condition Condition
	action    Action

	invert   bool
	repeat   int
	repeated int

	executions int
	last       Status
}

func newNode(kind Kind, name string) *Node { return &Node{kind: kind, name: name, last: Failure} }

func newComposite(kind Kind, name string, children []*Node) *Node {
	n := newNode(kind, name)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// NewSequence returns a node that succeeds when every child succeeds in
// order. Children that AddChild would reject are dropped.
func NewSequence(name string, children ...*Node) *Node {
	return newComposite(KindSequence, name, children)
}

// NewSelector returns a node that succeeds on the first child that does.
func NewSelector(name string, children ...*Node) *Node {
	return newComposite(KindSelector, name, children)
}

// NewParallel returns a node that ticks every child each tick.
func NewParallel(name string, children ...*Node) *Node {
	return newComposite(KindParallel, name, children)
}

// NewCondition returns a leaf that succeeds when c holds. A nil c always
// fails.
func NewCondition(name string, c Condition) *Node {
	n := newNode(KindCondition, name)
	n.condition = c
	return n
}

// NewAction returns a leaf running a. A nil a always fails.
func NewAction(name string, a Action) *Node {
	n := newNode(KindAction, name)
	n.action = a
	return n
}

// NewInverter swaps Success and Failure of child. Running passes through.
func NewInverter(name string, child *Node) *Node {
	n := newNode(KindDecorator, name)
	n.invert = true
	n.AddChild(child)
	return n
}

// NewRepeater requires child to succeed count times in a row, reporting
// Running in between. A count of one or less passes the child through.
func NewRepeater(name string, count int, child *Node) *Node {
	n := newNode(KindDecorator, name)
	n.repeat = count
	n.AddChild(child)
	return n
}

func (n *Node) capacity() int {
	switch {
	case n.kind.Composite():
		return MaxChildren
	case n.kind == KindDecorator:
		return 1
	default:
		return 0
	}
}

// AddChild attaches child as the last child of n. It returns false if n
// cannot take another child, child is nil or already attached, or the link
// would form a cycle.
func (n *Node) AddChild(child *Node) bool {
	if n == nil || child == nil || child.parent != nil || len(n.children) >= n.capacity() {
		return false
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return false
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return true
}

func (n *Node) Name() string { return n.name }
func (n *Node) Kind() Kind   { return n.kind }

// Children returns the attached children, or the decorated child.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Parent is nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Executions counts how many times the node has been ticked.
func (n *Node) Executions() int { return n.executions }

// LastStatus is the status of the most recent tick, Failure before the first.
func (n *Node) LastStatus() Status { return n.last }

// ResumeIndex is the child a Sequence or Selector will tick first next time.
func (n *Node) ResumeIndex() int { return n.resume }

// RepeatProgress reports a repeater's consecutive successes and target.
func (n *Node) RepeatProgress() (done, target int) { return n.repeated, n.repeat }

// Tick evaluates n once against ctx. A nil ctx fails without touching n.
func (n *Node) Tick(ctx *Context) Status {
	if n == nil || ctx == nil {
		return Failure
	}
	n.executions++

	var s Status
	switch n.kind {
	case KindSequence:
		s = n.tickSequence(ctx)
	case KindSelector:
		s = n.tickSelector(ctx)
	case KindParallel:
		s = n.tickParallel(ctx)
	case KindCondition:
		s = Failure
		if n.condition != nil && n.condition.Check(ctx) {
			s = Success
		}
	case KindAction:
		s = Failure
		if n.action != nil {
			s = n.action.Run(ctx)
		}
	case KindDecorator:
		s = n.tickDecorator(ctx)
	default:
		s = Failure
	}

	n.last = s
	ctx.trace(n, s)
	return s
}

func (n *Node) tickSequence(ctx *Context) Status {
	for i := n.resume; i < len(n.children); i++ {
		switch n.children[i].Tick(ctx) {
		case Failure:
			n.resume = 0
			return Failure
		case Running:
			n.resume = i
			return Running
		}
	}
	n.resume = 0
	return Success
}

func (n *Node) tickSelector(ctx *Context) Status {
	for i := n.resume; i < len(n.children); i++ {
		switch n.children[i].Tick(ctx) {
		case Success:
			n.resume = 0
			return Success
		case Running:
			n.resume = i
			return Running
		}
	}
	n.resume = 0
	return Failure
}

func (n *Node) tickParallel(ctx *Context) Status {
	running, failed := false, false
	for _, c := range n.children {
		switch c.Tick(ctx) {
		case Running:
			running = true
		case Failure:
			failed = true
		}
	}
	switch {
	case running:
		return Running
	case failed:
		return Failure
	default:
		return Success
	}
}

func (n *Node) tickDecorator(ctx *Context) Status {
	if len(n.children) == 0 {
		return Failure
	}
	s := n.children[0].Tick(ctx)

	if n.invert {
		switch s {
		case Success:
			return Failure
		case Failure:
			return Success
		}
		return s
	}

	if n.repeat > 1 {
		if s != Success {
			n.repeated = 0
			return s
		}
		n.repeated++
		if n.repeated < n.repeat {
			return Running
		}
		n.repeated = 0
		return Success
	}
	return s
}

// Reset clears resume indices and repeat progress across the subtree.
// Execution counters and last statuses are kept.
func (n *Node) Reset() {
	if n == nil {
		return
	}
	n.resume = 0
	n.repeated = 0
	for _, c := range n.children {
		c.Reset()
	}
}

// Walk visits n and its descendants depth first with their depth.
func (n *Node) Walk(fn func(node *Node, depth int)) { n.walk(fn, 0) }

func (n *Node) walk(fn func(*Node, int), depth int) {
	if n == nil {
		return
	}
	fn(n, depth)
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}
