package tree

import "math/rand"

// Cursor is handed to the visitor once per node. Parent is nil at the root.
// Path holds the child indexes from the root to the node; it is only valid
// for the duration of the visit unless copied.
type Cursor struct {
	Parent *Node
	Node   *Node
	Path   []int

	stopped     bool
	replacement *Node
	replaced    bool
}

// Stop terminates the walk after the current visit.
func (c *Cursor) Stop() { c.stopped = true }

// Replace swaps the visited node for n in its parent (or at the root) and
// terminates the walk.
func (c *Cursor) Replace(n *Node) {
	c.replacement = n
	c.replaced = true
	c.stopped = true
}

// Visitor observes one node per call.
type Visitor func(c *Cursor)

// Walk visits every node of the algorithm exactly once in pre-order,
// parent before children, siblings left to right.
func (a *Algorithm) Walk(fn Visitor) {
	a.walk(nil, fn)
}

// WalkUnordered visits like Walk but randomizes sibling order before each
// descent. Parents still precede their children.
func (a *Algorithm) WalkUnordered(rnd *rand.Rand, fn Visitor) {
	a.walk(rnd, fn)
}

func (a *Algorithm) walk(rnd *rand.Rand, fn Visitor) {
	c := &Cursor{}
	walkNode(a.Root, nil, nil, rnd, fn, c)
	if c.replaced && c.Parent == nil {
		a.Root = c.replacement
	}
}

// walkNode recurses through the tree reusing a single cursor. Replacement
// of a non-root node is applied to the parent's arg slot in place; root
// replacement is left for the caller to commit.
func walkNode(n, parent *Node, path []int, rnd *rand.Rand, fn Visitor, c *Cursor) bool {
	c.Parent = parent
	c.Node = n
	c.Path = path
	fn(c)
	if c.stopped {
		if c.replaced && parent != nil {
			parent.Args[path[len(path)-1]] = c.replacement
		}
		return true
	}

	order := orderedIndexes(len(n.Args), rnd)
	for _, i := range order {
		if walkNode(n.Args[i], n, append(path, i), rnd, fn, c) {
			return true
		}
	}
	return false
}

func orderedIndexes(n int, rnd *rand.Rand) []int {
	if n == 0 {
		return nil
	}
	if rnd == nil {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return rnd.Perm(n)
}

// Count returns the number of nodes in the algorithm.
func (a *Algorithm) Count() int {
	return a.Root.Size()
}
