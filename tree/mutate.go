package tree

import "math/rand"

// Mutation batch bounds: each call commits between MinMutations and
// MaxMutations accepted edits, giving up after mutateAttempts tries.
const (
	MinMutations   = 1
	MaxMutations   = 4
	mutateAttempts = 1000
)

// Edit records one committed subtree replacement.
type Edit struct {
	Path []int
	From *Node
	To   *Node
}

// Mutator produces mutated copies of algorithms. The input is never
// modified; every call clones before editing.
type Mutator struct {
	gen *Generator
	rnd *rand.Rand
}

// NewMutator returns a mutator drawing replacement subtrees from gen.
func NewMutator(gen *Generator, seed int64) *Mutator {
	return &Mutator{gen: gen, rnd: rand.New(rand.NewSource(seed))}
}

// Algorithm returns a mutated copy of a plus the committed edits. Each
// attempt walks the tree in random sibling order and replaces the first
// non-root node that wins a draw whose odds grow from ~1/n at the first
// candidate to certainty at the last, biasing edits toward the leaves.
// An attempt only commits if the replacement changed the tree
// structurally and the result still differs from a, so later edits can
// never restore the input.
func (m *Mutator) Algorithm(a *Algorithm) (*Algorithm, []Edit) {
	target := m.batchSize()
	cur := a.Clone()

	var edits []Edit
	for attempt := 0; attempt < mutateAttempts && len(edits) < target; attempt++ {
		cand := cur.Clone()

		total := 0
		cand.WalkUnordered(m.rnd, func(*Cursor) { total++ })

		var edit *Edit
		visits := 0
		cand.WalkUnordered(m.rnd, func(c *Cursor) {
			visits++
			if c.Parent == nil {
				return
			}
			if m.rnd.Float64() > float64(visits)/float64(total) {
				return
			}
			repl := m.gen.Node(c.Node, cand.Kind, 0)
			edit = &Edit{
				Path: append([]int(nil), c.Path...),
				From: c.Node,
				To:   repl.Clone(),
			}
			c.Replace(repl)
		})

		if edit == nil || cand.Equal(cur) || cand.Equal(a) {
			continue
		}
		cur = cand
		edits = append(edits, *edit)
	}
	return cur, edits
}

// batchSize draws the number of edits to aim for.
func (m *Mutator) batchSize() int {
	return MinMutations + m.rnd.Intn(MaxMutations-MinMutations+1)
}
