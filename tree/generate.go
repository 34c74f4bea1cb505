package tree

import (
	"math/rand"

	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Function-vs-variable bias by parent variant. The root is always a
// function; below a function the draw leans toward leaves so trees thin
// out as they grow.
const (
	biasRoot     = 1.0
	biasFunction = 0.4
	biasVariable = 0.6
)

// arityRate shapes the min/max child-count draw: an exponential with this
// rate keeps most draws at the low end of [MinVariadic, MaxVariadic].
const arityRate = 1.2

// Generator synthesizes random program trees. It owns its randomness so
// two generators with the same seed produce the same programs.
type Generator struct {
	rnd   *rand.Rand
	arity distuv.Exponential
}

// NewGenerator returns a seeded generator.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		arity: distuv.Exponential{
			Rate: arityRate,
			Src:  distrand.NewSource(uint64(seed)),
		},
	}
}

// Algorithm synthesizes a whole program of the given kind.
func (g *Generator) Algorithm(kind ProgramKind) *Algorithm {
	return &Algorithm{Kind: kind, Root: g.Node(nil, kind, 0)}
}

// Node synthesizes a subtree. parent is the node being grown under (nil for
// a root); only its variant matters, biasing the function-vs-variable draw.
// At MaxDepth the draw is forced to a leaf.
func (g *Generator) Node(parent *Node, kind ProgramKind, depth int) *Node {
	if depth >= MaxDepth {
		return g.variable(kind)
	}

	bias := biasRoot
	if parent != nil {
		if parent.IsLeaf() {
			bias = biasVariable
		} else {
			bias = biasFunction
		}
	}
	if g.rnd.Float64() > bias {
		return g.variable(kind)
	}
	return g.function(kind, depth)
}

func (g *Generator) function(kind ProgramKind, depth int) *Node {
	op := Op(1 + g.rnd.Intn(funcOps))
	n := &Node{Op: op}

	min, max := op.Arity()
	arity := min
	if max > min {
		arity = g.variadicArity()
	}
	if op == OpWrite {
		n.Cell = StaticCells + g.rnd.Intn(DynamicCells)
	}

	n.Args = make([]*Node, arity)
	for i := range n.Args {
		n.Args[i] = g.Node(n, kind, depth+1)
	}
	return n
}

func (g *Generator) variable(kind ProgramKind) *Node {
	provided := Provided(kind)
	i := g.rnd.Intn(len(provided) + Cells)
	if i < len(provided) {
		return &Node{Op: OpVariable, Var: provided[i]}
	}
	return &Node{Op: OpVariable, Var: VarCustom, Cell: i - len(provided)}
}

// variadicArity draws a child count in [MinVariadic, MaxVariadic], peaked
// at the bottom of the range.
func (g *Generator) variadicArity() int {
	k := MinVariadic + int(g.arity.Rand())
	if k > MaxVariadic {
		k = MaxVariadic
	}
	return k
}
