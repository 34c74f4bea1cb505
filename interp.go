package evo

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

// Eval interprets a program against one square of a turn context. All
// arithmetic is integer; evaluation is strict and left to right except for
// if, which evaluates only the chosen branch. write mutates the agent's
// dynamic memory; everything else is pure.
func Eval(a *tree.Algorithm, sq chess.Square, tc *TurnContext) (int, error) {
	return eval(a.Kind, a.Root, sq, tc)
}

func eval(kind tree.ProgramKind, n *tree.Node, sq chess.Square, tc *TurnContext) (int, error) {
	switch n.Op {
	case tree.OpVariable:
		return variableValue(kind, n, sq, tc)

	case tree.OpIf:
		cond, err := eval(kind, n.Args[0], sq, tc)
		if err != nil {
			return 0, err
		}
		if binarize(cond) == 1 {
			return eval(kind, n.Args[1], sq, tc)
		}
		return eval(kind, n.Args[2], sq, tc)

	case tree.OpWrite:
		if n.Cell < tree.StaticCells || n.Cell >= tree.Cells {
			return 0, errors.Wrapf(ErrStructural, "write target %d outside dynamic cells", n.Cell)
		}
		v, err := eval(kind, n.Args[0], sq, tc)
		if err != nil {
			return 0, err
		}
		tc.Agent.Memory[n.Cell] = v
		return v, nil

	case tree.OpMin, tree.OpMax:
		best, err := eval(kind, n.Args[0], sq, tc)
		if err != nil {
			return 0, err
		}
		for _, arg := range n.Args[1:] {
			v, err := eval(kind, arg, sq, tc)
			if err != nil {
				return 0, err
			}
			if (n.Op == tree.OpMin && v < best) || (n.Op == tree.OpMax && v > best) {
				best = v
			}
		}
		return best, nil
	}

	// Unary numerics.
	if minA, maxA := n.Op.Arity(); minA == 1 && maxA == 1 {
		x, err := eval(kind, n.Args[0], sq, tc)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case tree.OpBinary:
			return binarize(x), nil
		case tree.OpInvert:
			return 1 - binarize(x), nil
		case tree.OpSqrt:
			return isqrt(x), nil
		case tree.OpAbs:
			if x < 0 {
				return -x, nil
			}
			return x, nil
		case tree.OpRound, tree.OpFloor, tree.OpCeil:
			// Already integral.
			return x, nil
		}
		return 0, errors.Wrapf(ErrStructural, "unknown unary op %s", n.Op)
	}

	l, err := eval(kind, n.Args[0], sq, tc)
	if err != nil {
		return 0, err
	}
	r, err := eval(kind, n.Args[1], sq, tc)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case tree.OpAdd:
		return l + r, nil
	case tree.OpSub:
		return l - r, nil
	case tree.OpMul:
		return l * r, nil
	case tree.OpDiv:
		if r == 0 {
			return 0, nil
		}
		return l / r, nil
	case tree.OpMod:
		if r == 0 {
			return 0, nil
		}
		return l % r, nil
	case tree.OpAnd:
		return binarize(l) & binarize(r), nil
	case tree.OpOr:
		return binarize(l) | binarize(r), nil
	case tree.OpGt:
		return b2i(l > r), nil
	case tree.OpGte:
		return b2i(l >= r), nil
	case tree.OpLt:
		return b2i(l < r), nil
	case tree.OpLte:
		return b2i(l <= r), nil
	case tree.OpEq:
		return b2i(l == r), nil
	case tree.OpNeq:
		return b2i(l != r), nil
	case tree.OpPow:
		return ipow(l, r), nil
	}

	return 0, errors.Wrapf(ErrStructural, "unknown op %s", n.Op)
}

// binarize maps x >= 1 to 1, everything else to 0.
func binarize(x int) int {
	return b2i(x >= 1)
}

// isqrt returns floor(sqrt(max(x, 0))).
func isqrt(x int) int {
	if x <= 0 {
		return 0
	}
	return int(math32.Floor(math32.Sqrt(float32(x))))
}

// ipow returns the truncated integer power, 0 where the result is not a
// finite number. Results are pinned to the 32-bit range the variable
// contract guarantees.
func ipow(base, exp int) int {
	f := math.Pow(float64(base), float64(exp))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}
