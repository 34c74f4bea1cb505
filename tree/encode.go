package tree

import (
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"
)

// Canonical encoding: a compact deterministic byte string used for
// structural equality and content hashing. The JSON codec below is the
// persistence format; the two are deliberately separate so the hash never
// depends on JSON details.

// AppendCanonical appends the canonical encoding of the subtree to dst.
func (n *Node) AppendCanonical(dst []byte) []byte {
	dst = append(dst, byte(n.Op))
	switch n.Op {
	case OpVariable:
		dst = append(dst, byte(n.Var))
		if n.Var == VarCustom {
			dst = binary.AppendVarint(dst, int64(n.Cell))
		}
		return dst
	case OpWrite:
		dst = binary.AppendVarint(dst, int64(n.Cell))
	}
	dst = append(dst, byte(len(n.Args)))
	for _, a := range n.Args {
		dst = a.AppendCanonical(dst)
	}
	return dst
}

// Canonical returns the canonical encoding of the algorithm.
func (a *Algorithm) Canonical() []byte {
	dst := make([]byte, 0, 64)
	dst = append(dst, byte(a.Kind))
	return a.Root.AppendCanonical(dst)
}

// Equal reports structural equality of two algorithms.
func (a *Algorithm) Equal(b *Algorithm) bool {
	return string(a.Canonical()) == string(b.Canonical())
}

type nodeJSON struct {
	Op   string          `json:"op"`
	Var  string          `json:"var,omitempty"`
	Cell *int            `json:"cell,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
}

// MarshalJSON encodes the node as a nested record with explicit kind tags.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Op: n.Op.String()}
	switch n.Op {
	case OpVariable:
		out.Var = n.Var.String()
		if n.Var == VarCustom {
			cell := n.Cell
			out.Cell = &cell
		}
	case OpWrite:
		cell := n.Cell
		out.Cell = &cell
	}
	if len(n.Args) > 0 {
		args, err := json.Marshal(n.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node, resolving the op and variable tags and
// checking arity.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "tree: decode node")
	}

	op, err := opByName(raw.Op)
	if err != nil {
		return err
	}
	n.Op = op

	switch op {
	case OpVariable:
		v, err := VarByName(raw.Var)
		if err != nil {
			return err
		}
		n.Var = v
		if v == VarCustom {
			if raw.Cell == nil {
				return errors.New("tree: custom variable without cell")
			}
			n.Cell = *raw.Cell
		}
		return nil
	case OpWrite:
		if raw.Cell == nil {
			return errors.New("tree: write without cell")
		}
		n.Cell = *raw.Cell
	}

	if err := json.Unmarshal(raw.Args, &n.Args); err != nil {
		return errors.Wrapf(err, "tree: decode %s args", raw.Op)
	}
	min, max := op.Arity()
	if len(n.Args) < min || len(n.Args) > max {
		return errors.Errorf("tree: %s has %d args, want %d..%d", raw.Op, len(n.Args), min, max)
	}
	return nil
}

type algorithmJSON struct {
	Kind string `json:"kind"`
	Root *Node  `json:"root"`
}

func (a *Algorithm) MarshalJSON() ([]byte, error) {
	return json.Marshal(algorithmJSON{Kind: a.Kind.String(), Root: a.Root})
}

func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var raw algorithmJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "tree: decode algorithm")
	}
	switch raw.Kind {
	case "board":
		a.Kind = Board
	case "movement":
		a.Kind = Movement
	default:
		return errors.Errorf("tree: unknown program kind %q", raw.Kind)
	}
	if raw.Root == nil {
		return errors.New("tree: algorithm without root")
	}
	a.Root = raw.Root
	return nil
}

func opByName(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, errors.Errorf("tree: unknown op %q", name)
}
