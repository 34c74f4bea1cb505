package tree

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// DOT renders the algorithm as a Graphviz digraph so an evolved program
// can be inspected by eye.
func DOT(name string, a *Algorithm) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(name); err != nil {
		return "", errors.Wrap(err, "tree: dot graph")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "tree: dot graph")
	}

	next := 0
	var add func(n *Node) (string, error)
	add = func(n *Node) (string, error) {
		id := fmt.Sprintf("n%d", next)
		next++
		attrs := map[string]string{"label": fmt.Sprintf("%q", nodeLabel(n))}
		if n.IsLeaf() {
			attrs["shape"] = "box"
		}
		if err := g.AddNode(name, id, attrs); err != nil {
			return "", errors.Wrap(err, "tree: dot node")
		}
		for _, arg := range n.Args {
			child, err := add(arg)
			if err != nil {
				return "", err
			}
			if err := g.AddEdge(id, child, true, nil); err != nil {
				return "", errors.Wrap(err, "tree: dot edge")
			}
		}
		return id, nil
	}

	if _, err := add(a.Root); err != nil {
		return "", err
	}
	return g.String(), nil
}

func nodeLabel(n *Node) string {
	switch {
	case n.Op == OpVariable && n.Var == VarCustom:
		return fmt.Sprintf("custom_%d", n.Cell)
	case n.Op == OpVariable:
		return n.Var.String()
	case n.Op == OpWrite:
		return fmt.Sprintf("write[%d]", n.Cell)
	default:
		return n.Op.String()
	}
}
