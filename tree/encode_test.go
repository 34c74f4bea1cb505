package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	gen := NewGenerator(17)

	for _, kind := range []ProgramKind{Board, Movement} {
		for i := 0; i < 100; i++ {
			alg := gen.Algorithm(kind)

			data, err := json.Marshal(alg)
			require.NoError(t, err)

			decoded := &Algorithm{}
			require.NoError(t, json.Unmarshal(data, decoded))
			assert.True(t, alg.Equal(decoded), "round trip changed the tree")
			assert.Equal(t, kind, decoded.Kind)
		}
	}
}

func TestJSONExplicitTags(t *testing.T) {
	alg := &Algorithm{
		Kind: Board,
		Root: &Node{Op: OpWrite, Cell: 40, Args: []*Node{
			{Op: OpVariable, Var: VarCustom, Cell: 0},
		}},
	}

	data, err := json.Marshal(alg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "board",
		"root": {
			"op": "write",
			"cell": 40,
			"args": [{"op": "variable", "var": "custom", "cell": 0}]
		}
	}`, string(data))
}

func TestJSONDecodeRejectsUnknownOp(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"op":"frobnicate"}`), &n)
	assert.Error(t, err)
}

func TestJSONDecodeRejectsBadArity(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"op":"add","args":[{"op":"variable","var":"is_self"}]}`), &n)
	assert.Error(t, err)
}

func TestJSONDecodeRejectsWriteWithoutCell(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"op":"write","args":[{"op":"variable","var":"is_self"}]}`), &n)
	assert.Error(t, err)
}

func TestCanonicalDistinguishesCells(t *testing.T) {
	a := &Algorithm{Kind: Board, Root: &Node{Op: OpVariable, Var: VarCustom, Cell: 1}}
	b := &Algorithm{Kind: Board, Root: &Node{Op: OpVariable, Var: VarCustom, Cell: 2}}
	assert.False(t, a.Equal(b))
}

func TestCanonicalDistinguishesKinds(t *testing.T) {
	a := &Algorithm{Kind: Board, Root: &Node{Op: OpVariable, Var: VarIsDraw}}
	b := &Algorithm{Kind: Movement, Root: &Node{Op: OpVariable, Var: VarIsDraw}}
	assert.False(t, a.Equal(b))
}

func TestDOTRendersBothShapes(t *testing.T) {
	alg := testTree()

	out, err := DOT("board", alg)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "custom_4")
}
