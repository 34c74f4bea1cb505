package evo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/game"
	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

func varLeaf(v tree.Var) *tree.Node {
	return &tree.Node{Op: tree.OpVariable, Var: v}
}

func customLeaf(cell int) *tree.Node {
	return &tree.Node{Op: tree.OpVariable, Var: tree.VarCustom, Cell: cell}
}

func boardProgram(root *tree.Node) *tree.Algorithm {
	return &tree.Algorithm{Kind: tree.Board, Root: root}
}

func movementProgram(root *tree.Node) *tree.Algorithm {
	return &tree.Algorithm{Kind: tree.Movement, Root: root}
}

// testAgent builds an agent around explicit programs, defaulting both to a
// zero-valued custom cell.
func testAgent(board, movement *tree.Algorithm) *Agent {
	if board == nil {
		board = boardProgram(customLeaf(0))
	}
	if movement == nil {
		movement = movementProgram(customLeaf(0))
	}
	return &Agent{ID: uuid.New(), Board: board, Move: movement}
}

func turnContext(a *Agent, b *game.Board, color chess.Color) *TurnContext {
	return &TurnContext{Agent: a, Board: b, Color: color, Depth: 1}
}

func TestIsKingOverAllSquares(t *testing.T) {
	agent := testAgent(boardProgram(varLeaf(tree.VarIsKing)), nil)
	tc := turnContext(agent, game.New(), chess.White)

	for sq := chess.A1; sq <= chess.H8; sq++ {
		v, err := Eval(agent.Board, sq, tc)
		require.NoError(t, err)
		if sq == chess.E1 || sq == chess.E8 {
			assert.Equal(t, 1, v, "square %v", sq)
		} else {
			assert.Equal(t, 0, v, "square %v", sq)
		}
	}
}

func TestSelfAndOpponentPerspective(t *testing.T) {
	b := game.New()
	agent := testAgent(boardProgram(varLeaf(tree.VarIsSelf)), nil)

	white := turnContext(agent, b, chess.White)
	black := turnContext(agent, b, chess.Black)

	v, err := Eval(agent.Board, chess.E1, white)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Eval(agent.Board, chess.E1, black)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	opp := testAgent(boardProgram(varLeaf(tree.VarIsOpponent)), nil)
	v, err = Eval(opp.Board, chess.E8, turnContext(opp, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestCaptureAttribution(t *testing.T) {
	b, err := game.FromFEN("rnb1k1nr/pppp1ppp/3bp3/4N2q/3PP3/2P5/PP2QPPP/RNB1KB1R b KQkq - 4 6")
	require.NoError(t, err)
	require.NoError(t, b.ApplyUCI("h5e2"))

	agent := testAgent(boardProgram(varLeaf(tree.VarWasCaptured)), nil)
	tc := turnContext(agent, b, chess.White)

	v, err := Eval(agent.Board, chess.E2, tc)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Eval(agent.Board, chess.E1, tc)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	queen := testAgent(boardProgram(varLeaf(tree.VarQueenWasCaptured)), nil)
	v, err = Eval(queen.Board, chess.E2, turnContext(queen, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Eval(queen.Board, chess.E1, turnContext(queen, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	pawn := testAgent(boardProgram(varLeaf(tree.VarPawnWasCaptured)), nil)
	v, err = Eval(pawn.Board, chess.E2, turnContext(pawn, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestEnPassantWasCapturedOnTargetSquare(t *testing.T) {
	b := game.New()
	for _, mv := range []string{"e2e4", "a7a6", "e4e5", "d7d5", "e5d6"} {
		require.NoError(t, b.ApplyUCI(mv))
	}

	agent := testAgent(boardProgram(varLeaf(tree.VarWasCaptured)), nil)
	tc := turnContext(agent, b, chess.Black)

	for sq := chess.A1; sq <= chess.H8; sq++ {
		v, err := Eval(agent.Board, sq, tc)
		require.NoError(t, err)
		assert.Equal(t, b2i(sq == chess.D6), v, "square %v", sq)
	}
}

func TestCastledKingSideClearsNextTurn(t *testing.T) {
	b, err := game.FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	require.NoError(t, b.ApplyUCI("e1g1"))

	agent := testAgent(boardProgram(varLeaf(tree.VarCastledKingSide)), nil)
	tc := turnContext(agent, b, chess.White)

	v, err := Eval(agent.Board, chess.G1, tc)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Eval(agent.Board, chess.E1, tc)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	// One move later the flag is gone from g1.
	require.NoError(t, b.ApplyUCI("a8a7"))
	v, err = Eval(agent.Board, chess.G1, tc)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestThreefoldRepetitionVariable(t *testing.T) {
	b := game.New()
	for i := 0; i < 2; i++ {
		for _, mv := range []string{"b1c3", "b8c6", "c3b1", "c6b8"} {
			require.NoError(t, b.ApplyUCI(mv))
		}
	}

	agent := testAgent(boardProgram(varLeaf(tree.VarIsDraw)), nil)
	v, err := Eval(agent.Board, chess.A1, turnContext(agent, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMoveCounts(t *testing.T) {
	b := game.New()

	possible := testAgent(boardProgram(varLeaf(tree.VarPossibleMoves)), nil)
	v, err := Eval(possible.Board, chess.E2, turnContext(possible, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 2, v, "e2 pawn has two pushes")

	moveHere := testAgent(boardProgram(varLeaf(tree.VarCanMoveHere)), nil)
	v, err = Eval(moveHere.Board, chess.A3, turnContext(moveHere, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 2, v, "a2a3 and b1a3")

	knightHere := testAgent(boardProgram(varLeaf(tree.VarKnightCanMoveHere)), nil)
	v, err = Eval(knightHere.Board, chess.A3, turnContext(knightHere, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	capture := testAgent(boardProgram(varLeaf(tree.VarCanCapture)), nil)
	v, err = Eval(capture.Board, chess.E2, turnContext(capture, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestCanCaptureKindFilter(t *testing.T) {
	b := game.New()
	require.NoError(t, b.ApplyUCI("e2e4"))
	require.NoError(t, b.ApplyUCI("d7d5"))

	capture := testAgent(boardProgram(varLeaf(tree.VarCanCapture)), nil)
	v, err := Eval(capture.Board, chess.E4, turnContext(capture, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	pawn := testAgent(boardProgram(varLeaf(tree.VarCanCapturePawn)), nil)
	v, err = Eval(pawn.Board, chess.E4, turnContext(pawn, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	queen := testAgent(boardProgram(varLeaf(tree.VarCanCaptureQueen)), nil)
	v, err = Eval(queen.Board, chess.E4, turnContext(queen, b, chess.White))
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestMovementContextVariables(t *testing.T) {
	agent := testAgent(nil, movementProgram(varLeaf(tree.VarThisIterationPreMoveTotal)))
	tc := turnContext(agent, game.New(), chess.White)
	tc.Depth = 4
	tc.Outputs = TurnOutputs{
		FirstPre: 11, FirstPost: 12,
		PrevPre: 13, PrevPost: 14,
		ThisPre: 15, ThisPost: 16,
	}

	cases := []struct {
		v    tree.Var
		want int
	}{
		{tree.VarDepth, 4},
		{tree.VarFirstIterationPreMoveTotal, 11},
		{tree.VarFirstIterationPostMoveTotal, 12},
		{tree.VarPrevIterationPreMoveTotal, 13},
		{tree.VarPrevIterationPostMoveTotal, 14},
		{tree.VarThisIterationPreMoveTotal, 15},
		{tree.VarThisIterationPostMoveTotal, 16},
	}
	for _, c := range cases {
		alg := movementProgram(varLeaf(c.v))
		v, err := Eval(alg, CanonicalSquare, tc)
		require.NoError(t, err)
		assert.Equal(t, c.want, v, c.v.String())
	}
}

func TestCustomVariableReadsMemory(t *testing.T) {
	agent := testAgent(boardProgram(customLeaf(7)), nil)
	agent.Memory[7] = -42

	v, err := Eval(agent.Board, chess.A1, turnContext(agent, game.New(), chess.White))
	require.NoError(t, err)
	assert.Equal(t, -42, v)
}

func TestDisallowedVariableIsStructural(t *testing.T) {
	agent := testAgent(boardProgram(varLeaf(tree.VarDepth)), nil)

	_, err := Eval(agent.Board, chess.A1, turnContext(agent, game.New(), chess.White))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
}

func TestBoardVariableNotAllowedInMovement(t *testing.T) {
	agent := testAgent(nil, movementProgram(varLeaf(tree.VarIsKing)))

	_, err := Eval(agent.Move, CanonicalSquare, turnContext(agent, game.New(), chess.White))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
}

func TestVariableDeterminism(t *testing.T) {
	b := game.New()
	require.NoError(t, b.ApplyUCI("e2e4"))

	agent := testAgent(boardProgram(varLeaf(tree.VarPossibleMoves)), nil)
	tc := turnContext(agent, b, chess.Black)

	first, err := Eval(agent.Board, chess.G8, tc)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		v, err := Eval(agent.Board, chess.G8, tc)
		require.NoError(t, err)
		assert.Equal(t, first, v)
	}
}
