package evo

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/game"
	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

// variableValue resolves one variable leaf against a square and turn
// context. kind is the program being interpreted; referencing a variable
// outside its allowed subset is a structural fault.
func variableValue(kind tree.ProgramKind, n *tree.Node, sq chess.Square, tc *TurnContext) (int, error) {
	v := n.Var
	if !v.AllowedIn(kind) {
		return 0, errors.Wrapf(ErrStructural, "variable %s not allowed in %s program", v, kind)
	}

	switch v {
	case tree.VarCustom:
		if n.Cell < 0 || n.Cell >= tree.Cells {
			return 0, errors.Wrapf(ErrStructural, "custom variable cell %d out of range", n.Cell)
		}
		return tc.Agent.Memory[n.Cell], nil

	case tree.VarIsSelf:
		p := tc.Board.PieceAt(sq)
		return b2i(p != chess.NoPiece && p.Color() == tc.Color), nil
	case tree.VarIsOpponent:
		p := tc.Board.PieceAt(sq)
		return b2i(p != chess.NoPiece && p.Color() != tc.Color), nil
	case tree.VarIsEmpty:
		return b2i(tc.Board.PieceAt(sq) == chess.NoPiece), nil

	case tree.VarIsPawn, tree.VarIsKnight, tree.VarIsBishop, tree.VarIsRook, tree.VarIsQueen, tree.VarIsKing:
		p := tc.Board.PieceAt(sq)
		return b2i(p != chess.NoPiece && p.Type() == pieceKindOf(v)), nil

	case tree.VarIsInCheck:
		return b2i(tc.Board.Turn() == tc.Color && tc.Board.InCheck()), nil
	case tree.VarIsInCheckmate:
		return b2i(tc.Board.Turn() == tc.Color && tc.Board.IsCheckmate()), nil
	case tree.VarIsDraw:
		return b2i(tc.Board.IsDraw()), nil

	case tree.VarCastledKingSide:
		return b2i(lastMoveEndedOn(tc.Board, sq, chess.KingSideCastle)), nil
	case tree.VarCastledQueenSide:
		return b2i(lastMoveEndedOn(tc.Board, sq, chess.QueenSideCastle)), nil

	case tree.VarWasCaptured:
		return b2i(capturedOn(tc.Board, sq)), nil
	case tree.VarPawnWasCaptured, tree.VarKnightWasCaptured, tree.VarBishopWasCaptured,
		tree.VarRookWasCaptured, tree.VarQueenWasCaptured:
		if !capturedOn(tc.Board, sq) {
			return 0, nil
		}
		kind, ok := tc.Board.CapturedKind()
		return b2i(ok && kind == pieceKindOf(v)), nil

	case tree.VarPossibleMoves:
		return countMoves(tc.Board, func(m *chess.Move) bool {
			return m.S1() == sq
		}), nil

	case tree.VarCanCapture:
		return countMoves(tc.Board, func(m *chess.Move) bool {
			return m.S1() == sq && isCapture(m)
		}), nil
	case tree.VarCanCapturePawn, tree.VarCanCaptureKnight, tree.VarCanCaptureBishop,
		tree.VarCanCaptureRook, tree.VarCanCaptureQueen:
		want := pieceKindOf(v)
		return countMoves(tc.Board, func(m *chess.Move) bool {
			return m.S1() == sq && isCapture(m) && captureTarget(tc.Board, m) == want
		}), nil

	case tree.VarCanMoveHere:
		return countMoves(tc.Board, func(m *chess.Move) bool {
			return m.S2() == sq
		}), nil
	case tree.VarPawnCanMoveHere, tree.VarKnightCanMoveHere, tree.VarBishopCanMoveHere,
		tree.VarRookCanMoveHere, tree.VarQueenCanMoveHere, tree.VarKingCanMoveHere:
		want := pieceKindOf(v)
		return countMoves(tc.Board, func(m *chess.Move) bool {
			return m.S2() == sq && tc.Board.PieceAt(m.S1()).Type() == want
		}), nil

	case tree.VarDepth:
		return tc.Depth, nil
	case tree.VarFirstIterationPreMoveTotal:
		return tc.Outputs.FirstPre, nil
	case tree.VarFirstIterationPostMoveTotal:
		return tc.Outputs.FirstPost, nil
	case tree.VarPrevIterationPreMoveTotal:
		return tc.Outputs.PrevPre, nil
	case tree.VarPrevIterationPostMoveTotal:
		return tc.Outputs.PrevPost, nil
	case tree.VarThisIterationPreMoveTotal:
		return tc.Outputs.ThisPre, nil
	case tree.VarThisIterationPostMoveTotal:
		return tc.Outputs.ThisPost, nil
	}

	return 0, errors.Wrapf(ErrStructural, "unknown variable %d", v)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// pieceKindOf maps a piece-filtered variable to the chess piece type it
// filters on.
func pieceKindOf(v tree.Var) chess.PieceType {
	switch v {
	case tree.VarIsPawn, tree.VarPawnWasCaptured, tree.VarCanCapturePawn, tree.VarPawnCanMoveHere:
		return chess.Pawn
	case tree.VarIsKnight, tree.VarKnightWasCaptured, tree.VarCanCaptureKnight, tree.VarKnightCanMoveHere:
		return chess.Knight
	case tree.VarIsBishop, tree.VarBishopWasCaptured, tree.VarCanCaptureBishop, tree.VarBishopCanMoveHere:
		return chess.Bishop
	case tree.VarIsRook, tree.VarRookWasCaptured, tree.VarCanCaptureRook, tree.VarRookCanMoveHere:
		return chess.Rook
	case tree.VarIsQueen, tree.VarQueenWasCaptured, tree.VarCanCaptureQueen, tree.VarQueenCanMoveHere:
		return chess.Queen
	case tree.VarIsKing, tree.VarKingCanMoveHere:
		return chess.King
	}
	return chess.NoPieceType
}

func countMoves(b *game.Board, match func(*chess.Move) bool) int {
	count := 0
	for _, m := range b.LegalMoves() {
		if match(m) {
			count++
		}
	}
	return count
}

func lastMoveEndedOn(b *game.Board, sq chess.Square, tag chess.MoveTag) bool {
	m := b.LastMove()
	return m != nil && m.HasTag(tag) && m.S2() == sq
}

func capturedOn(b *game.Board, sq chess.Square) bool {
	m := b.LastMove()
	return m != nil && b.LastMoveCaptured() && m.S2() == sq
}

// isCapture covers ordinary and en passant captures.
func isCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// captureTarget returns the kind a candidate capture would remove from the
// current position. En passant always removes a pawn.
func captureTarget(b *game.Board, m *chess.Move) chess.PieceType {
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn
	}
	return b.PieceAt(m.S2()).Type()
}
