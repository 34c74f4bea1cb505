package tree

import "fmt"

// Var identifies a provided variable, or the custom-cell carrier VarCustom
// (the cell index then lives in Node.Cell).
type Var uint8

const (
	VarCustom Var = iota

	// Board-only square predicates and counts.
	VarIsSelf
	VarIsOpponent
	VarIsEmpty
	VarIsPawn
	VarIsKnight
	VarIsBishop
	VarIsRook
	VarIsQueen
	VarIsKing
	VarCastledKingSide
	VarCastledQueenSide
	VarWasCaptured
	VarPawnWasCaptured
	VarKnightWasCaptured
	VarBishopWasCaptured
	VarRookWasCaptured
	VarQueenWasCaptured
	VarPossibleMoves
	VarCanCapture
	VarCanCapturePawn
	VarCanCaptureKnight
	VarCanCaptureBishop
	VarCanCaptureRook
	VarCanCaptureQueen
	VarCanMoveHere
	VarPawnCanMoveHere
	VarKnightCanMoveHere
	VarBishopCanMoveHere
	VarRookCanMoveHere
	VarQueenCanMoveHere
	VarKingCanMoveHere

	// Shared position state.
	VarIsInCheck
	VarIsInCheckmate
	VarIsDraw

	// Movement-only search context.
	VarDepth
	VarFirstIterationPreMoveTotal
	VarFirstIterationPostMoveTotal
	VarPrevIterationPreMoveTotal
	VarPrevIterationPostMoveTotal
	VarThisIterationPreMoveTotal
	VarThisIterationPostMoveTotal

	varSentinel // keep last
)

var varNames = [...]string{
	VarCustom:                      "custom",
	VarIsSelf:                      "is_self",
	VarIsOpponent:                  "is_opponent",
	VarIsEmpty:                     "is_empty",
	VarIsPawn:                      "is_pawn",
	VarIsKnight:                    "is_knight",
	VarIsBishop:                    "is_bishop",
	VarIsRook:                      "is_rook",
	VarIsQueen:                     "is_queen",
	VarIsKing:                      "is_king",
	VarCastledKingSide:             "castled_king_side",
	VarCastledQueenSide:            "castled_queen_side",
	VarWasCaptured:                 "was_captured",
	VarPawnWasCaptured:             "pawn_was_captured",
	VarKnightWasCaptured:           "knight_was_captured",
	VarBishopWasCaptured:           "bishop_was_captured",
	VarRookWasCaptured:             "rook_was_captured",
	VarQueenWasCaptured:            "queen_was_captured",
	VarPossibleMoves:               "possible_moves",
	VarCanCapture:                  "can_capture",
	VarCanCapturePawn:              "can_capture_pawn",
	VarCanCaptureKnight:            "can_capture_knight",
	VarCanCaptureBishop:            "can_capture_bishop",
	VarCanCaptureRook:              "can_capture_rook",
	VarCanCaptureQueen:             "can_capture_queen",
	VarCanMoveHere:                 "can_move_here",
	VarPawnCanMoveHere:             "pawn_can_move_here",
	VarKnightCanMoveHere:           "knight_can_move_here",
	VarBishopCanMoveHere:           "bishop_can_move_here",
	VarRookCanMoveHere:             "rook_can_move_here",
	VarQueenCanMoveHere:            "queen_can_move_here",
	VarKingCanMoveHere:             "king_can_move_here",
	VarIsInCheck:                   "is_in_check",
	VarIsInCheckmate:               "is_in_checkmate",
	VarIsDraw:                      "is_draw",
	VarDepth:                       "depth",
	VarFirstIterationPreMoveTotal:  "first_iteration_pre_move_total",
	VarFirstIterationPostMoveTotal: "first_iteration_post_move_total",
	VarPrevIterationPreMoveTotal:   "prev_iteration_pre_move_total",
	VarPrevIterationPostMoveTotal:  "prev_iteration_post_move_total",
	VarThisIterationPreMoveTotal:   "this_iteration_pre_move_total",
	VarThisIterationPostMoveTotal:  "this_iteration_post_move_total",
}

func (v Var) String() string {
	if int(v) < len(varNames) {
		return varNames[v]
	}
	return "unknown"
}

// VarByName resolves a serialized variable name back to its id.
func VarByName(name string) (Var, error) {
	for i, n := range varNames {
		if n == name {
			return Var(i), nil
		}
	}
	return 0, fmt.Errorf("tree: unknown variable %q", name)
}

var boardVars = []Var{
	VarIsSelf, VarIsOpponent, VarIsEmpty,
	VarIsPawn, VarIsKnight, VarIsBishop, VarIsRook, VarIsQueen, VarIsKing,
	VarCastledKingSide, VarCastledQueenSide,
	VarWasCaptured,
	VarPawnWasCaptured, VarKnightWasCaptured, VarBishopWasCaptured,
	VarRookWasCaptured, VarQueenWasCaptured,
	VarPossibleMoves,
	VarCanCapture,
	VarCanCapturePawn, VarCanCaptureKnight, VarCanCaptureBishop,
	VarCanCaptureRook, VarCanCaptureQueen,
	VarCanMoveHere,
	VarPawnCanMoveHere, VarKnightCanMoveHere, VarBishopCanMoveHere,
	VarRookCanMoveHere, VarQueenCanMoveHere, VarKingCanMoveHere,
	VarIsInCheck, VarIsInCheckmate, VarIsDraw,
}

var movementVars = []Var{
	VarIsInCheck, VarIsInCheckmate, VarIsDraw,
	VarDepth,
	VarFirstIterationPreMoveTotal, VarFirstIterationPostMoveTotal,
	VarPrevIterationPreMoveTotal, VarPrevIterationPostMoveTotal,
	VarThisIterationPreMoveTotal, VarThisIterationPostMoveTotal,
}

// Provided returns the provided variables a program of the given kind may
// reference. Custom cells are always additionally allowed.
func Provided(kind ProgramKind) []Var {
	if kind == Board {
		return boardVars
	}
	return movementVars
}

// AllowedIn reports whether the variable may appear in a program of the
// given kind.
func (v Var) AllowedIn(kind ProgramKind) bool {
	if v == VarCustom {
		return true
	}
	for _, a := range Provided(kind) {
		if a == v {
			return true
		}
	}
	return false
}
