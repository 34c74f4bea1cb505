// Package game wraps the chess rules library behind the narrow surface the
// engine needs: legal moves with their flags, last-move metadata with the
// pre-move position retained, and the end-of-game predicates.
package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Board is one playable chess position with its full move history. The
// history is kept so repetition draws and last-move metadata work on
// hypothetical copies exactly as on the real game.
type Board struct {
	g *chess.Game
}

// New returns a board at the initial position.
func New() *Board {
	return &Board{g: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

// FromFEN returns a board at the given position.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(err, "game: parse fen %q", fen)
	}
	return &Board{g: chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}, nil
}

// Clone copies the board and its history.
func (b *Board) Clone() *Board {
	return &Board{g: b.g.Clone()}
}

// Turn returns the side to move.
func (b *Board) Turn() chess.Color {
	return b.g.Position().Turn()
}

// PieceAt returns the piece on sq, chess.NoPiece when empty.
func (b *Board) PieceAt(sq chess.Square) chess.Piece {
	return b.g.Position().Board().Piece(sq)
}

// LegalMoves returns the legal moves of the current position, each tagged
// with capture, en-passant, castle and check flags.
func (b *Board) LegalMoves() []*chess.Move {
	return b.g.ValidMoves()
}

// Apply plays a legal move.
func (b *Board) Apply(m *chess.Move) error {
	return errors.Wrap(b.g.Move(m), "game: apply move")
}

// ApplyUCI plays a move given in UCI notation.
func (b *Board) ApplyUCI(s string) error {
	return errors.Wrapf(b.g.MoveStr(s), "game: apply move %q", s)
}

// LastMove returns the most recently played move, nil at the start.
func (b *Board) LastMove() *chess.Move {
	moves := b.g.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

// PrePosition returns the position the last move was played from, nil at
// the start. Needed to reconstruct what a capture removed.
func (b *Board) PrePosition() *chess.Position {
	positions := b.g.Positions()
	if len(positions) < 2 {
		return nil
	}
	return positions[len(positions)-2]
}

// LastMoveCaptured reports whether the last move captured, ordinary or en
// passant.
func (b *Board) LastMoveCaptured() bool {
	m := b.LastMove()
	return m != nil && (m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant))
}

// CapturedKind returns the kind of piece the last move removed. En passant
// always removes a pawn; otherwise the kind is read off the pre-move
// position at the move's target square.
func (b *Board) CapturedKind() (chess.PieceType, bool) {
	m := b.LastMove()
	if m == nil || !b.LastMoveCaptured() {
		return chess.NoPieceType, false
	}
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn, true
	}
	pre := b.PrePosition()
	if pre == nil {
		return chess.NoPieceType, false
	}
	p := pre.Board().Piece(m.S2())
	if p == chess.NoPiece {
		return chess.NoPieceType, false
	}
	return p.Type(), true
}

// InCheck reports whether the side to move is in check. The rules library
// tags checking moves during generation, so this is the last move's flag.
func (b *Board) InCheck() bool {
	m := b.LastMove()
	return m != nil && m.HasTag(chess.Check)
}

// IsCheckmate reports whether the side to move has been mated.
func (b *Board) IsCheckmate() bool {
	return b.g.Position().Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (b *Board) IsStalemate() bool {
	return b.g.Position().Status() == chess.Stalemate
}

// IsThreefoldRepetition reports whether the position has occurred three
// times, claimed or automatic.
func (b *Board) IsThreefoldRepetition() bool {
	for _, m := range b.g.EligibleDraws() {
		if m == chess.ThreefoldRepetition {
			return true
		}
	}
	m := b.g.Method()
	return m == chess.ThreefoldRepetition || m == chess.FivefoldRepetition
}

// IsDraw reports any drawn state: decided draws, stalemate, or a claimable
// repetition.
func (b *Board) IsDraw() bool {
	if b.g.Outcome() == chess.Draw {
		return true
	}
	return b.IsStalemate() || b.IsThreefoldRepetition()
}

// GameOver reports whether the game has a decided outcome.
func (b *Board) GameOver() bool {
	return b.g.Outcome() != chess.NoOutcome
}

// Outcome returns the decided outcome, chess.NoOutcome while in play.
func (b *Board) Outcome() chess.Outcome {
	return b.g.Outcome()
}

// Method returns how the outcome was reached.
func (b *Board) Method() chess.Method {
	return b.g.Method()
}

// FEN returns the current position in FEN.
func (b *Board) FEN() string {
	return b.g.Position().String()
}
