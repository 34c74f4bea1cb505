package evo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/game"
)

// MaxSearchDepth caps the recursive move search.
const MaxSearchDepth = 30

// CanonicalSquare is where the movement program is evaluated for each
// candidate move.
const CanonicalSquare = chess.A1

// DefaultTurnBudget is the hard wall-clock bound per turn.
const DefaultTurnBudget = time.Second

// Fitness deltas per turn event. A single move can earn several rows.
const (
	fitTurnPlayed  = 1
	fitCapture     = 2
	fitCaptured    = -1
	fitCheck       = 3
	fitChecked     = -1
	fitMate        = 50
	fitMated       = -10
	fitDraw        = 5
	fitDrawnOn     = -1
	fitTurnBotched = -20
)

// Runner plays one full game between two agents. A runner owns its board
// and both agents' working state; nothing in it is shared across games.
type Runner struct {
	white, black *Agent
	board        *game.Board
	budget       time.Duration
	scores       map[uuid.UUID]int
	contexts     map[chess.Color]*TurnContext

	// events is the per-game fitness ledger; the score map is always its
	// per-agent sum.
	events []fitnessEvent

	buf    bytes.Buffer
	logger *log.Logger
}

type fitnessEvent struct {
	id    uuid.UUID
	delta int
}

// NewRunner pairs two agents over a fresh board. Colors are assigned by a
// coin flip on entry, and both agents start the game with zeroed dynamic
// memory.
func NewRunner(a, b *Agent, budget time.Duration, rnd *rand.Rand) *Runner {
	white, black := a, b
	if rnd.Intn(2) == 1 {
		white, black = b, a
	}
	white.Memory.ResetDynamic()
	black.Memory.ResetDynamic()

	if budget <= 0 {
		budget = DefaultTurnBudget
	}

	r := &Runner{
		white:  white,
		black:  black,
		board:  game.New(),
		budget: budget,
		scores: map[uuid.UUID]int{a.ID: 0, b.ID: 0},
		contexts: map[chess.Color]*TurnContext{
			chess.White: {Agent: white, Color: chess.White},
			chess.Black: {Agent: black, Color: chess.Black},
		},
	}
	r.logger = log.New(&r.buf, "", log.Ltime)
	return r
}

// White and Black report the color assignment of the coin flip.
func (r *Runner) White() *Agent { return r.white }
func (r *Runner) Black() *Agent { return r.black }

func (r *Runner) award(a *Agent, delta int) {
	r.scores[a.ID] += delta
	r.events = append(r.events, fitnessEvent{id: a.ID, delta: delta})
}

// Log flushes the per-game transcript into w.
func (r *Runner) Log(w io.Writer) {
	fmt.Fprint(w, r.buf.String())
}

// Play runs the game to completion and returns the fitness delta per
// agent id. Faults that end the game early (deadline, structural, no
// move) are folded into the score and reported alongside it; Play never
// panics across the tournament boundary.
func (r *Runner) Play() (scores map[uuid.UUID]int, err error) {
	defer func() {
		if p := recover(); p != nil {
			mover := r.agentFor(r.board.Turn())
			r.award(mover, fitTurnBotched)
			r.logger.Printf("game aborted: %v", p)
			err = errors.Wrapf(ErrStructural, "adapter panic: %v", p)
		}
		scores = r.scores
	}()

	ended := false
	for !r.board.GameOver() && !ended {
		color := r.board.Turn()
		mover := r.agentFor(color)
		opponent := r.agentFor(color.Other())

		ctx, cancel := context.WithTimeout(context.Background(), r.budget)
		move, _, tc, turnErr := r.selectMove(ctx, r.contexts[color], r.board)
		cancel()

		if turnErr != nil {
			r.award(mover, fitTurnBotched)
			r.logger.Printf("%v failed to move: %v", color, turnErr)
			return r.scores, turnErr
		}
		r.contexts[color] = tc

		if applyErr := r.board.Apply(move); applyErr != nil {
			r.award(mover, fitTurnBotched)
			return r.scores, errors.Wrap(ErrStructural, applyErr.Error())
		}
		r.logger.Printf("%v plays %v", color, move)

		r.award(mover, fitTurnPlayed)
		if isCapture(move) {
			r.award(mover, fitCapture)
			r.award(opponent, fitCaptured)
		}
		if move.HasTag(chess.Check) {
			r.award(mover, fitCheck)
			r.award(opponent, fitChecked)
		}
		switch {
		case r.board.IsCheckmate():
			r.award(mover, fitMate)
			r.award(opponent, fitMated)
			ended = true
		case r.board.IsDraw():
			r.award(mover, fitDraw)
			r.award(opponent, fitDrawnOn)
			ended = true
		}
	}

	r.logger.Printf("game over: %v %v", r.board.Outcome(), r.board.Method())
	return r.scores, nil
}

func (r *Runner) agentFor(c chess.Color) *Agent {
	if c == chess.White {
		return r.white
	}
	return r.black
}

// selectMove runs one iteration of the turn procedure on b for the side
// prev belongs to: derive the iteration context, scan every square with
// the board program, score each legal move with the movement program on
// its hypothetical board, and recurse while the movement program keeps
// answering zero. The deadline is polled at the top of the candidate loop
// and on recursion entry, never inside an evaluation.
func (r *Runner) selectMove(ctx context.Context, prev *TurnContext, b *game.Board) (*chess.Move, int, *TurnContext, error) {
	tc := prev.next(b)

	for sq := chess.A1; sq <= chess.H8; sq++ {
		v, err := Eval(tc.Agent.Board, sq, tc)
		if err != nil {
			return nil, 0, tc, err
		}
		tc.Outputs.ThisPre += v
		if tc.Depth == 1 {
			tc.Outputs.FirstPre += v
		}
	}

	moves := b.LegalMoves()
	if len(moves) == 0 {
		return nil, 0, tc, ErrNoMove
	}

	var best *chess.Move
	bestScore := 0
	for _, move := range moves {
		if ctx.Err() != nil {
			return nil, 0, tc, ErrDeadline
		}

		post := b.Clone()
		if err := post.Apply(move); err != nil {
			return nil, 0, tc, errors.Wrap(ErrStructural, err.Error())
		}

		pc := tc.opposite(post)
		for sq := chess.A1; sq <= chess.H8; sq++ {
			v, err := Eval(pc.Agent.Board, sq, pc)
			if err != nil {
				return nil, 0, tc, err
			}
			pc.Outputs.ThisPost += v
			if pc.Depth == 1 {
				pc.Outputs.FirstPost += v
			}
		}

		score, err := Eval(pc.Agent.Move, CanonicalSquare, pc)
		if err != nil {
			return nil, 0, tc, err
		}

		if score == 0 && tc.Depth < MaxSearchDepth {
			if ctx.Err() != nil {
				return nil, 0, tc, ErrDeadline
			}
			_, sub, _, err := r.selectMove(ctx, pc, post)
			switch {
			case errors.Is(err, ErrNoMove):
				// Dead end: keep the movement program's zero.
			case err != nil:
				return nil, 0, tc, err
			default:
				score = sub
			}
		}

		if best == nil || score > bestScore {
			best = move
			bestScore = score
		}
	}

	return best, bestScore, tc, nil
}
