package evo

import (
	"github.com/notnil/chess"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/game"
)

// TurnOutputs are the running totals a movement program can read back.
// Pre totals come from scanning the board before a candidate move, post
// totals from scanning the hypothetical board after it.
type TurnOutputs struct {
	FirstPre  int
	FirstPost int
	PrevPre   int
	PrevPost  int
	ThisPre   int
	ThisPost  int
}

// TurnContext is everything one program evaluation can see: the agent
// (programs + memory), the board, the side being played, the search depth
// and the running totals.
type TurnContext struct {
	Agent   *Agent
	Board   *game.Board
	Color   chess.Color
	Depth   int
	Outputs TurnOutputs
}

// next derives the context for a new iteration of the same color on b:
// depth advances, this-iteration totals shift into prev and reset, first
// totals persist.
func (c *TurnContext) next(b *game.Board) *TurnContext {
	return &TurnContext{
		Agent: c.Agent,
		Board: b,
		Color: c.Color,
		Depth: c.Depth + 1,
		Outputs: TurnOutputs{
			FirstPre:  c.Outputs.FirstPre,
			FirstPost: c.Outputs.FirstPost,
			PrevPre:   c.Outputs.ThisPre,
			PrevPost:  c.Outputs.ThisPost,
		},
	}
}

// opposite derives the hypothetical context after a candidate move: the
// post-move board, the opposite color, and a copy of the agent so memory
// writes cannot leak between sibling candidates. Trees are shared; they
// are never mutated during evaluation.
func (c *TurnContext) opposite(post *game.Board) *TurnContext {
	agent := *c.Agent
	return &TurnContext{
		Agent:   &agent,
		Board:   post,
		Color:   c.Color.Other(),
		Depth:   c.Depth,
		Outputs: c.Outputs,
	}
}
