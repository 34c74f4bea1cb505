package evo

import "github.com/pkg/errors"

// Sentinel outcomes of a turn. Structural faults are programmer errors in
// an evolved program (unknown variable, bad write target); they end the
// game for the offending agent but never cross the tournament boundary.
var (
	// ErrStructural marks a fault in an agent's program or a wrapped
	// adapter failure.
	ErrStructural = errors.New("evo: structural fault")

	// ErrDeadline reports the per-turn wall-clock budget elapsed.
	ErrDeadline = errors.New("evo: turn deadline exceeded")

	// ErrNoMove reports that no candidate move could be selected.
	ErrNoMove = errors.New("evo: no move selected")
)
