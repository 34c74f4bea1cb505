package evo

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

// offspringBudgetFactor bounds how many mutation candidates are tried per
// requested child before giving up on uniqueness.
const offspringBudgetFactor = 10

// MemoryEdit records one static-cell perturbation.
type MemoryEdit struct {
	Index int
	From  int
	To    int
}

// Mutation describes how a child differs from its parent.
type Mutation struct {
	BoardEdits  []tree.Edit
	MoveEdits   []tree.Edit
	MemoryEdits []MemoryEdit
}

// mutateMemory perturbs between tree.MinMutations and tree.MaxMutations
// distinct static cells, never touching the same cell twice in a batch.
func mutateMemory(m Memory, rnd *rand.Rand) (Memory, []MemoryEdit) {
	target := tree.MinMutations + rnd.Intn(tree.MaxMutations-tree.MinMutations+1)

	touched := make(map[int]bool, target)
	var edits []MemoryEdit
	for attempt := 0; attempt < 1000 && len(edits) < target; attempt++ {
		i := rnd.Intn(tree.StaticCells)
		if touched[i] {
			continue
		}
		v := randomCellValue(rnd)
		if v == m[i] {
			continue
		}
		edits = append(edits, MemoryEdit{Index: i, From: m[i], To: v})
		m[i] = v
		touched[i] = true
	}
	return m, edits
}

// Mutate returns a mutated copy of the agent under a fresh identity: both
// trees and the static memory are perturbed independently, dynamic memory
// is zeroed. The parent is never modified.
func Mutate(a *Agent, mut *tree.Mutator, rnd *rand.Rand) (*Agent, *Mutation) {
	board, boardEdits := mut.Algorithm(a.Board)
	move, moveEdits := mut.Algorithm(a.Move)
	memory, memEdits := mutateMemory(a.Memory, rnd)
	memory.ResetDynamic()

	child := &Agent{
		ID:     uuid.New(),
		Board:  board,
		Move:   move,
		Memory: memory,
	}
	return child, &Mutation{
		BoardEdits:  boardEdits,
		MoveEdits:   moveEdits,
		MemoryEdits: memEdits,
	}
}

// Offspring produces up to k mutated children of the parent plus, at index
// 0, a structural copy under a fresh identity. Children are unique by
// content fingerprint; the attempt budget is offspringBudgetFactor per
// requested child, so fewer than k mutants may come back.
func Offspring(parent *Agent, k int, mut *tree.Mutator, rnd *rand.Rand) []*Agent {
	children := make([]*Agent, 0, k+1)
	seen := make(map[[32]byte]bool, k+1)

	first := parent.Copy()
	children = append(children, first)
	seen[first.Fingerprint()] = true

	budget := offspringBudgetFactor * (k + 1)
	for attempt := 0; attempt < budget && len(children) < k+1; attempt++ {
		child, _ := Mutate(parent, mut, rnd)
		fp := child.Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		children = append(children, child)
	}
	return children
}
