package evo

import (
	"encoding/json"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

func breeding(seed int64) (*tree.Generator, *tree.Mutator, *rand.Rand) {
	gen := tree.NewGenerator(seed)
	return gen, tree.NewMutator(gen, seed+1), rand.New(rand.NewSource(seed + 2))
}

func TestMutateLeavesParentByteIdentical(t *testing.T) {
	gen, mut, rnd := breeding(1)
	parent := NewAgent(gen, rnd)

	before, err := json.Marshal(parent)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		child, record := Mutate(parent, mut, rnd)
		require.NotNil(t, record)
		assert.NotEqual(t, parent.ID, child.ID)

		after, err := json.Marshal(parent)
		require.NoError(t, err)
		require.Equal(t, string(before), string(after))
	}
}

func TestMutateZeroesChildDynamicMemory(t *testing.T) {
	gen, mut, rnd := breeding(2)
	parent := NewAgent(gen, rnd)
	for i := tree.StaticCells; i < tree.Cells; i++ {
		parent.Memory[i] = 13
	}

	child, _ := Mutate(parent, mut, rnd)
	for i := tree.StaticCells; i < tree.Cells; i++ {
		assert.Equal(t, 0, child.Memory[i])
	}
}

func TestMemoryMutationTouchesOnlyStaticCells(t *testing.T) {
	_, _, rnd := breeding(3)

	var m Memory
	for i := 0; i < 500; i++ {
		mutated, edits := mutateMemory(m, rnd)
		require.NotEmpty(t, edits)
		require.LessOrEqual(t, len(edits), tree.MaxMutations)

		seen := map[int]bool{}
		for _, e := range edits {
			assert.GreaterOrEqual(t, e.Index, 0)
			assert.Less(t, e.Index, tree.StaticCells)
			assert.NotEqual(t, e.From, e.To)
			assert.GreaterOrEqual(t, e.To, tree.MemoryMin)
			assert.LessOrEqual(t, e.To, tree.MemoryMax)
			assert.False(t, seen[e.Index], "cell mutated twice in one batch")
			seen[e.Index] = true
			assert.Equal(t, e.To, mutated[e.Index])
		}
		for i := tree.StaticCells; i < tree.Cells; i++ {
			assert.Equal(t, 0, mutated[i])
		}
	}
}

func TestOffspringUniqueness(t *testing.T) {
	gen, mut, rnd := breeding(4)
	parent := NewAgent(gen, rnd)

	children := Offspring(parent, 8, mut, rnd)
	require.NotEmpty(t, children)
	assert.LessOrEqual(t, len(children), 9)

	fingerprints := map[[32]byte]bool{}
	ids := map[string]bool{}
	for _, c := range children {
		fp := c.Fingerprint()
		assert.False(t, fingerprints[fp], "duplicate offspring content")
		fingerprints[fp] = true
		assert.False(t, ids[c.ID.String()], "duplicate offspring identity")
		ids[c.ID.String()] = true
	}
}

func TestOffspringChildZeroIsParentCopy(t *testing.T) {
	gen, mut, rnd := breeding(5)
	parent := NewAgent(gen, rnd)
	parent.Memory[tree.StaticCells] = 77 // scratch noise must not survive

	children := Offspring(parent, 4, mut, rnd)
	first := children[0]

	assert.NotEqual(t, parent.ID, first.ID)
	assert.Equal(t, parent.Fingerprint(), first.Fingerprint())
	assert.True(t, parent.Board.Equal(first.Board))
	assert.True(t, parent.Move.Equal(first.Move))
	for i := tree.StaticCells; i < tree.Cells; i++ {
		assert.Equal(t, 0, first.Memory[i])
	}
}

func TestFingerprintIgnoresDynamicMemory(t *testing.T) {
	gen, _, rnd := breeding(6)
	a := NewAgent(gen, rnd)

	before := a.Fingerprint()
	a.Memory[tree.Cells-1] = 55
	assert.Equal(t, before, a.Fingerprint())

	a.Memory[0]++
	assert.NotEqual(t, before, a.Fingerprint())
}

func TestAgentSaveLoadRoundTrip(t *testing.T) {
	gen, _, rnd := breeding(7)
	a := NewAgent(gen, rnd)

	path := t.TempDir() + "/agent.json"
	require.NoError(t, a.Save(path))

	loaded, err := LoadAgent(path)
	require.NoError(t, err)
	assert.Equal(t, a.ID, loaded.ID)
	assert.Equal(t, a.Fingerprint(), loaded.Fingerprint())
	assert.Equal(t, a.Memory, loaded.Memory)
}

func TestLoadAgentsCollectsFailures(t *testing.T) {
	gen, _, rnd := breeding(8)
	dir := t.TempDir()

	a := NewAgent(gen, rnd)
	require.NoError(t, a.Save(dir+"/good.json"))
	require.NoError(t, os.WriteFile(dir+"/bad.json", []byte("{"), 0644))

	agents, err := LoadAgents(dir)
	assert.Len(t, agents, 1)
	assert.Error(t, err)
}
