package evo

import (
	"crypto/sha256"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

// Memory is an agent's cell bank: tree.StaticCells evolvable values
// followed by tree.DynamicCells runtime scratch. Cell i is addressed by
// programs as custom_i. The array value semantics make copying an agent's
// memory a plain struct copy.
type Memory [tree.Cells]int

// ResetDynamic zeroes the scratch cells. Static cells are untouched.
func (m *Memory) ResetDynamic() {
	for i := tree.StaticCells; i < tree.Cells; i++ {
		m[i] = 0
	}
}

// RandomMemory returns a bank with random static values and zeroed
// dynamic cells.
func RandomMemory(rnd *rand.Rand) Memory {
	var m Memory
	for i := 0; i < tree.StaticCells; i++ {
		m[i] = randomCellValue(rnd)
	}
	return m
}

func randomCellValue(rnd *rand.Rand) int {
	return tree.MemoryMin + rnd.Intn(tree.MemoryMax-tree.MemoryMin+1)
}

// An Agent is the evolvable unit: a board-scoring program, a
// move-selection program and a memory bank, under a fresh identity.
type Agent struct {
	ID     uuid.UUID
	Board  *tree.Algorithm
	Move   *tree.Algorithm
	Memory Memory
}

// NewAgent returns a fresh random agent.
func NewAgent(gen *tree.Generator, rnd *rand.Rand) *Agent {
	return &Agent{
		ID:     uuid.New(),
		Board:  gen.Algorithm(tree.Board),
		Move:   gen.Algorithm(tree.Movement),
		Memory: RandomMemory(rnd),
	}
}

// Copy returns a structural copy of the agent under a fresh identity with
// dynamic memory zeroed.
func (a *Agent) Copy() *Agent {
	c := &Agent{
		ID:     uuid.New(),
		Board:  a.Board.Clone(),
		Move:   a.Move.Clone(),
		Memory: a.Memory,
	}
	c.Memory.ResetDynamic()
	return c
}

// Fingerprint hashes the agent's content: both trees and the memory bank
// with dynamic cells treated as zero. Two agents with structurally equal
// programs and equal static memory hash identically regardless of scratch
// state or identity.
func (a *Agent) Fingerprint() [sha256.Size]byte {
	buf := a.Board.Canonical()
	buf = append(buf, a.Move.Canonical()...)
	mem := a.Memory
	mem.ResetDynamic()
	for _, v := range mem {
		buf = append(buf, byte(v), byte(v>>8))
	}
	return sha256.Sum256(buf)
}

type agentJSON struct {
	ID     string          `json:"id"`
	Board  *tree.Algorithm `json:"board"`
	Move   *tree.Algorithm `json:"move"`
	Memory []int           `json:"memory"`
}

// MarshalJSON encodes the agent checkpoint: identity, both trees with
// explicit kind tags, and the ordered memory values.
func (a *Agent) MarshalJSON() ([]byte, error) {
	return json.Marshal(agentJSON{
		ID:     a.ID.String(),
		Board:  a.Board,
		Move:   a.Move,
		Memory: a.Memory[:],
	})
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	var raw agentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "evo: decode agent")
	}
	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return errors.Wrap(err, "evo: decode agent id")
	}
	if raw.Board == nil || raw.Move == nil {
		return errors.New("evo: agent checkpoint missing a program")
	}
	if raw.Board.Kind != tree.Board || raw.Move.Kind != tree.Movement {
		return errors.New("evo: agent checkpoint has swapped program kinds")
	}
	if len(raw.Memory) != tree.Cells {
		return errors.Errorf("evo: agent checkpoint has %d memory cells, want %d", len(raw.Memory), tree.Cells)
	}
	a.ID = id
	a.Board = raw.Board
	a.Move = raw.Move
	copy(a.Memory[:], raw.Memory)
	return nil
}

// Save writes the agent checkpoint as indented JSON.
func (a *Agent) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "	")
	if err != nil {
		return errors.Wrap(err, "evo: encode agent")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "evo: save agent %s", path)
}

// LoadAgent reads an agent checkpoint.
func LoadAgent(path string) (*Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "evo: load agent %s", path)
	}
	a := &Agent{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "evo: load agent %s", path)
	}
	return a, nil
}

// LoadAgents reads every *.json checkpoint in dir, collecting per-file
// failures without giving up on the rest.
func LoadAgents(dir string) ([]*Agent, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "evo: scan %s", dir)
	}

	var agents []*Agent
	var errs error
	for _, p := range paths {
		a, err := LoadAgent(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		agents = append(agents, a)
	}
	return agents, errs
}
