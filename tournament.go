package evo

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

// Standing is one agent's total score after a tournament round.
type Standing struct {
	Agent *Agent
	Score int
}

// Standings is a full ordering of the population, best first.
type Standings []Standing

// Best returns the top agent.
func (s Standings) Best() *Agent { return s[0].Agent }

// Tournament owns a population and evolves it: pair, play, score, select,
// breed, repeat. The population registry is only written between rounds by
// the calling goroutine; games run in parallel with no shared mutable
// state.
type Tournament struct {
	agents  []*Agent
	arrival map[uuid.UUID]int
	seq     int

	gen     *tree.Generator
	mut     *tree.Mutator
	rnd     *rand.Rand
	budget  time.Duration
	workers int

	// Checkpoint, when set, is called with the survivor after every
	// round. Failures are reported but do not stop evolution.
	Checkpoint func(generation int, best *Agent) error
}

// NewTournament seeds a random population. Size must be even so every
// agent plays each round.
func NewTournament(size, workers int, budget time.Duration, seed int64) (*Tournament, error) {
	if size < 2 || size%2 != 0 {
		return nil, errors.Errorf("evo: population size %d must be even and at least 2", size)
	}
	if workers < 1 {
		workers = 1
	}

	gen := tree.NewGenerator(seed)
	t := &Tournament{
		arrival: make(map[uuid.UUID]int, size),
		gen:     gen,
		mut:     tree.NewMutator(gen, seed+1),
		rnd:     rand.New(rand.NewSource(seed)),
		budget:  budget,
		workers: workers,
	}

	for i := 0; i < size; i++ {
		t.add(NewAgent(t.gen, t.rnd))
	}
	return t, nil
}

func (t *Tournament) add(a *Agent) {
	t.agents = append(t.agents, a)
	t.seq++
	t.arrival[a.ID] = t.seq
}

// Agents returns the current population.
func (t *Tournament) Agents() []*Agent { return t.agents }

// Round shuffles the population into pairs, plays the games in parallel
// and returns the full ordering. Per-game faults are aggregated and
// reported; they never abort the round.
func (t *Tournament) Round(ctx context.Context) (Standings, error) {
	perm := t.rnd.Perm(len(t.agents))

	type result struct {
		scores map[uuid.UUID]int
		err    error
	}
	results := make([]result, len(perm)/2)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for i := 0; i < len(perm); i += 2 {
		i := i
		a, b := t.agents[perm[i]], t.agents[perm[i+1]]
		seed := t.rnd.Int63()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			runner := NewRunner(a, b, t.budget, rand.New(rand.NewSource(seed)))
			scores, err := runner.Play()
			results[i/2] = result{scores: scores, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "evo: tournament round")
	}

	totals := make(map[uuid.UUID]int, len(t.agents))
	var faults error
	for _, res := range results {
		for id, score := range res.scores {
			totals[id] += score
		}
		if res.err != nil {
			faults = multierror.Append(faults, res.err)
		}
	}
	if faults != nil {
		log.Printf("round faults: %v", faults)
	}

	standings := make(Standings, len(t.agents))
	for i, a := range t.agents {
		standings[i] = Standing{Agent: a, Score: totals[a.ID]}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		// Newer arrivals outrank on ties to keep the lineage churning.
		return t.arrival[standings[i].Agent.ID] > t.arrival[standings[j].Agent.ID]
	})
	return standings, nil
}

// Evolve replaces the population with the survivor plus its mutated
// offspring. The survivor carries over unchanged under its own identity;
// if the uniqueness budget runs dry the population is topped up with
// fresh random agents.
func (t *Tournament) Evolve(standings Standings) {
	size := len(t.agents)
	survivor := standings.Best()
	survivor.Memory.ResetDynamic()

	next := []*Agent{survivor}
	for _, child := range Offspring(survivor, size-1, t.mut, t.rnd)[1:] {
		next = append(next, child)
	}
	for len(next) < size {
		next = append(next, NewAgent(t.gen, t.rnd))
	}

	t.agents = nil
	for _, a := range next {
		a.Memory.ResetDynamic()
		t.add(a)
	}
}

// Migrate replaces the tail of the population with imported agents. The
// imports keep their trees and memory verbatim apart from zeroed dynamic
// cells.
func (t *Tournament) Migrate(imports []*Agent) {
	if len(imports) == 0 {
		return
	}
	if len(imports) > len(t.agents) {
		imports = imports[:len(t.agents)]
	}
	tail := len(t.agents) - len(imports)
	t.agents = t.agents[:tail]
	for _, a := range imports {
		a.Memory.ResetDynamic()
		t.add(a)
	}
}

// Run plays the given number of generations. Context cancellation stops
// between rounds; checkpoint failures are aggregated into the returned
// error without interrupting evolution.
func (t *Tournament) Run(ctx context.Context, generations int) error {
	var errs error
	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return multierror.Append(errs, err).ErrorOrNil()
		}

		standings, err := t.Round(ctx)
		if err != nil {
			return multierror.Append(errs, err).ErrorOrNil()
		}
		logStandings(gen, standings)

		if t.Checkpoint != nil {
			if err := t.Checkpoint(gen, standings.Best()); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "generation %d checkpoint", gen))
			}
		}
		t.Evolve(standings)
	}
	return errs
}

func logStandings(gen int, standings Standings) {
	scores := make([]float64, len(standings))
	for i, s := range standings {
		scores[i] = float64(s.Score)
	}
	mean := stat.Mean(scores, nil)
	sigma := stat.StdDev(scores, nil)
	log.Printf("generation %d: best %d (%v) mean %.1f stddev %.1f",
		gen, standings[0].Score, standings[0].Agent.ID, mean, sigma)
}
