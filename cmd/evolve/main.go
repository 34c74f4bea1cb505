package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	evo "github.com/itsjoekent-archive/chess-evolutionary-algo"
	"github.com/itsjoekent-archive/chess-evolutionary-algo/config"
)

var (
	generations = flag.Int("generations", 0, "override EVO_GENERATIONS")
	checkpoints = flag.String("checkpoint_dir", "", "override EVO_CHECKPOINT_DIR")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	conf := config.MustLoad()
	if *generations > 0 {
		conf.Generations = *generations
	}
	if *checkpoints != "" {
		conf.CheckpointDir = *checkpoints
	}

	if err := os.MkdirAll(conf.CheckpointDir, 0755); err != nil {
		log.Fatalf("error creating checkpoint dir: %s", err)
	}

	t, err := evo.NewTournament(conf.Population, conf.Workers, conf.TurnBudget, conf.Seed)
	if err != nil {
		log.Fatalf("error seeding population: %s", err)
	}
	t.Checkpoint = func(gen int, best *evo.Agent) error {
		path := filepath.Join(conf.CheckpointDir, fmt.Sprintf("gen_%05d.json", gen))
		return best.Save(path)
	}

	if conf.MigrationDir != "" && conf.MigrationTail > 0 {
		imports, err := evo.LoadAgents(conf.MigrationDir)
		if err != nil {
			log.Printf("migration imports incomplete: %s", err)
		}
		if len(imports) > conf.MigrationTail {
			imports = imports[:conf.MigrationTail]
		}
		t.Migrate(imports)
		log.Printf("migrated %d agents in", len(imports))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("evolving %d agents for %d generations (seed %d)",
		conf.Population, conf.Generations, conf.Seed)
	if err := t.Run(ctx, conf.Generations); err != nil {
		log.Fatalf("error while evolving: %s", err)
	}
	fmt.Print("finished evolving\n")
}
