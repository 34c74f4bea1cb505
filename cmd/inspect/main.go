package main

import (
	"flag"
	"fmt"
	"log"

	evo "github.com/itsjoekent-archive/chess-evolutionary-algo"
	"github.com/itsjoekent-archive/chess-evolutionary-algo/tree"
)

var checkpoint = flag.String("checkpoint", "", "agent checkpoint to inspect")

func main() {
	flag.Parse()
	if *checkpoint == "" {
		log.Fatal("missing -checkpoint")
	}

	agent, err := evo.LoadAgent(*checkpoint)
	if err != nil {
		log.Fatalf("error loading agent: %s", err)
	}

	board, err := tree.DOT("board", agent.Board)
	if err != nil {
		log.Fatalf("error rendering board program: %s", err)
	}
	movement, err := tree.DOT("movement", agent.Move)
	if err != nil {
		log.Fatalf("error rendering movement program: %s", err)
	}

	fmt.Printf("// agent %s\n%s\n%s", agent.ID, board, movement)
}
