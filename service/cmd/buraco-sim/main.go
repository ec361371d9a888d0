// Command buraco-sim plays bot-versus-bot Buraco matches and reports the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/buraco/service/internal/config"
	"github.com/jason-s-yu/buraco/service/internal/sim"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	flag.IntVar(&cfg.Matches, "matches", cfg.Matches, "number of matches to play")
	flag.IntVar(&cfg.Players, "players", cfg.Players, "players per match (2 or 4)")
	flag.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn limit per match")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		config.Exitf("Error: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"matches": cfg.Matches,
		"players": cfg.Players,
		"seed":    cfg.Seed,
		"target":  cfg.WinningScore,
	}).Info("starting simulation")

	sum, err := sim.Run(ctx, sim.Settings{
		Players:  cfg.Players,
		Matches:  cfg.Matches,
		MaxTurns: cfg.MaxTurns,
		Seed:     cfg.Seed,
		Rules:    cfg.Rules(),
	}, log)
	if err != nil {
		log.WithError(err).Error("simulation failed")
		os.Exit(1)
	}

	for i, r := range sum.Results {
		status := fmt.Sprintf("team %d wins", r.Winner)
		if !r.Finished {
			status = "unfinished"
		}
		fmt.Printf("match %3d  seed %-20d  rounds %3d  turns %5d  score %5d : %-5d  %s\n",
			i+1, r.Seed, r.Rounds, r.Turns, r.Scores[0], r.Scores[1], status)
	}
	fmt.Printf("\nteam 1: %d  team 2: %d  unfinished: %d\n", sum.Wins[0], sum.Wins[1], sum.Unfinished)
}
