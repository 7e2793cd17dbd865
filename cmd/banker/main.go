// Command banker runs the Florin medieval banking game server.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/florin/internal/api"
	"github.com/talgya/florin/internal/chronicle"
	"github.com/talgya/florin/internal/config"
	"github.com/talgya/florin/internal/engine"
	"github.com/talgya/florin/internal/entropy"
	"github.com/talgya/florin/internal/llm"
	"github.com/talgya/florin/internal/realm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Florin — Medieval Banking House")

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	realmCfg, err := config.LoadRealm(env.RealmPath)
	if err != nil {
		slog.Error("failed to load realm config", "error", err)
		os.Exit(1)
	}
	slog.Info("realm loaded",
		"kingdoms", len(realmCfg.Kingdoms),
		"rival_houses", len(realmCfg.RivalHouses),
	)

	registry, err := realm.NewRegistry(realmCfg.Kingdoms)
	if err != nil {
		slog.Error("failed to build kingdom registry", "error", err)
		os.Exit(1)
	}

	seed := env.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	atlas := realm.BuildAtlas(registry, seed)
	slog.Info("atlas generated", "seed", seed, "tiles", len(atlas.Tiles))

	// ── Entropy ──────────────────────────────────────────────────────
	var rng entropy.Source
	if env.RandomOrgKey != "" {
		rng = entropy.NewOracle(env.RandomOrgKey)
		slog.Info("entropy source: random.org oracle")
	} else {
		rng = entropy.NewRand(seed)
		slog.Info("entropy source: seeded PRNG", "seed", seed)
	}

	// ── Chronicle ────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := chronicle.Open(env.DBPath)
	if err != nil {
		slog.Error("failed to open chronicle", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("chronicle opened", "path", env.DBPath)

	// ── LLM ──────────────────────────────────────────────────────────
	llmClient := llm.NewClient(env.AnthropicKey)
	if llmClient != nil {
		slog.Info("LLM client enabled (Haiku)")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — war narration will use stock prose")
	}
	narrator := &llm.WarNarrator{Client: llmClient, RNG: rng}

	// ── Game ─────────────────────────────────────────────────────────
	game := engine.New(realmCfg, registry, rng, db, narrator)

	apiServer := &api.Server{
		Game:  game,
		Atlas: atlas,
		DB:    db,
		Port:  env.Port,
	}
	apiServer.Start()

	fmt.Printf("\nThe banking house is open: %d kingdoms, %d rival houses.\n",
		len(realmCfg.Kingdoms), len(realmCfg.RivalHouses))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", env.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
