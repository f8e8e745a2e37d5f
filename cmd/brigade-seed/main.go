// Command brigade-seed loads brigades from a YAML file into the document store.
//
// Usage:
//
//	brigade-seed -file brigades.yaml [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades"
	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/db"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"

	"gopkg.in/yaml.v3"
)

const seedActor = "seed"

type seedFile struct {
	Brigades []transport.CreateBrigadeRequest `yaml:"brigades"`
}

func main() {
	path := flag.String("file", "brigades.yaml", "YAML file with a top-level brigades list")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := readSeedFile(*path)
	if err != nil {
		log.Error("failed to read seed file", "file", *path, "error", err)
		os.Exit(1)
	}

	var store docstore.Store = docstore.NewMemoryStore()
	if !*dryRun && cfg.GetStoreDriver() == "postgres" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("failed to run database migrations", "error", err)
			os.Exit(1)
		}
		store = docstore.NewPostgresStore(pool)
	}

	module := brigades.NewModule(store, events.NewInMemoryBus(log), validator.New(), log, cfg)

	created, failed := 0, 0
	for i, req := range seed.Brigades {
		brigade, err := module.Service().Create(ctx, req, seedActor)
		if err != nil {
			failed++
			log.Error("brigade rejected", "index", i, "name", req.Name, "error", err)
			continue
		}
		created++
		log.Info("brigade seeded", "brigadeId", brigade.ID, "name", brigade.Name, "dryRun", *dryRun)
	}

	log.Info("seed complete", "created", created, "failed", failed, "dryRun", *dryRun)
	if failed > 0 {
		os.Exit(1)
	}
}

func readSeedFile(path string) (seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, err
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return seedFile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return seed, nil
}
