package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"farmshare-backend/internal/app"
	"farmshare-backend/internal/config"
	"farmshare-backend/internal/legacy"
	"farmshare-backend/internal/logger"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	file := flag.String("file", "", "Browser storage export to import (JSON with equipment, rentals and users)")
	dryRun := flag.Bool("dry-run", false, "Decode and validate the file without writing anything")
	flag.Parse()

	if *file == "" {
		log.Fatalf("-file is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	snap, err := legacy.Decode(f, time.Now().UTC())
	if err != nil {
		logger.Error("Snapshot rejected", "file", *file, "error", err)
		log.Fatalf("Failed to decode %s: %v", *file, err)
	}
	logger.Info("Snapshot decoded", "users", len(snap.Users), "equipment", len(snap.Equipment), "rentals", len(snap.Rentals))
	if *dryRun {
		return
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	res, err := legacy.Import(ctx, a.Store, snap)
	if err != nil {
		logger.Error("Import failed", "error", err)
		a.Close()
		log.Fatalf("Import failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}
