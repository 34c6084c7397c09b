// Command atmogeom builds the layered atmosphere geometry for each simulation
// worker: it loads and validates the configuration, constructs the model
// (layers, materials, field, detectors), exports the geometry once, and opens
// a per-worker hit database for the transport engine to write into.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/atmoslab/atmogeom/internal/atmosphere"
	"github.com/atmoslab/atmogeom/internal/config"
	"github.com/atmoslab/atmogeom/internal/geometry"
	"github.com/atmoslab/atmogeom/internal/hitdb"
	"github.com/atmoslab/atmogeom/internal/report"
)

var (
	configPath = flag.String("config", "", "Path to the simulation config JSON")
	reportPath = flag.String("report", "", "Optional path for an HTML model report")
)

func main() {
	flag.Parse()

	if *configPath == "" {
		log.Fatal("config path is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
		log.Fatalf("failed to create save dir: %v", err)
	}

	// Workers are independent processes in production; here each one rebuilds
	// its geometry from scratch from the same immutable configuration, so a
	// restarted worker never reuses partial construction.
	for worker := 1; worker <= cfg.NumWorkers; worker++ {
		seed := cfg.RandomSeed + int64(worker)
		log.Printf("worker %d/%d: building geometry (seed %d)", worker, cfg.NumWorkers, seed)

		model, err := atmosphere.Build(cfg, nil)
		if err != nil {
			log.Fatalf("worker %d: failed to build model: %v", worker, err)
		}

		if worker == 1 {
			if cfg.Constructor.ExportGeometry {
				out := filepath.Join(cfg.SaveDir, "geometry.json")
				if err := geometry.WriteFile(out, model.Topology, model.Layers, model.Offset); err != nil {
					log.Fatalf("failed to export geometry: %v", err)
				}
				log.Printf("exported the geometry to %s", out)
			}
			if *reportPath != "" {
				if err := report.WriteFile(*reportPath, model); err != nil {
					log.Fatalf("failed to write report: %v", err)
				}
				log.Printf("wrote model report to %s", *reportPath)
			}
		}

		db, err := hitdb.Open(filepath.Join(cfg.SaveDir, fmt.Sprintf("hits_%d.db", worker)))
		if err != nil {
			log.Fatalf("worker %d: failed to open hit database: %v", worker, err)
		}
		runID, err := db.BeginRun(worker, seed)
		if err != nil {
			db.Close()
			log.Fatalf("worker %d: failed to begin run: %v", worker, err)
		}
		log.Printf("worker %d: run %s ready (%d layers, %d detectors, %d omitted)",
			worker, runID, len(model.Layers), len(model.Detectors), len(model.Omitted))

		// The transport engine consumes the model and writes hits here. Its
		// invocation lives outside this tool.
		db.Close()
	}
}
