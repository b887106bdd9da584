package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gridbridge/internal/adapter"
	"gridbridge/internal/codec"
	"gridbridge/internal/config"
	"gridbridge/internal/domain"
	"gridbridge/internal/repository/sqlite"
	"gridbridge/internal/service"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	inputPath := flag.String("input", "", "exploration JSON file (required)")
	designPath := flag.String("design", "", "grid design YAML file (required)")
	demand := flag.Float64("demand", 0, "yearly demand in kWh (required)")
	cluster := flag.String("cluster", "default", "cluster name for run bookkeeping")
	outPath := flag.String("out", "", "write the merged exploration JSON here (default: stdout)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if *inputPath == "" || *designPath == "" || *demand <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, from, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if from != "" {
		log.Printf("Config loaded from %s", from)
	}

	exploration, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read exploration: %v", err)
	}

	design, err := loadDesign(*designPath)
	if err != nil {
		log.Fatalf("Failed to load grid design: %v", err)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	client := adapter.New(adapter.Config{
		BaseURL:      cfg.Planner.URL,
		PollInterval: cfg.Planner.PollInterval.Duration(),
	})
	planner := service.New(store, client, cfg.Runs.MaxConcurrent)

	ctx := context.Background()
	if timeout := cfg.Planner.RequestTimeout.Duration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	outcome, err := planner.Optimize(ctx, service.Request{
		Cluster:      *cluster,
		Exploration:  exploration,
		Design:       *design,
		YearlyDemand: *demand,
	})
	if err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}
	log.Printf("Optimization finished in %s (run %s)", time.Since(start).Round(time.Millisecond), outcome.Run.ID)

	if err := writeOutcome(outcome, *outPath); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func loadDesign(path string) (*domain.GridDesign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var design domain.GridDesign
	if err := yaml.Unmarshal(data, &design); err != nil {
		return nil, fmt.Errorf("parse design: %w", err)
	}
	if err := design.Validate(); err != nil {
		return nil, err
	}
	return &design, nil
}

func writeOutcome(outcome *service.Outcome, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := encodeOutcome(outcome, out); err != nil {
		return err
	}
	if outPath != "" {
		log.Printf("Merged graph written to %s", outPath)
	}
	return nil
}

// encodeOutcome writes the merged exploration and the cost summary as a
// single JSON document.
func encodeOutcome(outcome *service.Outcome, out io.Writer) error {
	var grid bytes.Buffer
	if err := codec.EncodeExploration(outcome.Grid, &grid); err != nil {
		return err
	}
	summary, err := json.Marshal(outcome.Summary)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Grid    json.RawMessage `json:"grid"`
		Summary json.RawMessage `json:"summary"`
	}{
		Grid:    grid.Bytes(),
		Summary: summary,
	})
}
