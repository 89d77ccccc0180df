package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jakecoffman/cp/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oliverbestmann/blueprint"
	"github.com/oliverbestmann/blueprint/descriptors"
	"github.com/oliverbestmann/blueprint/internal/config"
	"github.com/oliverbestmann/blueprint/internal/logging"
	"github.com/oliverbestmann/blueprint/physics"
)

func main() {
	configPath := flag.String("config", "", "path to a toml or yaml config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	defer func() { _ = log.Sync() }()

	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Profile.Path), profile.Quiet).Stop()
	}

	variants := buildVariants(cfg.Bench)

	// resolve everything up front. A resolved blueprint is only read
	// afterwards, which makes it safe to share between the worlds below.
	for _, variant := range variants {
		if _, err := variant.Resolve(); err != nil {
			return fmt.Errorf("resolve %s: %w", variant, err)
		}
	}

	engine := blueprint.NewEngine(blueprint.WithLogger(log.Named("engine")))

	startTime := time.Now()

	var g errgroup.Group

	for worldIdx := range cfg.Bench.Worlds {
		g.Go(func() error {
			return populateWorld(log, engine, cfg, variants, worldIdx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats := engine.Stats()

	log.Info("Benchmark finished",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Int("constructed", stats.Constructed),
		zap.Int("failed", stats.Failed),
		zap.Duration("constructAvg", stats.Construct.MovingAverage),
		zap.Duration("constructMax", stats.Construct.Max),
	)

	return nil
}

// buildVariants creates a root blueprint and a chain of derived blueprints for each variant.
// The last blueprint of every chain is returned.
func buildVariants(cfg config.BenchConfig) []*blueprint.Blueprint {
	root := blueprint.New("creature",
		&descriptors.Named{Name: "creature"},
		&descriptors.Transform{},
		&descriptors.Motion{},
		&descriptors.Vitality{Max: 10},
		&descriptors.Tag{Key: "faction", Value: "neutral"},
		&descriptors.Tag{Key: "tier", Value: "0"},
		&physics.RigidBody{Mass: 1, Radius: 0.5, Friction: 0.7},
	)

	var variants []*blueprint.Blueprint

	for variantIdx := range cfg.Variants {
		current := root

		for level := 1; level <= cfg.Depth; level++ {
			name := fmt.Sprintf("creature-%d-%d", variantIdx, level)

			current = blueprint.Derive(name, current,
				&descriptors.Named{Name: name},
				&descriptors.Vitality{Max: 10 * (level + 1)},
				&descriptors.Tag{Key: "tier", Value: fmt.Sprint(level)},
				&descriptors.Motion{Linear: cp.Vector{X: float64(variantIdx)}},
			)
		}

		variants = append(variants, current)
	}

	return variants
}

func populateWorld(log *zap.Logger, engine *blueprint.Engine, cfg *config.Config, variants []*blueprint.Blueprint, worldIdx int) error {
	log = log.With(zap.Int("world", worldIdx))

	world := physics.NewWorld(
		cp.Vector{Y: cfg.Physics.Gravity},
		blueprint.WithWorldLogger(log),
	)

	rng := rand.New(rand.NewPCG(uint64(worldIdx), 0))

	for idx := range cfg.Bench.EntitiesPerWorld {
		variant := variants[idx%len(variants)]

		placement := descriptors.Placement{
			Position: cp.Vector{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
			Angle:    rng.Float64(),
		}

		if _, err := engine.ConstructNew(world, variant, placement); err != nil {
			return fmt.Errorf("world %d: %w", worldIdx, err)
		}
	}

	for range cfg.Physics.Steps {
		world.Step(cfg.Physics.StepDt)
	}

	log.Info("World populated",
		zap.Stringer("id", world.ContextId()),
		zap.Int("entities", world.EntityCount()),
		zap.Int("archetypes", len(world.Storage().Archetypes())),
	)

	return nil
}
