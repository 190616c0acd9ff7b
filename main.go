package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/frontend"
	"github.com/pthm-cable/velamare/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	assetsDir := flag.String("assets-dir", "", "Model directory (empty = use config)")
	staticAssets := flag.Bool("static-assets", false, "Headless only: resolve every model without reading files")
	assetTimeout := flag.Duration("asset-timeout", 10*time.Second, "Headless only: how long to wait for models before starting")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	if *headless {
		// Headless mode - autopilot drives the vessel, no raylib needed
		if *staticAssets {
			opts.Loader = &assets.StaticLoader{}
		}
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to create scene", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		ctx, cancel := context.WithTimeout(context.Background(), *assetTimeout)
		if err := g.WaitForAssets(ctx); err != nil {
			slog.Warn("starting before every model loaded", "pending", g.PendingLoads(), "error", err)
		}
		cancel()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"stats_window", *statsWindow,
			"max_ticks", *maxTicks,
			"agents", g.Marine().AgentCount(),
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "VelaMare")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	app, err := frontend.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		return
	}
	defer app.Unload()

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()

		if *maxTicks > 0 && int(app.Game().Tick()) >= *maxTicks {
			break
		}
	}
}
