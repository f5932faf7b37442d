package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/stream"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

const maxSpeed = 64

// runOptions are the command line settings shared by every run.
type runOptions struct {
	seed      int64
	runs      int
	maxTicks  int
	outputDir string
	logStats  bool
	serve     string
}

// gameOptions returns the options of run i. Runs after the first use
// consecutive seeds and, with several runs, their own output subdirectory.
func (o runOptions) gameOptions(i int) game.Options {
	dir := o.outputDir
	if dir != "" && o.runs > 1 {
		dir = filepath.Join(dir, fmt.Sprintf("run-%d", i+1))
	}
	return game.Options{
		Seed:      o.seed + int64(i),
		LogStats:  o.logStats,
		OutputDir: dir,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats and perf via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, summary and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until extinction)")
	runs := flag.Int("runs", 1, "Number of independent runs")
	serve := flag.String("serve", "", "Stream snapshots to websocket clients on this address, e.g. :8080")
	setup := flag.Bool("setup", false, "Show the setup panel before starting (graphical mode only)")
	debug := flag.Bool("debug", false, "Log births and deaths")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := runOptions{
		seed:      rngSeed,
		runs:      max(*runs, 1),
		maxTicks:  *maxTicks,
		outputDir: *outputDir,
		logStats:  *logStats,
		serve:     *serve,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *headless {
		err = runHeadless(ctx, cfg, opts)
	} else {
		err = runGraphical(ctx, cfg, opts, *setup)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs every requested run in parallel. Only the first run is
// streamed when -serve is set.
func runHeadless(ctx context.Context, cfg *config.Config, opts runOptions) error {
	publish, shutdown := startStream(ctx, cfg, opts.serve)
	defer shutdown()

	slog.Info("starting headless simulation",
		"seed", opts.seed,
		"runs", opts.runs,
		"max_ticks", opts.maxTicks,
	)

	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.runs; i++ {
		var ch chan<- game.Snapshot
		if i == 0 {
			ch = publish
		}
		eg.Go(func() error {
			return headlessRun(ctx, cfg, opts.gameOptions(i), opts.maxTicks, ch)
		})
	}
	return eg.Wait()
}

// headlessRun steps one game until extinction, the tick limit or
// cancellation, then writes its output.
func headlessRun(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int, publish chan<- game.Snapshot) (err error) {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, g.Close()) }()

	for !g.Done() && (maxTicks == 0 || int(g.Tick()) < maxTicks) {
		if ctx.Err() != nil {
			slog.Info("run interrupted", "run_id", g.RunID(), "tick", g.Tick())
			break
		}
		g.Step()
		if publish != nil {
			stream.Publish(publish, g.Snapshot())
		}
	}

	logSummary(g.Summary())
	return nil
}

// runGraphical shows the first run in a window. Further runs step headless
// in the background and stop when the window closes.
func runGraphical(ctx context.Context, cfg *config.Config, opts runOptions, setup bool) error {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "Shoal")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))

	if setup {
		s, ok := ui.NewSetupPanel(config.SettingsFrom(cfg, opts.runs)).Run()
		if !ok {
			return nil
		}
		if err := s.Apply(cfg); err != nil {
			return err
		}
		opts.runs = s.Runs
	}

	history := ui.NewHistoryPanel()
	gameOpts := opts.gameOptions(0)
	gameOpts.StatsCallback = history.Record
	g, err := game.NewGame(cfg, gameOpts)
	if err != nil {
		return err
	}

	bgCtx, cancel := context.WithCancel(ctx)
	eg, bgCtx := errgroup.WithContext(bgCtx)
	for i := 1; i < opts.runs; i++ {
		eg.Go(func() error {
			return headlessRun(bgCtx, cfg, opts.gameOptions(i), opts.maxTicks, nil)
		})
	}

	publish, shutdown := startStream(ctx, cfg, opts.serve)
	defer shutdown()

	err = displayLoop(ctx, g, opts, history, publish)
	logSummary(g.Summary())
	err = errors.Join(err, g.Close())

	cancel()
	return errors.Join(err, eg.Wait())
}

func displayLoop(ctx context.Context, g *game.Game, opts runOptions, history *ui.HistoryPanel, publish chan<- game.Snapshot) error {
	scene := renderer.NewScene()
	hud := ui.NewHUD()
	overlays := ui.NewOverlayRegistry()
	controls := ui.NewControlsPanel(200)

	speed := 1
	paused := false
	var events []telemetry.Event

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		switch {
		case rl.IsKeyPressed(rl.KeySpace):
			paused = !paused
		case rl.IsKeyPressed(rl.KeyUp):
			speed = min(speed*2, maxSpeed)
		case rl.IsKeyPressed(rl.KeyDown):
			speed = max(speed/2, 1)
		case rl.IsKeyPressed(rl.KeyTab):
			controls.Toggle()
		}
		overlays.HandleKeys()
		screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		if overlays.IsEnabled(ui.OverlayHistory) {
			history.HandleInput(screenW, screenH)
		}

		events = events[:0]
		if !paused {
			for i := 0; i < speed && !g.Done(); i++ {
				if opts.maxTicks > 0 && int(g.Tick()) >= opts.maxTicks {
					break
				}
				events = append(events, g.Step()...)
			}
		}

		snap := g.Snapshot()
		scene.ShowEffects = overlays.IsEnabled(ui.OverlayEffects)
		scene.Observe(&snap, events)
		if publish != nil {
			stream.Publish(publish, snap)
		}

		rl.BeginDrawing()
		scene.Draw(&snap)
		if overlays.IsEnabled(ui.OverlayGrid) {
			renderer.DrawGrid(&snap)
		}
		if overlays.IsEnabled(ui.OverlayFoodLabels) {
			renderer.DrawFoodLabels(&snap)
		}
		if overlays.IsEnabled(ui.OverlayHUD) {
			hud.Draw(ui.HUDData{
				Snapshot:     &snap,
				Run:          1,
				Speed:        speed,
				FPS:          rl.GetFPS(),
				Paused:       paused,
				ScreenWidth:  screenW,
				ScreenHeight: screenH,
			})
		}
		if overlays.IsEnabled(ui.OverlayHistory) {
			history.Draw(screenW, screenH)
		}
		controls.Draw(overlays, screenW)
		if g.Done() {
			text := "All fish are gone"
			w := rl.MeasureText(text, 30)
			rl.DrawText(text, (screenW-w)/2, screenH/2-15, 30, rl.DarkGray)
		}
		hud.DrawControls(screenH, "[Space] pause  [Up/Down] speed  [Tab] overlays  [H/E/P/G/F] toggle")
		rl.EndDrawing()
	}
	return nil
}

// startStream serves snapshots on addr. With an empty addr it returns a nil
// channel and a no-op shutdown.
func startStream(ctx context.Context, cfg *config.Config, addr string) (chan<- game.Snapshot, func()) {
	if addr == "" {
		return nil, func() {}
	}

	hub := stream.NewHub(stream.WorldConfig{
		Width:    cfg.Derived.Width,
		Height:   cfg.Derived.Height,
		CellSize: cfg.Grid.CellSize,
	})
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("streaming snapshots", "addr", addr, "path", "/ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream server failed", "error", err)
		}
	}()

	ch := make(chan game.Snapshot, 1)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx, ch)
		close(done)
	}()

	return ch, func() {
		close(ch)
		<-done
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("stream server shutdown", "error", err)
		}
	}
}

func logSummary(s telemetry.RunSummary) {
	slog.Info("run finished",
		"run_id", s.RunID,
		"seed", s.Seed,
		"end_tick", s.EndTick,
		"end_time_sec", s.EndTimeSec,
		"fish_remaining", s.Fish,
		"eaten", s.Eaten,
		"starved", s.Starved,
		"born", s.Born,
		"generations", s.Generations,
		"best_genotype", s.BestGenotype,
	)
}
