// Genome preview tool: tune a seed genome with sliders and watch a shoal
// built from it.
//
// Usage: go run ./cmd/genomepreview
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
)

const panelWidth = 320

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "RNG seed for every restart")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Evolution.Enabled = false

	genes := defaultGenes(cfg)
	g := newPreview(cfg, genes, *seed)

	worldW, worldH := int32(cfg.Window.Width), int32(cfg.Window.Height)
	rl.InitWindow(worldW+panelWidth, worldH, "Genome Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))

	scene := renderer.NewScene()
	scene.ShowEffects = false
	paused := false

	for !rl.WindowShouldClose() {
		if !paused && !g.Done() {
			g.Step()
		}
		snap := g.Snapshot()

		rl.BeginDrawing()
		scene.Draw(&snap)

		panelX := float32(worldW + 15)
		panelY := float32(10)
		rl.DrawRectangle(worldW, 0, panelWidth, worldH, rl.Color{R: 240, G: 240, B: 240, A: 255})

		rl.DrawText("Seed Genome", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for i, spec := range components.GeneSpecs {
			rl.DrawText(spec.Name, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 120, Height: 20},
				fmt.Sprintf("%.2g", spec.Min), fmt.Sprintf("%.2g", spec.Max),
				float32(genes[i]), float32(spec.Min), float32(spec.Max),
			)
			rl.DrawText(fmt.Sprintf("%.3f", genes[i]), int32(panelX+panelWidth-85), int32(panelY+2), 14, rl.DarkGray)
			if v != float32(genes[i]) {
				genes[i] = float64(v)
				changed = true
			}
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Restart") {
			changed = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Reset Genes") {
			genes = defaultGenes(cfg)
			changed = true
		}
		panelY += 50

		rl.DrawText(fmt.Sprintf("Fish: %d", len(snap.Fish)), int32(panelX), int32(panelY), 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Eaten: %d  Starved: %d", snap.Eaten, snap.Starved), int32(panelX), int32(panelY+20), 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1fs", snap.TimeSec), int32(panelX), int32(panelY+40), 16, rl.DarkGray)

		rl.EndDrawing()

		if changed {
			g = newPreview(cfg, genes, *seed)
		}
	}
}

// defaultGenes returns the configured seed genome or the middle of each
// gene's initial range.
func defaultGenes(cfg *config.Config) []float64 {
	genes := make([]float64, components.NumGenes)
	for i, spec := range components.GeneSpecs {
		genes[i] = (spec.InitMin + spec.InitMax) / 2
		if len(cfg.Population.SeedGenome) == components.NumGenes {
			genes[i] = cfg.Population.SeedGenome[i]
		}
	}
	return genes
}

func newPreview(base *config.Config, genes []float64, seed int64) *game.Game {
	cfg := *base
	cfg.Population.SeedGenome = append([]float64(nil), genes...)
	g, err := game.NewGame(&cfg, game.Options{Seed: seed})
	if err != nil {
		log.Fatalf("failed to start preview: %v", err)
	}
	return g
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
