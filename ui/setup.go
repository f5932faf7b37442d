package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/config"
)

const (
	setupWidth  = 420
	setupHeight = 300
)

// SetupPanel edits Settings before a run starts.
type SetupPanel struct {
	renderer *Renderer
	Settings config.Settings
}

// NewSetupPanel creates a panel starting from s.
func NewSetupPanel(s config.Settings) *SetupPanel {
	return &SetupPanel{renderer: NewRenderer(), Settings: s.Clamp()}
}

// Run draws the panel until Start is pressed or the window closes. It
// reports false when the window was closed. The window must already be open.
func (p *SetupPanel) Run() (config.Settings, bool) {
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 153, G: 238, B: 255, A: 255})
		start := p.Draw(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		rl.EndDrawing()
		if start {
			return p.Settings, true
		}
	}
	return p.Settings, false
}

// Draw renders one frame of the panel and reports whether Start was pressed.
func (p *SetupPanel) Draw(screenW, screenH int32) bool {
	x := float32(screenW-setupWidth) / 2
	y := float32(screenH-setupHeight) / 2
	p.renderer.DrawPanel(int32(x), int32(y), setupWidth, setupHeight)

	panelX := x + 20
	panelY := y + 15
	rl.DrawText("Simulation Setup", int32(panelX), int32(panelY), 20, rl.White)
	panelY += 35

	s := &p.Settings

	s.Fish = p.intSlider(&panelY, panelX, "Fish", s.Fish, config.MinSetupFish, config.MaxSetupFish)
	s.CellSize = float64(p.intSlider(&panelY, panelX, "Cell size", int(s.CellSize), config.MinSetupCellSize, config.MaxSetupCellSize))
	s.Runs = p.intSlider(&panelY, panelX, "Runs", s.Runs, config.MinSetupRuns, config.MaxSetupRuns)

	panelY += 5
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 180, Height: 30}, toggleText(s.Evolution, "Evolution: On", "Evolution: Off")) {
		s.Evolution = !s.Evolution
	}
	if gui.Button(rl.Rectangle{X: panelX + 190, Y: panelY, Width: 180, Height: 30}, toggleText(s.Stochastic, "Stochastic: On", "Stochastic: Off")) {
		s.Stochastic = !s.Stochastic
	}
	panelY += 50

	return gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 370, Height: 36}, "Start")
}

func (p *SetupPanel) intSlider(panelY *float32, panelX float32, label string, value, lo, hi int) int {
	rl.DrawText(label, int32(panelX), int32(*panelY), 14, p.renderer.Theme.LabelColor)
	*panelY += 18
	v := gui.SliderBar(
		rl.Rectangle{X: panelX + 30, Y: *panelY, Width: 280, Height: 20},
		fmt.Sprint(lo), fmt.Sprint(hi),
		float32(value), float32(lo), float32(hi),
	)
	value = int(math.Round(float64(v)))
	rl.DrawText(fmt.Sprintf("%d", value), int32(panelX+345), int32(*panelY+2), 16, p.renderer.Theme.ValueColor)
	*panelY += 35
	return value
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
