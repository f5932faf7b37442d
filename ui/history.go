package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

const historySize = 120

// Line series indices
const (
	seriesFish = iota
	seriesBirths
	seriesStarved
	seriesCaptured
	seriesMeals
	seriesLifespan
	numSeries
)

var (
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 230}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 60, B: 70, A: 255}
	colorTextDim     = rl.Color{R: 140, G: 140, B: 150, A: 255}
)

// HistoryPanel plots the last stats windows as line graphs.
type HistoryPanel struct {
	renderer *Renderer
	height   int32

	history      [numSeries][historySize]float64
	historyIndex int
	historyCount int

	seriesVisible [numSeries]bool
	seriesNames   [numSeries]string
	seriesColors  [numSeries]rl.Color
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel() *HistoryPanel {
	return &HistoryPanel{
		renderer:      NewRenderer(),
		height:        180,
		seriesVisible: [numSeries]bool{true, true, true, true, false, false},
		seriesNames:   [numSeries]string{"Fish", "Births", "Starved", "Captured", "Meals", "Lifespan"},
		seriesColors: [numSeries]rl.Color{
			{R: 100, G: 149, B: 237, A: 255},
			{R: 255, G: 150, B: 50, A: 255},
			{R: 160, G: 120, B: 60, A: 255},
			{R: 255, G: 90, B: 80, A: 255},
			{R: 80, G: 180, B: 80, A: 255},
			{R: 255, G: 255, B: 100, A: 255},
		},
	}
}

// Record adds one stats window. It is meant as a game StatsCallback.
func (p *HistoryPanel) Record(s telemetry.WindowStats) {
	idx := p.historyIndex
	p.history[seriesFish][idx] = float64(s.Fish)
	p.history[seriesBirths][idx] = float64(s.Births)
	p.history[seriesStarved][idx] = float64(s.Starved)
	p.history[seriesCaptured][idx] = float64(s.Captured)
	p.history[seriesMeals][idx] = float64(s.Meals)
	p.history[seriesLifespan][idx] = s.LifespanMean

	p.historyIndex = (p.historyIndex + 1) % historySize
	if p.historyCount < historySize {
		p.historyCount++
	}
}

func (p *HistoryPanel) value(series, i int) float64 {
	idx := (p.historyIndex - p.historyCount + i + historySize) % historySize
	return p.history[series][idx]
}

// HandleInput toggles series when their legend entry is clicked.
func (p *HistoryPanel) HandleInput(screenW, screenH int32) {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	mx, my := rl.GetMouseX(), rl.GetMouseY()
	_, panelY, _ := p.bounds(screenW, screenH)
	legendX := int32(20)
	legendY := panelY + p.height - 24
	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*88
		if mx >= itemX && mx < itemX+85 && my >= legendY && my < legendY+18 {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return
		}
	}
}

func (p *HistoryPanel) bounds(screenW, screenH int32) (x, y, w int32) {
	return 10, screenH - p.height - 30, screenW - 20
}

// Draw renders the panel along the bottom of the screen.
func (p *HistoryPanel) Draw(screenW, screenH int32) {
	x, y, w := p.bounds(screenW, screenH)
	p.renderer.DrawPanel(x, y, w, p.height)
	rl.DrawText("POPULATION", x+10, y+6, 14, rl.White)

	if p.historyCount == 0 {
		rl.DrawText("Waiting for the first stats window...", x+120, y+80, 14, colorTextDim)
		return
	}

	p.drawGraph(x+10, y+24, w-20, p.height-54)
	p.drawLegend(x+10, y+p.height-24)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		gridY := y + h*i/4
		rl.DrawLine(x, gridY, x+w, gridY, colorGraphGrid)
	}

	if p.historyCount < 2 {
		return
	}

	lo, hi := p.visibleRange()
	for s := 0; s < numSeries; s++ {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, s, lo, hi)
		}
	}
	rl.DrawText(fmt.Sprintf("%.0f", hi), x+2, y+2, 9, colorTextDim)
	rl.DrawText(fmt.Sprintf("%.0f", lo), x+2, y+h-10, 9, colorTextDim)
}

// visibleRange finds min/max across the visible series.
func (p *HistoryPanel) visibleRange() (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for s := 0; s < numSeries; s++ {
		if !p.seriesVisible[s] {
			continue
		}
		for i := 0; i < p.historyCount; i++ {
			v := p.value(s, i)
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo >= hi {
		return 0, max(hi, 1)
	}
	return min(lo, 0), hi * 1.1
}

func (p *HistoryPanel) drawSeriesLine(x, y, w, h int32, series int, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	var prevX, prevY int32
	for i := 0; i < p.historyCount; i++ {
		px := x + int32(float64(i)*float64(w)/float64(p.historyCount-1))
		py := y + h - int32((p.value(series, i)-lo)/span*float64(h))
		py = min(max(py, y), y+h)
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, p.seriesColors[series])
		}
		prevX, prevY = px, py
	}
}

func (p *HistoryPanel) drawLegend(x, y int32) {
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*88
		color, textColor := p.seriesColors[i], p.renderer.Theme.LabelColor
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = colorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(p.seriesNames[i], itemX+14, y, 11, textColor)
	}
	rl.DrawText("(click to toggle)", x+int32(numSeries)*88+10, y, 10, colorTextDim)
}
