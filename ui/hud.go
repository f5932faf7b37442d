package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
)

// HUDData holds everything the heads-up display shows.
type HUDData struct {
	Snapshot     *game.Snapshot
	Run          int
	Speed        int
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the stats panel and the key legend.
type HUD struct {
	renderer *Renderer
	panel    PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		panel:    hudPanel(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	h.renderer.DrawPanelDescriptor(h.panel, &data, data.ScreenWidth, data.ScreenHeight)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.DarkGray)
}

func snap(data any) *game.Snapshot {
	return data.(*HUDData).Snapshot
}

func hudPanel() PanelDescriptor {
	hasOldest := func(data any) bool { return len(snap(data).OldestGenes) == components.NumGenes }

	genes := make([]FieldDescriptor, 0, components.NumGenes)
	for i, spec := range components.GeneSpecs {
		genes = append(genes, FieldDescriptor{
			ID:     "gene_" + spec.Name,
			Label:  spec.Name,
			Widget: WidgetBar,
			Format: "%.3f",
			Range:  FieldRange{Min: float32(spec.Min), Max: float32(spec.Max)},
			Getter: func(data any) float32 { return float32(snap(data).OldestGenes[i]) },
		})
	}

	return PanelDescriptor{
		ID:     "hud",
		Title:  "Shoal",
		Width:  260,
		Anchor: AnchorTopLeft,
		Sections: []SectionDescriptor{
			{
				ID:    "population",
				Title: "Population",
				Fields: []FieldDescriptor{
					{ID: "fish", Label: "Fish", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%d", len(snap(data).Fish))
					}},
					{ID: "eaten", Label: "Eaten", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%d", snap(data).Eaten)
					}},
					{ID: "starved", Label: "Starved", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%d", snap(data).Starved)
					}},
					{ID: "born", Label: "Born", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%d", snap(data).Born)
					}},
				},
			},
			{
				ID:      "oldest",
				Title:   "Oldest fish",
				Visible: hasOldest,
				Fields: append([]FieldDescriptor{
					{ID: "oldest_age", Label: "Age", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%.1fs", snap(data).OldestAgeSec)
					}},
					{ID: "generations", Label: "Generation", Widget: WidgetText, TextGetter: func(data any) string {
						s := snap(data)
						return fmt.Sprintf("%d .. %d", s.OldestGeneration, s.YoungestGeneration)
					}},
				}, genes...),
			},
			{
				ID:    "run",
				Title: "Run",
				Fields: []FieldDescriptor{
					{ID: "time", Label: "Time", Widget: WidgetText, TextGetter: func(data any) string {
						s := snap(data)
						return fmt.Sprintf("%.1fs (tick %d)", s.TimeSec, s.Tick)
					}},
					{ID: "speed", Label: "Speed", Widget: WidgetText, TextGetter: func(data any) string {
						d := data.(*HUDData)
						if d.Paused {
							return "paused"
						}
						return fmt.Sprintf("%dx", d.Speed)
					}},
					{ID: "fps", Label: "FPS", Widget: WidgetText, TextGetter: func(data any) string {
						return fmt.Sprintf("%d", data.(*HUDData).FPS)
					}},
					{ID: "run_id", Label: "Run", Widget: WidgetText, TextGetter: func(data any) string {
						d := data.(*HUDData)
						id := d.Snapshot.RunID
						if len(id) > 8 {
							id = id[:8]
						}
						return fmt.Sprintf("#%d %s", d.Run, id)
					}},
				},
			},
		},
	}
}
