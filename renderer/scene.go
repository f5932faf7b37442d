// Package renderer draws simulation snapshots with raylib.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

var (
	waterColor        = rl.Color{R: 153, G: 238, B: 255, A: 255}
	activeFoodColor   = rl.Color{R: 0, G: 140, B: 0, A: 255}
	inactiveFoodColor = rl.Color{R: 140, G: 0, B: 0, A: 255}
	predatorColor     = rl.Color{R: 108, G: 119, B: 128, A: 255}
	gridColor         = rl.Color{R: 90, G: 180, B: 210, A: 110}
)

const foodDotRadius = 3

// Scene draws a snapshot: water, food patches, fish, the predator and
// event particles.
type Scene struct {
	effects     *Effects
	lastPos     map[uint32]systems.Vec2
	ShowEffects bool
}

// NewScene creates a scene renderer.
func NewScene() *Scene {
	return &Scene{
		effects:     NewEffects(),
		lastPos:     make(map[uint32]systems.Vec2),
		ShowEffects: true,
	}
}

// Observe turns the events of a step into particles. Deaths are placed at the
// fish's last drawn position, births at the child's new one.
func (s *Scene) Observe(snap *game.Snapshot, events []telemetry.Event) {
	for _, ev := range events {
		if ev.Type == telemetry.EventBorn {
			continue
		}
		if p, ok := s.lastPos[ev.FishID]; ok {
			s.effects.Burst(ev.Type, p.X, p.Y)
		}
	}

	clear(s.lastPos)
	for _, f := range snap.Fish {
		s.lastPos[f.ID] = systems.Vec2{X: f.X, Y: f.Y}
	}

	for _, ev := range events {
		if ev.Type != telemetry.EventBorn {
			continue
		}
		if p, ok := s.lastPos[ev.FishID]; ok {
			s.effects.Burst(ev.Type, p.X, p.Y)
		}
	}
	s.effects.Update()
}

// Draw renders the snapshot. Call between BeginDrawing and EndDrawing.
func (s *Scene) Draw(snap *game.Snapshot) {
	rl.ClearBackground(waterColor)

	for _, f := range snap.Food {
		drawFood(f)
	}
	for i := range snap.Fish {
		f := &snap.Fish[i]
		fillPolygon(f.Outline, systems.FishTriangles, fishColor(f.Color))
	}

	p := snap.Predator
	fillPolygon(p.Outline, systems.PredatorTriangles, predatorColor)
	strokePolygon(p.Outline, rl.Black)

	if s.ShowEffects {
		s.effects.Draw()
	}
}

// DrawGrid outlines the spatial grid cells.
func DrawGrid(snap *game.Snapshot) {
	cs := float32(snap.CellSize)
	if cs <= 0 {
		return
	}
	w, h := float32(snap.Width), float32(snap.Height)
	for x := cs; x < w; x += cs {
		rl.DrawLineV(rl.Vector2{X: x, Y: 0}, rl.Vector2{X: x, Y: h}, gridColor)
	}
	for y := cs; y < h; y += cs {
		rl.DrawLineV(rl.Vector2{X: 0, Y: y}, rl.Vector2{X: w, Y: y}, gridColor)
	}
}

// DrawFoodLabels prints each food point's remaining capacity.
func DrawFoodLabels(snap *game.Snapshot) {
	for _, f := range snap.Food {
		text := fmt.Sprintf("%d", f.Capacity)
		x := int32(f.X+f.Side/2) + 2
		y := int32(f.Y-f.Side/2) - 12
		rl.DrawText(text, x, y, 10, rl.Black)
	}
}

func drawFood(f game.FoodView) {
	color := activeFoodColor
	if !f.Active {
		color = inactiveFoodColor
	}
	side := float32(f.Side)
	rl.DrawRectangleV(
		rl.Vector2{X: float32(f.X) - side/2, Y: float32(f.Y) - side/2},
		rl.Vector2{X: side, Y: side},
		color,
	)
	rl.DrawCircleV(toVector(systems.Vec2{X: f.X, Y: f.Y}), foodDotRadius, rl.Black)
}

func fishColor(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// fillPolygon draws each triangle of an outline. raylib culls clockwise
// triangles, so each one is put in screen counter-clockwise order first.
func fillPolygon(pts []systems.Vec2, tris []systems.Triangle, color rl.Color) {
	for _, t := range tris {
		if t[0] >= len(pts) || t[1] >= len(pts) || t[2] >= len(pts) {
			continue
		}
		a, b, c := toVector(pts[t[0]]), toVector(pts[t[1]]), toVector(pts[t[2]])
		if cross(a, b, c) > 0 {
			b, c = c, b
		}
		rl.DrawTriangle(a, b, c, color)
	}
}

func strokePolygon(pts []systems.Vec2, color rl.Color) {
	for i := range pts {
		j := (i + 1) % len(pts)
		rl.DrawLineV(toVector(pts[i]), toVector(pts[j]), color)
	}
}

func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func toVector(p systems.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}
