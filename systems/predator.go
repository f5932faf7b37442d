package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// predatorSearchLimit is the initial nearest-distance bound; fish farther
// away are never pursued.
const predatorSearchLimit = 10000

// edgeNudge is added to a reflected predator velocity component.
const edgeNudge = 0.01

// PredatorSystem runs the predator's chase and capture behavior.
type PredatorSystem struct {
	cfg     *config.Config
	posMap  *ecs.Map[components.Position]
	velMap  *ecs.Map[components.Velocity]
	predMap *ecs.Map[components.Predator]
	buf     []Ref
}

// NewPredatorSystem creates a predator system for the given world.
func NewPredatorSystem(w *ecs.World, cfg *config.Config) *PredatorSystem {
	return &PredatorSystem{
		cfg:     cfg,
		posMap:  ecs.NewMap[components.Position](w),
		velMap:  ecs.NewMap[components.Velocity](w),
		predMap: ecs.NewMap[components.Predator](w),
		buf:     make([]Ref, 0, 128),
	}
}

// Update advances the predator by a tick. When a fish is within strike
// distance it is removed from the grid and returned, and the predator does
// not move this tick.
func (s *PredatorSystem) Update(e ecs.Entity, grid *SpatialGrid) (ecs.Entity, bool) {
	pc := &s.cfg.Predator
	pos := s.posMap.Get(e)
	vel := s.velMap.Get(e)
	pred := s.predMap.Get(e)

	target, dist, found := s.nearest(e, pos, grid)
	pred.Target, pred.HasTarget = target.E, found

	if found {
		if dist < pc.StrikeDistance {
			grid.RemoveEverywhere(target)
			pred.HasTarget = false
			return target.E, true
		}
		tp := s.posMap.Get(target.E)
		dx, dy := tp.X-pos.X, tp.Y-pos.Y
		if mag := math.Hypot(dx, dy); mag > 0 {
			dx /= mag
			dy /= mag
		}
		vel.X += pc.Pursuit * dx
		vel.Y += pc.Pursuit * dy
	}

	width, height := s.cfg.Derived.Width, s.cfg.Derived.Height
	if pos.X < pc.EdgeMargin || pos.X > width-pc.EdgeMargin {
		vel.X = -vel.X + edgeNudge
	}
	if pos.Y < pc.EdgeMargin || pos.Y > height-pc.EdgeMargin {
		vel.Y = -vel.Y + edgeNudge
	}

	limitPredatorSpeed(vel, pc.MinSpeed, pc.MaxSpeed)

	self := Ref{E: e, Kind: components.KindPredator}
	grid.Remove(self, pos.X, pos.Y)
	pos.X = clamp(pos.X+vel.X, pc.Padding, width-pc.Padding)
	pos.Y = clamp(pos.Y+vel.Y, pc.Padding, height-pc.Padding)
	grid.Insert(self, pos.X, pos.Y)

	return ecs.Entity{}, false
}

// nearest finds the closest fish in the predator's vision box.
func (s *PredatorSystem) nearest(e ecs.Entity, pos *components.Position, grid *SpatialGrid) (Ref, float64, bool) {
	s.buf = grid.NeighborsInto(s.buf[:0], pos.X, pos.Y, s.cfg.Predator.Vision)

	var best Ref
	bestDist := float64(predatorSearchLimit)
	found := false
	for _, ref := range s.buf {
		if ref.E == e || ref.Kind != components.KindFish {
			continue
		}
		fp := s.posMap.Get(ref.E)
		if d := distance(pos.X, pos.Y, fp.X, fp.Y); d < bestDist {
			bestDist = d
			best = ref
			found = true
		}
	}
	return best, bestDist, found
}

// limitPredatorSpeed scales vel into [vMin, vMax], leaving a zero velocity unchanged.
func limitPredatorSpeed(vel *components.Velocity, vMin, vMax float64) {
	speed := math.Hypot(vel.X, vel.Y)
	if speed > vMax {
		vel.X = vel.X / speed * vMax
		vel.Y = vel.Y / speed * vMax
	} else if speed < vMin && speed != 0 {
		vel.X = vel.X / speed * vMin
		vel.Y = vel.Y / speed * vMin
	}
}
