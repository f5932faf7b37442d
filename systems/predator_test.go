package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

func TestPredatorCaptures(t *testing.T) {
	fx := newFixture(t)
	sys := NewPredatorSystem(fx.world, fx.cfg)
	posMap := ecs.NewMap[components.Position](fx.world)

	pred := fx.addPredator(300, 300, 1.5, 0)
	fish := fx.addFish(310, 300, testGenome(0.5), 1900)

	victim, ok := sys.Update(pred, fx.grid)
	if !ok || victim != fish {
		t.Fatalf("Update() = %v, %v; want capture of %v", victim, ok, fish)
	}
	if fx.grid.Len() != 1 {
		t.Errorf("grid holds %d entries after capture, want predator only", fx.grid.Len())
	}
	if pos := posMap.Get(pred); pos.X != 300 || pos.Y != 300 {
		t.Errorf("predator moved during capture tick to (%v, %v)", pos.X, pos.Y)
	}
}

func TestPredatorPursues(t *testing.T) {
	fx := newFixture(t)
	sys := NewPredatorSystem(fx.world, fx.cfg)
	posMap := ecs.NewMap[components.Position](fx.world)
	velMap := ecs.NewMap[components.Velocity](fx.world)
	predMap := ecs.NewMap[components.Predator](fx.world)

	pred := fx.addPredator(300, 300, 0, 0)
	near := fx.addFish(400, 300, testGenome(0.5), 1900)
	fx.addFish(300, 460, testGenome(0.5), 1900) // farther

	if _, ok := sys.Update(pred, fx.grid); ok {
		t.Fatal("unexpected capture")
	}

	p := predMap.Get(pred)
	if !p.HasTarget || p.Target != near {
		t.Errorf("target = %v (has=%v), want nearest fish", p.Target, p.HasTarget)
	}
	vel := velMap.Get(pred)
	if math.Abs(vel.X-fx.cfg.Predator.MinSpeed) > 1e-9 || vel.Y != 0 {
		t.Errorf("velocity = (%v, %v), want (%v, 0)", vel.X, vel.Y, fx.cfg.Predator.MinSpeed)
	}
	pos := posMap.Get(pred)
	if math.Abs(pos.X-301.2) > 1e-9 {
		t.Errorf("x = %v, want 301.2", pos.X)
	}
	if !fx.gridHolds(pred, components.KindPredator, pos.X, pos.Y) || fx.grid.Len() != 3 {
		t.Error("predator not relocated in grid")
	}
}

func TestPredatorIgnoresFishOutOfSight(t *testing.T) {
	fx := newFixture(t)
	sys := NewPredatorSystem(fx.world, fx.cfg)
	predMap := ecs.NewMap[components.Predator](fx.world)

	pred := fx.addPredator(300, 300, 1.5, 0)
	fx.addFish(300+15*14, 300, testGenome(0.5), 1900) // 14 cells away, vision is 12

	sys.Update(pred, fx.grid)
	if predMap.Get(pred).HasTarget {
		t.Error("predator targeted a fish outside its vision box")
	}
}

func TestPredatorSpeedAndBounds(t *testing.T) {
	fx := newFixture(t)
	sys := NewPredatorSystem(fx.world, fx.cfg)
	posMap := ecs.NewMap[components.Position](fx.world)
	velMap := ecs.NewMap[components.Velocity](fx.world)
	pc := fx.cfg.Predator

	pred := fx.addPredator(pc.StartX, pc.StartY, pc.StartVX, pc.StartVY)

	for tick := 0; tick < 2000; tick++ {
		sys.Update(pred, fx.grid)

		vel := velMap.Get(pred)
		speed := math.Hypot(vel.X, vel.Y)
		if speed < pc.MinSpeed-1e-9 || speed > pc.MaxSpeed+1e-9 {
			t.Fatalf("tick %d: speed %v outside [%v, %v]", tick, speed, pc.MinSpeed, pc.MaxSpeed)
		}
		pos := posMap.Get(pred)
		if pos.X < pc.Padding || pos.X > fx.cfg.Derived.Width-pc.Padding ||
			pos.Y < pc.Padding || pos.Y > fx.cfg.Derived.Height-pc.Padding {
			t.Fatalf("tick %d: position (%v, %v) out of bounds", tick, pos.X, pos.Y)
		}
		if fx.grid.Len() != 1 {
			t.Fatalf("tick %d: grid holds %d entries", tick, fx.grid.Len())
		}
	}
}

func TestPredatorReflectsAtEdge(t *testing.T) {
	fx := newFixture(t)
	sys := NewPredatorSystem(fx.world, fx.cfg)
	posMap := ecs.NewMap[components.Position](fx.world)
	velMap := ecs.NewMap[components.Velocity](fx.world)

	pred := fx.addPredator(5, 350, -1.5, 0)
	sys.Update(pred, fx.grid)

	if vel := velMap.Get(pred); math.Abs(vel.X-1.51) > 1e-9 {
		t.Errorf("vel.X = %v, want 1.51", vel.X)
	}
	if pos := posMap.Get(pred); pos.X != fx.cfg.Predator.Padding {
		t.Errorf("x = %v, want clamped to %v", pos.X, fx.cfg.Predator.Padding)
	}
}

func TestLimitPredatorSpeedKeepsZero(t *testing.T) {
	v := components.Velocity{}
	limitPredatorSpeed(&v, 1.2, 1.82)
	if v.X != 0 || v.Y != 0 {
		t.Errorf("zero velocity changed to (%v, %v)", v.X, v.Y)
	}
}
