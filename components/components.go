// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind distinguishes the entity types stored in the spatial grid.
type Kind uint8

const (
	KindFish Kind = iota
	KindPredator
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFish:
		return "fish"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Position represents an entity's position in window coordinates.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// Color is an RGB body colour.
type Color struct {
	R, G, B uint8
}

// Fish holds per-fish state other than position, velocity and genome.
type Fish struct {
	ID         uint32
	Hunger     int
	Age        int32 // ticks alive
	ReproTimer int
	BirthTick  int32
	Color      Color

	// Life-stage flags set by the orchestrator. Juvenile lasts one tick,
	// Elder is never cleared.
	Elder    bool
	Juvenile bool
}

// Predator holds predator state.
type Predator struct {
	Size      float64
	Target    ecs.Entity // last pursued entity, re-resolved every tick
	HasTarget bool
}
