package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

const (
	burstSize    = 6
	particleLife = 30
)

type particle struct {
	X, Y    float32
	VX, VY  float32
	Size    float32
	Life    int
	MaxLife int
	Kind    telemetry.EventType
}

// Effects holds short-lived particles marking births and deaths.
type Effects struct {
	particles []particle
	rng       *rand.Rand
}

// NewEffects creates an empty particle set.
func NewEffects() *Effects {
	return &Effects{rng: rand.New(rand.NewSource(1))}
}

// Burst emits particles of the event's kind at (x, y).
func (e *Effects) Burst(kind telemetry.EventType, x, y float64) {
	for i := 0; i < burstSize; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := 0.3 + e.rng.Float64()*0.7
		e.particles = append(e.particles, particle{
			X:       float32(x),
			Y:       float32(y),
			VX:      float32(math.Cos(angle) * speed),
			VY:      float32(math.Sin(angle) * speed),
			Size:    2 + e.rng.Float32()*2,
			Life:    particleLife,
			MaxLife: particleLife,
			Kind:    kind,
		})
	}
}

// Update advances every particle one frame and drops the expired ones.
func (e *Effects) Update() {
	alive := e.particles[:0]
	for _, p := range e.particles {
		p.Life--
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX
		p.Y += p.VY
		alive = append(alive, p)
	}
	e.particles = alive
}

// Len returns the number of live particles.
func (e *Effects) Len() int {
	return len(e.particles)
}

// Draw renders all particles, fading them out over their life.
func (e *Effects) Draw() {
	for i := range e.particles {
		p := &e.particles[i]
		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Kind {
		case telemetry.EventCaptured:
			color = rl.Color{R: 200, G: 40, B: 40, A: uint8(lifeRatio * 200)}
		case telemetry.EventStarved:
			color = rl.Color{R: 100, G: 80, B: 60, A: uint8(lifeRatio * 150)}
		case telemetry.EventBorn:
			color = rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 180)}
		}

		size := p.Size * lifeRatio
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, size, color)
	}
}
