package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// weightEpsilon keeps cohesion and alignment averages finite.
const weightEpsilon = 1e-8

// Birth describes an offspring produced during a fish update.
type Birth struct {
	Parent, Partner ecs.Entity
	X, Y            float64
	Color           components.Color
	Genome          components.Genome
	Inherited       bool // false: the child keeps a fresh random genome
}

// Nursery receives offspring from the fish system.
type Nursery interface {
	// Room reports whether another fish may be added.
	Room() bool
	// SpawnOffspring creates the child and inserts it into the grid.
	SpawnOffspring(b Birth) ecs.Entity
}

// FishSystem runs the per-tick fish behavior.
type FishSystem struct {
	cfg       *config.Config
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	genomeMap *ecs.Map[components.Genome]
	fishMap   *ecs.Map[components.Fish]

	wide, narrow []Ref
	pending      []Birth
}

// NewFishSystem creates a fish system for the given world.
func NewFishSystem(w *ecs.World, cfg *config.Config) *FishSystem {
	return &FishSystem{
		cfg:       cfg,
		posMap:    ecs.NewMap[components.Position](w),
		velMap:    ecs.NewMap[components.Velocity](w),
		genomeMap: ecs.NewMap[components.Genome](w),
		fishMap:   ecs.NewMap[components.Fish](w),
		wide:      make([]Ref, 0, 32),
		narrow:    make([]Ref, 0, 16),
	}
}

// Update advances one fish by a tick. Offspring are handed to nursery after
// the fish has moved.
func (s *FishSystem) Update(e ecs.Entity, grid *SpatialGrid, food []FoodPoint, nursery Nursery, rng *rand.Rand) {
	cfg := s.cfg
	pos := s.posMap.Get(e)
	vel := s.velMap.Get(e)
	genome := s.genomeMap.Get(e)
	fish := s.fishMap.Get(e)

	oldX, oldY := pos.X, pos.Y
	fish.Hunger--

	s.wide = grid.NeighborsInto(s.wide[:0], pos.X, pos.Y, cfg.Fish.WideRadius)
	s.narrow = grid.NeighborsInto(s.narrow[:0], pos.X, pos.Y, cfg.Fish.NarrowRadius)

	if fish.Juvenile && cfg.Evolution.Enabled {
		for _, ref := range s.wide {
			if ref.Kind == components.KindFish && s.fishMap.Get(ref.E).Elder {
				Learn(genome, *s.genomeMap.Get(ref.E), cfg.Evolution.LearningRate)
			}
		}
	}

	for _, ref := range s.wide {
		if ref.Kind == components.KindPredator {
			pp := s.posMap.Get(ref.E)
			vel.X += genome.Genes[components.GeneFlee] * (pos.X - pp.X)
			vel.Y += genome.Genes[components.GeneFlee] * (pos.Y - pp.Y)
			break
		}
	}

	if fish.ReproTimer >= cfg.Fish.ReproduceTime {
		fish.ReproTimer = 0
		s.reproduce(e, pos, genome, fish, grid, nursery, rng)
	} else {
		fish.ReproTimer++
	}

	s.forage(pos, vel, genome, fish, food, rng)
	AvoidEdges(pos, vel, &cfg.Fish, cfg.Derived.Width, cfg.Derived.Height)
	s.steer(pos, vel, genome)

	if cfg.Stochastic.Enabled {
		vel.X += rng.NormFloat64() * cfg.Stochastic.JitterSigma
		vel.Y += rng.NormFloat64() * cfg.Stochastic.JitterSigma
	}

	vMax := cfg.Fish.MaxSpeed
	if grid.DensityAtLeast(pos.X, pos.Y, cfg.Fish.FlockRing, cfg.Fish.FlockThreshold) {
		vMax = cfg.Fish.FlockMaxSpeed
	}
	LimitSpeed(vel, cfg.Fish.MinSpeed, vMax, rng)

	pos.X = clamp(pos.X+vel.X, cfg.Fish.Padding, cfg.Derived.Width-cfg.Fish.Padding)
	pos.Y = clamp(pos.Y+vel.Y, cfg.Fish.Padding, cfg.Derived.Height-cfg.Fish.Padding)
	grid.Relocate(Ref{E: e, Kind: components.KindFish}, oldX, oldY, pos.X, pos.Y)

	fish.Age++

	// Spawning may move component storage, so it runs after the last access.
	for _, b := range s.pending {
		nursery.SpawnOffspring(b)
	}
	s.pending = s.pending[:0]
}

// reproduce pairs the fish with the first grid entry near it. Entries that
// are not fish, or are the fish itself, abort the attempt.
func (s *FishSystem) reproduce(e ecs.Entity, pos *components.Position, genome *components.Genome,
	fish *components.Fish, grid *SpatialGrid, nursery Nursery, rng *rand.Rand) {
	ref, ok := grid.FirstInExpandingBox(pos.X, pos.Y, s.cfg.Fish.PartnerRadius)
	if !ok || ref.Kind != components.KindFish || ref.E == e {
		return
	}
	if !nursery.Room() {
		return
	}

	partnerPos := s.posMap.Get(ref.E)
	partner := s.fishMap.Get(ref.E)

	b := Birth{
		Parent:  e,
		Partner: ref.E,
		X:       (pos.X + partnerPos.X) / 2,
		Y:       (pos.Y + partnerPos.Y) / 2,
		Color:   MixColor(fish.Color, partner.Color, s.cfg.Fish.ColorJitter, rng),
	}
	if s.cfg.Evolution.Enabled {
		b.Genome = Offspring(*genome, *s.genomeMap.Get(ref.E), fish.Age, partner.Age,
			s.cfg.Evolution.StochasticCrossover, rng)
		b.Inherited = true
	}
	s.pending = append(s.pending, b)
}

// forage steers a hungry fish toward the nearest active food point.
func (s *FishSystem) forage(pos *components.Position, vel *components.Velocity, genome *components.Genome,
	fish *components.Fish, food []FoodPoint, rng *rand.Rand) {
	if fish.Hunger >= genome.HungerThreshold(s.cfg.Fish.MaxHunger) {
		return
	}
	target := NearestActive(food, pos.X, pos.Y)
	if target == nil {
		return
	}

	dx := target.X - pos.X
	dy := target.Y - pos.Y
	if s.cfg.Stochastic.Enabled {
		dx += rng.NormFloat64() * s.cfg.Stochastic.FoodSigma
		dy += rng.NormFloat64() * s.cfg.Stochastic.FoodSigma
	}
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	vel.X += genome.Genes[components.GeneFood] * dx / dist
	vel.Y += genome.Genes[components.GeneFood] * dy / dist
}

// steer adds the weighted separation, cohesion and alignment forces.
func (s *FishSystem) steer(pos *components.Position, vel *components.Velocity, genome *components.Genome) {
	var sepX, sepY float64
	for _, ref := range s.narrow {
		if ref.Kind != components.KindFish {
			continue
		}
		o := s.posMap.Get(ref.E)
		dx, dy := pos.X-o.X, pos.Y-o.Y
		if d := math.Hypot(dx, dy); d > 0 {
			sepX += dx / d
			sepY += dy / d
		}
	}

	var cohX, cohY, aliX, aliY float64
	if len(s.wide) > 0 {
		var sumX, sumY, sumVX, sumVY float64
		weight := weightEpsilon
		for _, ref := range s.wide {
			if ref.Kind != components.KindFish {
				continue
			}
			o := s.posMap.Get(ref.E)
			ov := s.velMap.Get(ref.E)
			sumX += o.X
			sumY += o.Y
			sumVX += ov.X
			sumVY += ov.Y
			weight++
		}
		cohX = (sumX/weight - pos.X) * s.cfg.Fish.CohesionScale
		cohY = (sumY/weight - pos.Y) * s.cfg.Fish.CohesionScale
		aliX = sumVX / weight
		aliY = sumVY / weight
	}

	g := &genome.Genes
	vel.X += g[components.GeneCohesion]*cohX + g[components.GeneSeparation]*sepX + g[components.GeneAlignment]*aliX
	vel.Y += g[components.GeneCohesion]*cohY + g[components.GeneSeparation]*sepY + g[components.GeneAlignment]*aliY
}

// NearestActive returns the active food point closest to (x, y), or nil.
func NearestActive(food []FoodPoint, x, y float64) *FoodPoint {
	var best *FoodPoint
	bestDist := math.Inf(1)
	for i := range food {
		if !food[i].Active {
			continue
		}
		if d := math.Hypot(food[i].X-x, food[i].Y-y); d < bestDist {
			bestDist = d
			best = &food[i]
		}
	}
	return best
}

// AvoidEdges pushes a fish away from the walls with an inverse-square force
// and reverses its velocity inside the margin.
func AvoidEdges(pos *components.Position, vel *components.Velocity, fc *config.FishConfig, width, height float64) {
	vel.X += wallForce(pos.X, width, fc.EdgeForce, fc.EdgeForceCap)
	vel.Y += wallForce(pos.Y, height, fc.EdgeForce, fc.EdgeForceCap)

	if pos.X < fc.EdgeMargin || pos.X > width-fc.EdgeMargin {
		vel.X = -vel.X
	}
	if pos.Y < fc.EdgeMargin || pos.Y > height-fc.EdgeMargin {
		vel.Y = -vel.Y
	}
}

// wallForce is zero on the walls themselves, where the force is undefined.
func wallForce(v, extent, strength, limit float64) float64 {
	if v == 0 || v == extent {
		return 0
	}
	f := strength * (1/(v*v) - 1/((v-extent)*(v-extent)))
	return clamp(f, -limit, limit)
}

// LimitSpeed scales vel into [vMin, vMax]. A zero velocity is given a
// random heading at vMin.
func LimitSpeed(vel *components.Velocity, vMin, vMax float64, rng *rand.Rand) {
	speed := math.Hypot(vel.X, vel.Y)
	switch {
	case speed > vMax:
		vel.X = vel.X / speed * vMax
		vel.Y = vel.Y / speed * vMax
	case speed == 0:
		angle := rng.Float64() * 2 * math.Pi
		vel.X = math.Cos(angle) * vMin
		vel.Y = math.Sin(angle) * vMin
	case speed < vMin:
		vel.X = vel.X / speed * vMin
		vel.Y = vel.Y / speed * vMin
	}
}
