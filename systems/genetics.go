package systems

import (
	"math/rand"

	"github.com/pthm-cable/shoal/components"
)

// RandomGenome samples every gene uniformly from its initial range.
func RandomGenome(rng *rand.Rand) components.Genome {
	var g components.Genome
	for i, spec := range components.GeneSpecs {
		g.Genes[i] = spec.InitMin + rng.Float64()*(spec.InitMax-spec.InitMin)
	}
	return g
}

// Inherit combines two parent genomes: the separation gene comes from the
// younger parent and all others from the older one.
func Inherit(older, younger components.Genome) components.Genome {
	child := older
	child.Genes[components.GeneSeparation] = younger.Genes[components.GeneSeparation]
	return child
}

// InheritStochastic draws each gene from the older parent with probability 0.75.
func InheritStochastic(older, younger components.Genome, rng *rand.Rand) components.Genome {
	var child components.Genome
	for i := range child.Genes {
		if rng.Float64() < 0.75 {
			child.Genes[i] = older.Genes[i]
		} else {
			child.Genes[i] = younger.Genes[i]
		}
	}
	return child
}

// Mutate adds gaussian noise to each gene using the per-gene sigma.
func Mutate(g *components.Genome, rng *rand.Rand) {
	for i, spec := range components.GeneSpecs {
		g.Genes[i] += rng.NormFloat64() * spec.Sigma
	}
}

// Rank orders two parents by age. The parent counts as the older one only
// when its age is strictly greater than the partner's.
func Rank(parent, partner components.Genome, parentAge, partnerAge int32) (older, younger components.Genome) {
	if parentAge > partnerAge {
		return parent, partner
	}
	return partner, parent
}

// Offspring builds a mutated, clamped child genome from a parent and its partner.
func Offspring(parent, partner components.Genome, parentAge, partnerAge int32, stochastic bool, rng *rand.Rand) components.Genome {
	older, younger := Rank(parent, partner, parentAge, partnerAge)

	var child components.Genome
	if stochastic {
		child = InheritStochastic(older, younger, rng)
	} else {
		child = Inherit(older, younger)
	}
	Mutate(&child, rng)
	child.Clamp()
	return child
}

// Learn moves every gene a fraction rate toward the elder's value.
func Learn(g *components.Genome, elder components.Genome, rate float64) {
	for i := range g.Genes {
		g.Genes[i] += rate * (elder.Genes[i] - g.Genes[i])
	}
}

// RandomColor returns a colour with each channel in [0, 254].
func RandomColor(rng *rand.Rand) components.Color {
	return components.Color{
		R: uint8(rng.Intn(255)),
		G: uint8(rng.Intn(255)),
		B: uint8(rng.Intn(255)),
	}
}

// MixColor averages two colours and perturbs each channel by an integer in
// [-jitter, jitter), clamped to [0, 255].
func MixColor(a, b components.Color, jitter int, rng *rand.Rand) components.Color {
	mix := func(x, y uint8) uint8 {
		v := (int(x) + int(y)) / 2
		if jitter > 0 {
			v += rng.Intn(2*jitter) - jitter
		}
		return uint8(min(max(v, 0), 255))
	}
	return components.Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
	}
}
