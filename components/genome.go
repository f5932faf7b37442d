package components

import "math"

// Gene indices.
const (
	GeneSeparation = iota
	GeneAlignment
	GeneCohesion
	GeneFood
	GeneFlee
	GeneHunger
	NumGenes
)

// GeneSpec describes the initial sampling range, valid clamp range and
// mutation width of one gene.
type GeneSpec struct {
	Name             string
	InitMin, InitMax float64
	Min, Max         float64
	Sigma            float64
}

// GeneSpecs is indexed by the Gene* constants.
var GeneSpecs = [NumGenes]GeneSpec{
	GeneSeparation: {Name: "separation", InitMin: 0.25, InitMax: 3, Min: 0.25, Max: 3, Sigma: 0.1},
	GeneAlignment:  {Name: "alignment", InitMin: 0.001, InitMax: 3, Min: 0.0001, Max: 3, Sigma: 0.1},
	GeneCohesion:   {Name: "cohesion", InitMin: 0.001, InitMax: 1, Min: 0.0001, Max: 1, Sigma: 0.03},
	GeneFood:       {Name: "food", InitMin: 0.01, InitMax: 5, Min: 0.0001, Max: 5, Sigma: 0.15},
	GeneFlee:       {Name: "flee", InitMin: 0.01, InitMax: 5, Min: 0.0001, Max: 5, Sigma: 0.15},
	GeneHunger:     {Name: "hunger", InitMin: 0.05, InitMax: 0.95, Min: 0.0001, Max: 0.95, Sigma: 0.06},
}

// Genome holds the six heritable behavior coefficients.
type Genome struct {
	Genes [NumGenes]float64
}

// Clamp limits every gene to its valid range.
func (g *Genome) Clamp() {
	for i := range g.Genes {
		g.Genes[i] = min(max(g.Genes[i], GeneSpecs[i].Min), GeneSpecs[i].Max)
	}
}

// InRange reports whether every gene lies within its valid range.
func (g Genome) InRange() bool {
	for i, v := range g.Genes {
		if v < GeneSpecs[i].Min || v > GeneSpecs[i].Max {
			return false
		}
	}
	return true
}

// HungerThreshold returns the hunger level below which the fish seeks food.
func (g Genome) HungerThreshold(maxHunger int) int {
	return int(math.Round(float64(maxHunger) * g.Genes[GeneHunger]))
}
