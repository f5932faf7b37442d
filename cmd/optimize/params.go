package main

import (
	"slices"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters: one per gene of
// the seed genome.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates one parameter per gene, bounded by the gene's
// valid range. Defaults come from the base config's seed genome when set,
// otherwise from the middle of the initial sampling range.
func NewParamVector(base *config.Config) *ParamVector {
	seed := base.Population.SeedGenome
	specs := make([]ParamSpec, components.NumGenes)
	for i, g := range components.GeneSpecs {
		def := (g.InitMin + g.InitMax) / 2
		if len(seed) == components.NumGenes {
			def = seed[i]
		}
		specs[i] = ParamSpec{Name: g.Name, Min: g.Min, Max: g.Max, Default: def}
	}
	return &ParamVector{Specs: specs}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values, clamped to bounds.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return pv.Clamp(v)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig returns a copy of base with the clamped values as its seed
// genome. Evolution is switched off so every fish keeps the candidate genes.
func (pv *ParamVector) ApplyToConfig(base *config.Config, values []float64) *config.Config {
	cfg := *base
	cfg.Population.SeedGenome = slices.Clone(pv.Clamp(values))
	cfg.Evolution.Enabled = false
	return &cfg
}
