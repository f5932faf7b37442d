package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	if pv.Dim() != components.NumGenes {
		t.Fatalf("Dim() = %d, want %d", pv.Dim(), components.NumGenes)
	}

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("param %s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorDefaultsFromSeedGenome(t *testing.T) {
	cfg := config.Default()
	cfg.Population.SeedGenome = []float64{1, 1, 0.5, 2, 2, 0.5}
	pv := NewParamVector(cfg)
	for i, v := range pv.DefaultVector() {
		if v != cfg.Population.SeedGenome[i] {
			t.Errorf("default[%d] = %v, want %v", i, v, cfg.Population.SeedGenome[i])
		}
	}
}

func TestApplyToConfigClampsAndCopies(t *testing.T) {
	base := config.Default()
	base.Evolution.Enabled = true
	pv := NewParamVector(base)

	values := []float64{100, -1, 0.5, 2, 2, 0.5}
	cfg := pv.ApplyToConfig(base, values)

	if cfg == base {
		t.Fatal("ApplyToConfig returned the base config")
	}
	if len(base.Population.SeedGenome) != 0 {
		t.Error("base seed genome was modified")
	}
	if !base.Evolution.Enabled || cfg.Evolution.Enabled {
		t.Error("evolution should be off only in the copy")
	}

	sep := components.GeneSpecs[components.GeneSeparation]
	align := components.GeneSpecs[components.GeneAlignment]
	if got := cfg.Population.SeedGenome[components.GeneSeparation]; got != sep.Max {
		t.Errorf("separation = %v, want clamped to %v", got, sep.Max)
	}
	if got := cfg.Population.SeedGenome[components.GeneAlignment]; got != align.Min {
		t.Errorf("alignment = %v, want clamped to %v", got, align.Min)
	}
}
