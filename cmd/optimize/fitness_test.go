package main

import (
	"context"
	"math"
	"testing"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 6)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Fish: 40, Meals: 40, Starved: 1}
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		lo, hi  float64
	}{
		{"empty", nil, 0, 0},
		{"warmup only", steady[:2], 0, 0},
		{"too few fish", []telemetry.WindowStats{{}, {}, {Fish: 1}, {Fish: 2}}, 0, 0},
		// stable 0.4, evasion 0.3, feeding 0.3*(1-e^-1)
		{"steady", steady, 0.88, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := computeQuality(tt.windows)
			if q < tt.lo || q > tt.hi {
				t.Errorf("computeQuality() = %v, want in [%v, %v]", q, tt.lo, tt.hi)
			}
		})
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	if computeFitness(1000, 0) >= computeFitness(500, 1) {
		t.Error("longer survival should beat higher quality")
	}
	if computeFitness(500, 1) >= computeFitness(500, 0) {
		t.Error("quality should break ties")
	}
}

func TestEvaluateRunsEverySeed(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 10
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 200, []int64{1, 2}, cfg)

	fitness := fe.Evaluate(context.Background(), pv.DefaultVector())
	if fitness > 0 || math.IsInf(fitness, 0) {
		t.Fatalf("fitness = %v", fitness)
	}
	survival, _ := fe.Last()
	if survival <= 0 || survival > 200 {
		t.Errorf("mean survival = %v, want in (0, 200]", survival)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 1000, []int64{1}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if f := fe.Evaluate(ctx, pv.DefaultVector()); !math.IsInf(f, 1) {
		t.Errorf("fitness = %v, want +Inf", f)
	}
}
