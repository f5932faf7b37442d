package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int32
	seeds    []int64
	base     *config.Config

	mu          sync.Mutex
	lastQuality float64
	lastSurvive float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, base *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     base,
	}
}

// Last returns the mean survival ticks and quality of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (survival, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive, fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32
	windowStats   []telemetry.WindowStats
}

// Evaluate computes fitness for a raw genome (lower = better). Seeds run in
// parallel. A cancelled ctx yields +Inf.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	cfg := fe.params.ApplyToConfig(fe.base, x)

	results := make([]*runResult, len(fe.seeds))
	eg, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			r, err := fe.runSimulation(ctx, cfg, seed)
			results[i] = r
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return math.Inf(1)
	}

	var totalFitness, totalQuality, totalSurvival float64
	for _, r := range results {
		q := computeQuality(r.windowStats)
		totalFitness += computeFitness(r.survivalTicks, q)
		totalQuality += q
		totalSurvival += float64(r.survivalTicks)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvive = totalSurvival / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one seed until every fish is gone or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, cfg *config.Config, seed int64) (*runResult, error) {
	result := &runResult{}
	g, err := game.NewGame(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	for !g.Done() && g.Tick() < fe.maxTicks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.Step()
	}
	result.survivalTicks = g.Tick()
	return result, nil
}

// computeFitness combines survival and quality (lower = better). Survival
// dominates; quality adds up to a 20% bonus.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.4
	qualityWeightFeeding   = 0.3
	qualityWeightEvasion   = 0.3

	qualityWarmupWindows = 2
	qualityMinFish       = 3
)

// computeQuality scores a run in [0, 1] from its window stats: a steady
// population, regular meals and few captures.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var counts []float64
	var feedSum float64
	var captured, deaths int
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Fish < qualityMinFish {
			continue
		}
		counts = append(counts, float64(w.Fish))
		mealsPerFish := float64(w.Meals) / float64(w.Fish)
		feedSum += 1 - math.Exp(-mealsPerFish)
		captured += w.Captured
		deaths += w.Captured + w.Starved
	}
	if len(counts) == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			c := std / mean
			stability = math.Exp(-c * c)
		}
	}

	feeding := feedSum / float64(len(counts))

	evasion := 1.0
	if deaths > 0 {
		evasion = 1 - float64(captured)/float64(deaths)
	}

	q := qualityWeightStability*stability +
		qualityWeightFeeding*feeding +
		qualityWeightEvasion*evasion
	return min(max(q, 0), 1)
}
