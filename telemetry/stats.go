package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Fish int `csv:"fish"`

	// Events during window
	Births   int `csv:"births"`
	Starved  int `csv:"starved"`
	Captured int `csv:"captured"`
	Meals    int `csv:"meals"`

	// Lifespans of fish that died during the window, in seconds
	LifespanMean float64 `csv:"lifespan_mean"`
	LifespanP50  float64 `csv:"lifespan_p50"`
	LifespanP90  float64 `csv:"lifespan_p90"`

	// Genome distribution of the living population
	SeparationMean float64 `csv:"separation_mean"`
	AlignmentMean  float64 `csv:"alignment_mean"`
	CohesionMean   float64 `csv:"cohesion_mean"`
	FoodMean       float64 `csv:"food_mean"`
	FleeMean       float64 `csv:"flee_mean"`
	HungerMean     float64 `csv:"hunger_mean"`
	HungerStd      float64 `csv:"hunger_std"`
}

// GeneMeans returns the per-gene means in genome order.
func (s WindowStats) GeneMeans() [components.NumGenes]float64 {
	return [components.NumGenes]float64{
		s.SeparationMean, s.AlignmentMean, s.CohesionMean, s.FoodMean, s.FleeMean, s.HungerMean,
	}
}

// Quantile returns the p-th empirical quantile of values. Returns 0 if empty.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeGeneStats returns the mean and standard deviation of every gene.
func ComputeGeneStats(genomes []components.Genome) (mean, std [components.NumGenes]float64) {
	if len(genomes) == 0 {
		return mean, std
	}
	column := make([]float64, len(genomes))
	for i := range components.NumGenes {
		for j, g := range genomes {
			column[j] = g.Genes[i]
		}
		if len(column) == 1 {
			mean[i] = column[0]
			continue
		}
		mean[i], std[i] = stat.MeanStdDev(column, nil)
	}
	return mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fish", s.Fish),
		slog.Int("births", s.Births),
		slog.Int("starved", s.Starved),
		slog.Int("captured", s.Captured),
		slog.Int("meals", s.Meals),
		slog.Float64("lifespan_mean", s.LifespanMean),
		slog.Float64("lifespan_p50", s.LifespanP50),
		slog.Float64("lifespan_p90", s.LifespanP90),
		slog.Float64("separation_mean", s.SeparationMean),
		slog.Float64("alignment_mean", s.AlignmentMean),
		slog.Float64("cohesion_mean", s.CohesionMean),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("flee_mean", s.FleeMean),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
