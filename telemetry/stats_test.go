package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"empty slice", nil, 0.5, 0},
		{"single element", []float64{5}, 0.5, 5},
		{"p0", []float64{3, 1, 2, 5, 4}, 0, 1},
		{"p100", []float64{3, 1, 2, 5, 4}, 1, 5},
		{"median odd", []float64{3, 1, 2, 5, 4}, 0.5, 3},
		{"p90", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, 0.9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantile(tt.values, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestQuantileLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	if values[0] != 3 || values[1] != 1 {
		t.Errorf("input reordered to %v", values)
	}
}

func TestComputeGeneStats(t *testing.T) {
	genomes := []components.Genome{
		{Genes: [components.NumGenes]float64{1, 1, 0.2, 1, 1, 0.4}},
		{Genes: [components.NumGenes]float64{3, 1, 0.4, 1, 1, 0.6}},
	}
	mean, std := ComputeGeneStats(genomes)

	if mean[components.GeneSeparation] != 2 || math.Abs(mean[components.GeneHunger]-0.5) > 1e-12 {
		t.Errorf("means = %v", mean)
	}
	// Sample standard deviation of {1, 3}
	if math.Abs(std[components.GeneSeparation]-math.Sqrt2) > 1e-12 {
		t.Errorf("separation std = %v, want sqrt(2)", std[components.GeneSeparation])
	}
	if std[components.GeneAlignment] != 0 {
		t.Errorf("constant gene std = %v, want 0", std[components.GeneAlignment])
	}

	mean, std = ComputeGeneStats(genomes[:1])
	if mean[components.GeneSeparation] != 1 || std[components.GeneSeparation] != 0 {
		t.Errorf("single genome stats = %v, %v", mean, std)
	}
}

func TestGeneMeansOrder(t *testing.T) {
	s := WindowStats{SeparationMean: 1, AlignmentMean: 2, CohesionMean: 3, FoodMean: 4, FleeMean: 5, HungerMean: 6}
	got := s.GeneMeans()
	if got[components.GeneFood] != 4 || got[components.GeneFlee] != 5 || got[components.GeneHunger] != 6 {
		t.Errorf("GeneMeans() = %v", got)
	}
}
