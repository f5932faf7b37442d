package components

import "testing"

func TestGenomeClamp(t *testing.T) {
	g := Genome{Genes: [NumGenes]float64{-1, 10, 0.5, 0, 6, 1}}
	g.Clamp()

	want := [NumGenes]float64{0.25, 3, 0.5, 0.0001, 5, 0.95}
	if g.Genes != want {
		t.Errorf("Clamp() = %v, want %v", g.Genes, want)
	}
	if !g.InRange() {
		t.Error("clamped genome should be in range")
	}
}

func TestHungerThreshold(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0.5, 950},
		{0.05, 95},
		{0.95, 1805},
		{0.1234, 234}, // 234.46 rounds down
	}

	for _, tt := range tests {
		var g Genome
		g.Genes[GeneHunger] = tt.fraction
		if got := g.HungerThreshold(1900); got != tt.want {
			t.Errorf("HungerThreshold(%v) = %d, want %d", tt.fraction, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindFish.String() != "fish" || KindPredator.String() != "predator" {
		t.Errorf("unexpected kind names %q %q", KindFish, KindPredator)
	}
}
