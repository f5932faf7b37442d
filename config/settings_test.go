package config

import "testing"

func TestSettingsClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"in range", Settings{Fish: 50, CellSize: 10, Runs: 2}, Settings{Fish: 50, CellSize: 10, Runs: 2}},
		{"low", Settings{Fish: 0, CellSize: 1, Runs: 0}, Settings{Fish: 1, CellSize: 5, Runs: 1}},
		{"high", Settings{Fish: 500, CellSize: 64, Runs: 9}, Settings{Fish: 100, CellSize: 30, Runs: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	cfg := Default()
	s := SettingsFrom(cfg, 3)
	if s.Fish != cfg.Population.Initial || s.CellSize != cfg.Grid.CellSize || s.Runs != 3 {
		t.Fatalf("SettingsFrom = %+v", s)
	}

	s.Fish = 12
	s.CellSize = 20
	s.Evolution = !cfg.Evolution.Enabled
	s.Stochastic = !cfg.Stochastic.Enabled
	want := s

	if err := s.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := SettingsFrom(cfg, 3); got != want {
		t.Errorf("after Apply, SettingsFrom = %+v, want %+v", got, want)
	}
}
