package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1260 || cfg.Window.Height != 700 {
		t.Errorf("window = %dx%d, want 1260x700", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Grid.CellSize != 15 {
		t.Errorf("cell size = %v, want 15", cfg.Grid.CellSize)
	}
	if cfg.Population.Initial != 50 {
		t.Errorf("initial population = %d, want 50", cfg.Population.Initial)
	}
	if !cfg.Evolution.Enabled || cfg.Stochastic.Enabled {
		t.Errorf("evolution=%v stochastic=%v, want true/false", cfg.Evolution.Enabled, cfg.Stochastic.Enabled)
	}
	if cfg.Food.Capacity != 40 || cfg.Food.Radius != 2 || cfg.Food.Timeout != 2800 {
		t.Errorf("food = %+v", cfg.Food)
	}
}

func TestDerivedFoodLocations(t *testing.T) {
	cfg := Default()

	want := []Point{{210, 116}, {210, 583}, {1050, 116}, {1050, 583}, {630, 350}}
	got := cfg.Derived.FoodLocations
	if len(got) != len(want) {
		t.Fatalf("got %d food locations, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("location %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseOverrides(t *testing.T) {
	doc := `
window:
  width: 400
  height: 300
population:
  initial: 5
food:
  locations:
    - {x: 100, y: 100}
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.Width != 400 || cfg.Window.Height != 300 {
		t.Errorf("window = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Population.Initial != 5 {
		t.Errorf("initial = %d, want 5", cfg.Population.Initial)
	}
	// Untouched keys keep their defaults
	if cfg.Fish.MaxHunger != 1900 {
		t.Errorf("max hunger = %d, want default 1900", cfg.Fish.MaxHunger)
	}
	if len(cfg.Derived.FoodLocations) != 1 || cfg.Derived.FoodLocations[0] != (Point{100, 100}) {
		t.Errorf("food locations = %+v", cfg.Derived.FoodLocations)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "window:\n  depth: 3\n", "validation"},
		{"wrong type", "grid:\n  cell_size: big\n", "validation"},
		{"negative fish", "population:\n  initial: -1\n", "validation"},
		{"short genome", "population:\n  seed_genome: [1, 2]\n", "validation"},
		{"cell larger than window", "window:\n  width: 10\n  height: 10\ngrid:\n  cell_size: 15\n", "cell_size"},
		{"hunger range", "fish:\n  initial_hunger_min: 2000\n", "initial_hunger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadAndWriteYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(path, []byte("evolution:\n  enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Evolution.Enabled {
		t.Error("evolution should be disabled")
	}

	out := filepath.Join(dir, "config.yaml")
	if err := cfg.WriteYAML(out); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.Evolution.Enabled || again.Window.Width != cfg.Window.Width {
		t.Errorf("round trip changed config: %+v", again.Evolution)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
