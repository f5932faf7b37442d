// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed config.schema.json
var schemaJSON string

// NumGenes is the length of a fish genome.
const NumGenes = 6

// Config holds all simulation configuration parameters.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Fish       FishConfig       `yaml:"fish"`
	Predator   PredatorConfig   `yaml:"predator"`
	Food       FoodConfig       `yaml:"food"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Stochastic StochasticConfig `yaml:"stochastic"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WindowConfig holds the arena size. The arena is the window; there is no camera.
type WindowConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds spatial grid parameters.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Initial    int       `yaml:"initial"`
	Max        int       `yaml:"max"`         // 0 = unlimited
	SeedGenome []float64 `yaml:"seed_genome"` // empty = random genome per initial fish
}

// FishConfig holds fish behavior parameters.
type FishConfig struct {
	MaxHunger            int     `yaml:"max_hunger"`
	InitialHungerMin     int     `yaml:"initial_hunger_min"`
	InitialHungerMax     int     `yaml:"initial_hunger_max"` // exclusive
	ReproduceTime        int     `yaml:"reproduce_time"`
	InitialReproTimerMax int     `yaml:"initial_repro_timer_max"` // exclusive
	InitialSpeed         float64 `yaml:"initial_speed"`           // per-axis uniform bound
	WideRadius           int     `yaml:"wide_radius"`             // cells, cohesion/alignment/predator/elders
	NarrowRadius         int     `yaml:"narrow_radius"`           // cells, separation
	PartnerRadius        int     `yaml:"partner_radius"`
	Padding              float64 `yaml:"padding"`
	EdgeMargin           float64 `yaml:"edge_margin"`
	EdgeForce            float64 `yaml:"edge_force"`
	EdgeForceCap         float64 `yaml:"edge_force_cap"`
	CohesionScale        float64 `yaml:"cohesion_scale"`
	MinSpeed             float64 `yaml:"min_speed"`
	MaxSpeed             float64 `yaml:"max_speed"`
	FlockMaxSpeed        float64 `yaml:"flock_max_speed"`
	FlockRing            int     `yaml:"flock_ring"`
	FlockThreshold       int     `yaml:"flock_threshold"`
	ColorJitter          int     `yaml:"color_jitter"`
}

// PredatorConfig holds predator parameters.
type PredatorConfig struct {
	StartX         float64 `yaml:"start_x"`
	StartY         float64 `yaml:"start_y"`
	StartVX        float64 `yaml:"start_vx"`
	StartVY        float64 `yaml:"start_vy"`
	Size           float64 `yaml:"size"`
	Vision         int     `yaml:"vision"` // cells
	StrikeDistance float64 `yaml:"strike_distance"`
	Pursuit        float64 `yaml:"pursuit"`
	EdgeMargin     float64 `yaml:"edge_margin"`
	Padding        float64 `yaml:"padding"`
	MinSpeed       float64 `yaml:"min_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
}

// Point is a position in window coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// FoodConfig holds food point parameters.
type FoodConfig struct {
	Capacity  int     `yaml:"capacity"`
	Radius    int     `yaml:"radius"` // cells
	Timeout   int     `yaml:"timeout"`
	Locations []Point `yaml:"locations"`
}

// EvolutionConfig controls reproduction genetics and social learning.
type EvolutionConfig struct {
	Enabled             bool    `yaml:"enabled"`
	LearningRate        float64 `yaml:"learning_rate"`
	StochasticCrossover bool    `yaml:"stochastic_crossover"`
}

// StochasticConfig controls movement noise.
type StochasticConfig struct {
	Enabled     bool    `yaml:"enabled"`
	FoodSigma   float64 `yaml:"food_sigma"`
	JitterSigma float64 `yaml:"jitter_sigma"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     int `yaml:"stats_window"`     // ticks per stats window
	GenerationTicks int `yaml:"generation_ticks"` // ticks per approximate generation
	TicksPerSecond  int `yaml:"ticks_per_second"` // used to report ages in seconds
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width, Height float64
	FoodLocations []Point
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults with derived values computed.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges a YAML document over the embedded defaults. The document is
// checked against the config schema before it is applied.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		if err := validateSchema(data); err != nil {
			return nil, err
		}
		// Only overwrites fields present in the document
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateSchema converts the YAML document to its JSON form and validates it.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if doc == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}

	sch, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width = float64(c.Window.Width)
	c.Derived.Height = float64(c.Window.Height)

	if len(c.Food.Locations) > 0 {
		c.Derived.FoodLocations = c.Food.Locations
		return
	}
	w, h := c.Window.Width, c.Window.Height
	c.Derived.FoodLocations = []Point{
		{X: float64(w / 6), Y: float64(h / 6)},
		{X: float64(w / 6), Y: float64(h * 5 / 6)},
		{X: float64(w * 5 / 6), Y: float64(h / 6)},
		{X: float64(w * 5 / 6), Y: float64(h * 5 / 6)},
		{X: float64(w / 2), Y: float64(h / 2)},
	}
}

// Validate reports settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Grid.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("grid.cell_size must be positive, got %v", c.Grid.CellSize))
	} else if c.Grid.CellSize > float64(c.Window.Width) || c.Grid.CellSize > float64(c.Window.Height) {
		errs = append(errs, fmt.Errorf("grid.cell_size %v exceeds window %dx%d", c.Grid.CellSize, c.Window.Width, c.Window.Height))
	}
	if c.Fish.InitialHungerMin >= c.Fish.InitialHungerMax {
		errs = append(errs, fmt.Errorf("fish.initial_hunger_min %d must be below initial_hunger_max %d",
			c.Fish.InitialHungerMin, c.Fish.InitialHungerMax))
	}
	if c.Fish.InitialReproTimerMax <= 0 {
		errs = append(errs, errors.New("fish.initial_repro_timer_max must be positive"))
	}
	if c.Fish.MinSpeed > c.Fish.MaxSpeed || c.Fish.MaxSpeed > c.Fish.FlockMaxSpeed {
		errs = append(errs, fmt.Errorf("fish speeds must satisfy min <= max <= flock_max, got %v/%v/%v",
			c.Fish.MinSpeed, c.Fish.MaxSpeed, c.Fish.FlockMaxSpeed))
	}
	if c.Predator.MinSpeed > c.Predator.MaxSpeed {
		errs = append(errs, fmt.Errorf("predator.min_speed %v exceeds max_speed %v", c.Predator.MinSpeed, c.Predator.MaxSpeed))
	}
	if 2*c.Fish.Padding >= float64(c.Window.Width) || 2*c.Fish.Padding >= float64(c.Window.Height) {
		errs = append(errs, fmt.Errorf("fish.padding %v leaves no room in window", c.Fish.Padding))
	}
	if n := len(c.Population.SeedGenome); n != 0 && n != NumGenes {
		errs = append(errs, fmt.Errorf("population.seed_genome needs %d genes, got %d", NumGenes, n))
	}
	if c.Telemetry.GenerationTicks <= 0 || c.Telemetry.TicksPerSecond <= 0 || c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, errors.New("telemetry windows must be positive"))
	}
	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
