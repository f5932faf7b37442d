package config

// Setup panel limits.
const (
	MinSetupFish     = 1
	MaxSetupFish     = 100
	MinSetupCellSize = 5
	MaxSetupCellSize = 30
	MinSetupRuns     = 1
	MaxSetupRuns     = 4
)

// Settings are the values adjustable before a run starts.
type Settings struct {
	Fish       int
	CellSize   float64
	Runs       int
	Evolution  bool
	Stochastic bool
}

// SettingsFrom reads the adjustable values out of a config.
func SettingsFrom(c *Config, runs int) Settings {
	return Settings{
		Fish:       c.Population.Initial,
		CellSize:   c.Grid.CellSize,
		Runs:       runs,
		Evolution:  c.Evolution.Enabled,
		Stochastic: c.Stochastic.Enabled,
	}.Clamp()
}

// Clamp limits every value to its setup range.
func (s Settings) Clamp() Settings {
	s.Fish = min(max(s.Fish, MinSetupFish), MaxSetupFish)
	s.CellSize = min(max(s.CellSize, MinSetupCellSize), MaxSetupCellSize)
	s.Runs = min(max(s.Runs, MinSetupRuns), MaxSetupRuns)
	return s
}

// Apply writes the settings into c and revalidates it.
func (s Settings) Apply(c *Config) error {
	s = s.Clamp()
	c.Population.Initial = s.Fish
	c.Grid.CellSize = s.CellSize
	c.Evolution.Enabled = s.Evolution
	c.Stochastic.Enabled = s.Stochastic
	c.computeDerived()
	return c.Validate()
}
