package telemetry

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shoal/components"
)

// RunSummary holds the end-of-run statistics.
type RunSummary struct {
	RunID        string    `yaml:"run_id"`
	Seed         int64     `yaml:"seed"`
	EndTick      int32     `yaml:"end_tick"`
	EndTimeSec   float64   `yaml:"end_time_sec"`
	Fish         int       `yaml:"fish_remaining"`
	Eaten        int       `yaml:"eaten"`
	Starved      int       `yaml:"starved"`
	Born         int       `yaml:"born"`
	Total        int       `yaml:"total"` // initial population plus births
	Generations  int       `yaml:"generations"`
	BestGenotype []float64 `yaml:"best_genotype"` // genes of the oldest fish seen
	OldestAgeSec float64   `yaml:"oldest_age_sec"`
	Evolution    bool      `yaml:"evolution"`
	Stochastic   bool      `yaml:"stochastic"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// SetBestGenotype copies g into the summary.
func (s *RunSummary) SetBestGenotype(g components.Genome) {
	s.BestGenotype = append(s.BestGenotype[:0], g.Genes[:]...)
}

// WriteYAML writes the summary to a file.
func (s RunSummary) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
