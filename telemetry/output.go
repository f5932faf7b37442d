package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/shoal/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	eventsFile    *os.File
	telemetryFile *os.File

	// Track if headers have been written
	eventsHeaderWritten    bool
	telemetryHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	f, err = os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		om.eventsFile.Close()
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteEvents appends events to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	if err := appendCSV(om.eventsFile, events, &om.eventsHeaderWritten); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := appendCSV(om.telemetryFile, []WindowStats{stats}, &om.telemetryHeaderWritten); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteSummary writes summary.yaml.
func (om *OutputManager) WriteSummary(s RunSummary) error {
	if om == nil {
		return nil
	}
	return s.WriteYAML(filepath.Join(om.dir, "summary.yaml"))
}

// WriteGenerations writes generations.csv and, with two or more
// generations, the generations.png chart.
func (om *OutputManager) WriteGenerations(gens []GenerationStat) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "generations.csv"))
	if err != nil {
		return fmt.Errorf("creating generations.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal(gens, f); err != nil {
		return fmt.Errorf("writing generations: %w", err)
	}

	png, err := os.Create(filepath.Join(om.dir, "generations.png"))
	if err != nil {
		return fmt.Errorf("creating generations.png: %w", err)
	}
	err = RenderGenerationChart(png, gens)
	if cerr := png.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, ErrTooFewGenerations) {
		return os.Remove(png.Name())
	}
	return err
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.eventsFile.Close(), om.telemetryFile.Close())
}

// appendCSV writes records, including the header only on the first call.
func appendCSV[T any](w io.Writer, records []T, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, w)
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}
