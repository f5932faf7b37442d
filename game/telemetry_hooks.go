package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/components"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.Genomes())

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WriteEvents(g.unwritten); err != nil {
			slog.Error("failed to write events", "error", err)
		}
		g.unwritten = g.unwritten[:0]
	}
}

// Genomes returns a copy of every living fish's genome in list order.
func (g *Game) Genomes() []components.Genome {
	out := make([]components.Genome, len(g.population))
	for i, e := range g.population {
		out[i] = *g.genomeMap.Get(e)
	}
	return out
}
