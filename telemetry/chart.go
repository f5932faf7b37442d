package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewGenerations is returned when a chart would have fewer than two points.
var ErrTooFewGenerations = errors.New("need at least two generations to plot")

// RenderGenerationChart draws mean age at death per generation as a PNG line chart.
func RenderGenerationChart(w io.Writer, gens []GenerationStat) error {
	if len(gens) < 2 {
		return ErrTooFewGenerations
	}

	xs := make([]float64, len(gens))
	ys := make([]float64, len(gens))
	for i, g := range gens {
		xs[i] = float64(g.Generation)
		ys[i] = g.MeanAgeSec
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "generation",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "mean age (s)",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "mean age at death",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 0, G: 121, B: 241, A: 255}, StrokeWidth: 3.0},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering generation chart: %w", err)
	}
	return nil
}
