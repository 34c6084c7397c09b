// Package report renders a built atmosphere model to a standalone HTML page
// with per-layer density, temperature and field-magnitude charts. It is a
// quick visual check of a geometry before committing to a long run.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/atmoslab/atmogeom/internal/atmosphere"
)

// WriteModel renders the model's charts as HTML to w.
func WriteModel(w io.Writer, m *atmosphere.Model) error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("model has no layers")
	}

	altitudes := make([]string, len(m.Layers))
	density := make([]opts.LineData, len(m.Layers))
	temperature := make([]opts.LineData, len(m.Layers))
	field := make([]opts.LineData, len(m.Layers))
	for i, l := range m.Layers {
		realMid := m.Offset.RealOf(l.Midpoint())
		altitudes[i] = fmt.Sprintf("%.2f", realMid)
		density[i] = opts.LineData{Value: l.Density}
		temperature[i] = opts.LineData{Value: l.Temperature}
		field[i] = opts.LineData{Value: math.Sqrt(l.Field.X*l.Field.X + l.Field.Y*l.Field.Y + l.Field.Z*l.Field.Z)}
	}

	page := components.NewPage()
	page.AddCharts(
		layerChart("Density", "kg/m³", altitudes, density),
		layerChart("Temperature", "K", altitudes, temperature),
		layerChart("Field magnitude", "T", altitudes, field),
	)
	return page.Render(w)
}

// WriteFile renders the model's charts to an HTML file at path.
func WriteFile(path string, m *atmosphere.Model) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return WriteModel(f, m)
}

func layerChart(title, unit string, altitudes []string, data []opts.LineData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title + " per layer"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "altitude (km)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
	)
	line.SetXAxis(altitudes).AddSeries(title, data)
	return line
}
