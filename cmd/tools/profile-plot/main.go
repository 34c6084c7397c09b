// Command profile-plot renders a resampled atmosphere profile to PNG: the
// density and temperature curves the layer builder would assign for a given
// layer count. Useful for checking a profile file before a run.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/atmoslab/atmogeom/internal/profile"
)

var (
	profilePath = flag.String("profile", "", "Path to the day-keyed profile JSON")
	dayIndex    = flag.Int("day", 0, "Day index within the profile file")
	heightKm    = flag.Float64("height", 70, "Atmosphere height in km")
	layerCount  = flag.Int("layers", 100, "Number of layers to resample onto")
	outputDir   = flag.String("o", ".", "Output directory for the PNG files")
)

func main() {
	flag.Parse()

	if *profilePath == "" {
		log.Fatal("profile path is required")
	}

	prof, err := profile.Load(*profilePath, *dayIndex)
	if err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}
	resampled, err := prof.Resample(*heightKm, *layerCount)
	if err != nil {
		log.Fatalf("failed to resample profile: %v", err)
	}

	if err := savePlot("Density", "kg/m³", resampled.Altitude, resampled.Density,
		filepath.Join(*outputDir, "density.png")); err != nil {
		log.Fatalf("failed to plot density: %v", err)
	}
	if err := savePlot("Temperature", "K", resampled.Altitude, resampled.Temperature,
		filepath.Join(*outputDir, "temperature.png")); err != nil {
		log.Fatalf("failed to plot temperature: %v", err)
	}
	log.Printf("wrote density.png and temperature.png to %s", *outputDir)
}

func savePlot(title, unit string, altitudes, values []float64, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Altitude (km)"
	p.Y.Label.Text = unit

	pts := make(plotter.XYs, len(altitudes))
	for i := range altitudes {
		pts[i] = plotter.XY{X: altitudes[i], Y: values[i]}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
