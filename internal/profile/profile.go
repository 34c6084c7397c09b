// Package profile loads atmospheric density/temperature profiles and
// resamples them onto evenly spaced layer altitudes.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/atmoslab/atmogeom/internal/interp1d"
)

// ErrDayNotFound reports a day index with no entry in the profile file.
var ErrDayNotFound = errors.New("profile day index not found")

// Profile is a sparse density/temperature-vs-altitude dataset for one day.
// Altitudes are in kilometres (strictly increasing), temperatures in kelvin,
// densities in kg/m³. All three slices have equal length with at least two
// points.
type Profile struct {
	Altitude    []float64
	Temperature []float64
	Density     []float64
}

// entry matches one day record of the profile JSON document.
type entry struct {
	Altitude    []float64 `json:"altitude"`
	Temperature []float64 `json:"T"`
	Density     []float64 `json:"density"`
}

// Load reads the day-keyed profile JSON document at path and returns the
// profile for dayIndex. A missing day is a fatal lookup error (ErrDayNotFound);
// construction must not continue with a default profile.
func Load(path string, dayIndex int) (*Profile, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("profile file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var days map[string]entry
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	e, ok := days[strconv.Itoa(dayIndex)]
	if !ok {
		return nil, fmt.Errorf("%w: day %d in %s", ErrDayNotFound, dayIndex, cleanPath)
	}

	p := &Profile{
		Altitude:    e.Altitude,
		Temperature: e.Temperature,
		Density:     e.Density,
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid profile for day %d: %w", dayIndex, err)
	}
	return p, nil
}

func (p *Profile) validate() error {
	if len(p.Altitude) < 2 {
		return fmt.Errorf("profile needs at least 2 points, got %d", len(p.Altitude))
	}
	if len(p.Temperature) != len(p.Altitude) || len(p.Density) != len(p.Altitude) {
		return fmt.Errorf("profile arrays have mismatched lengths: altitude=%d T=%d density=%d",
			len(p.Altitude), len(p.Temperature), len(p.Density))
	}
	for i := 1; i < len(p.Altitude); i++ {
		if p.Altitude[i] <= p.Altitude[i-1] {
			return fmt.Errorf("profile altitudes not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Resampled holds profile values interpolated onto n evenly spaced sample
// altitudes spanning [0, height].
type Resampled struct {
	Altitude    []float64
	Temperature []float64
	Density     []float64
}

// Resample linearly interpolates density and temperature at n evenly spaced
// altitudes in [0, heightKm]. Sample altitudes beyond the profile's last data
// point hold the boundary value; the profile is never extrapolated.
func (p *Profile) Resample(heightKm float64, n int) (*Resampled, error) {
	if n < 1 {
		return nil, fmt.Errorf("resample count must be >= 1, got %d", n)
	}
	if heightKm <= 0 {
		return nil, fmt.Errorf("atmosphere height must be positive, got %v", heightKm)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	density, err := interp1d.Fit(p.Altitude, p.Density)
	if err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}
	temperature, err := interp1d.Fit(p.Altitude, p.Temperature)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}

	rs := &Resampled{
		Altitude:    linspace(0, heightKm, n),
		Temperature: make([]float64, n),
		Density:     make([]float64, n),
	}
	for i, alt := range rs.Altitude {
		rs.Density[i] = density.At(alt)
		rs.Temperature[i] = temperature.At(alt)
	}
	return rs, nil
}

// linspace returns n evenly spaced values from lo to hi inclusive.
// For n == 1 it returns just lo.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
