// Package magfield resolves one magnetic-field vector per atmosphere layer,
// either by interpolating a measured field table or by querying a geomagnetic
// model at a fixed location and epoch.
package magfield

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atmoslab/atmogeom/internal/geometry"
	"github.com/atmoslab/atmogeom/internal/interp1d"
	"github.com/atmoslab/atmogeom/internal/units"
)

// Sample is one row of a field table: components in tesla, altitude in
// kilometres. Altitude is real altitude (ground = 0); local layer midpoints
// are converted through the correction offset before interpolating.
type Sample struct {
	X        float64
	Y        float64
	Z        float64
	Altitude float64
}

// Table is an altitude-ordered field table loaded from a measurement file.
type Table struct {
	samples []Sample
}

// NewTable builds a table from samples already normalised to tesla/kilometres.
// Altitudes must be strictly increasing when there is more than one sample.
func NewTable(samples []Sample) (*Table, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("field table is empty")
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Altitude <= samples[i-1].Altitude {
			return nil, fmt.Errorf("field table altitudes not strictly increasing at row %d", i)
		}
	}
	return &Table{samples: samples}, nil
}

// Len returns the number of samples in the table.
func (t *Table) Len() int { return len(t.samples) }

// LoadTable reads a CSV field table with header columns x, y, z, altitude.
// Components are given in nanotesla and altitudes in kilometres; values are
// normalised to tesla on load. Extra columns (latitude, longitude, date) are
// metadata for surrounding tooling and are ignored here.
func LoadTable(path string) (*Table, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".csv" {
		return nil, fmt.Errorf("unsupported field table extension %q (want .csv)", ext)
	}
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open field table: %w", err)
	}
	defer f.Close()

	t, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("field table %s: %w", cleanPath, err)
	}
	return t, nil
}

func readTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"x", "y", "z", "altitude"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var samples []Sample
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		s := Sample{}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"x", &s.X},
			{"y", &s.Y},
			{"z", &s.Z},
			{"altitude", &s.Altitude},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(rec[col[f.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, f.name, err)
			}
			*f.dst = v
		}
		// Input components are nanotesla; normalise to tesla. Altitude stays
		// in kilometres, the builder length unit.
		s.X = units.NanoteslaToTesla(s.X)
		s.Y = units.NanoteslaToTesla(s.Y)
		s.Z = units.NanoteslaToTesla(s.Z)
		samples = append(samples, s)
	}
	return NewTable(samples)
}

// Resolve interpolates the table at each layer's midpoint, converted from
// local coordinates to real altitude through the correction offset. Each of
// the three components is interpolated independently, clamped at the table
// edges. The result has exactly one vector per layer, in layer index order.
func (t *Table) Resolve(layers []geometry.Layer, offset geometry.Offset) ([]geometry.Vector3, error) {
	alts := make([]float64, len(t.samples))
	xs := make([]float64, len(t.samples))
	ys := make([]float64, len(t.samples))
	zs := make([]float64, len(t.samples))
	for i, s := range t.samples {
		alts[i], xs[i], ys[i], zs[i] = s.Altitude, s.X, s.Y, s.Z
	}

	ix, err := interp1d.Fit(alts, xs)
	if err != nil {
		return nil, fmt.Errorf("field x component: %w", err)
	}
	iy, err := interp1d.Fit(alts, ys)
	if err != nil {
		return nil, fmt.Errorf("field y component: %w", err)
	}
	iz, err := interp1d.Fit(alts, zs)
	if err != nil {
		return nil, fmt.Errorf("field z component: %w", err)
	}

	vecs := make([]geometry.Vector3, len(layers))
	for i, l := range layers {
		realAlt := offset.RealOf(l.Midpoint())
		vecs[i] = geometry.Vector3{X: ix.At(realAlt), Y: iy.At(realAlt), Z: iz.At(realAlt)}
	}
	return vecs, nil
}

// ModelQuerier supplies geomagnetic model values at a geodetic point and date.
// Intensities are returned in nanotesla; down is the vertical intensity,
// positive towards the centre of the Earth.
type ModelQuerier interface {
	Query(latDeg, lonDeg, altKm float64, at time.Time) (north, east, down float64, err error)
}

// Model resolves per-layer vectors by querying a geomagnetic model at a fixed
// latitude/longitude/date for each layer's midpoint altitude.
type Model struct {
	Querier      ModelQuerier
	LatitudeDeg  float64
	LongitudeDeg float64
	Date         time.Time
}

// Resolve queries the model once per layer midpoint (converted to real
// altitude). The model's vertical intensity is positive down while the
// builder z axis increases with altitude, so the z component is negated.
// Output is scaled from nanotesla to tesla.
func (m *Model) Resolve(layers []geometry.Layer, offset geometry.Offset) ([]geometry.Vector3, error) {
	if m.Querier == nil {
		return nil, fmt.Errorf("magnetic field model querier is not configured")
	}
	vecs := make([]geometry.Vector3, len(layers))
	for i, l := range layers {
		realAlt := offset.RealOf(l.Midpoint())
		north, east, down, err := m.Querier.Query(m.LatitudeDeg, m.LongitudeDeg, realAlt, m.Date)
		if err != nil {
			return nil, fmt.Errorf("layer %d (altitude %.3f km): %w", i, realAlt, err)
		}
		vecs[i] = geometry.Vector3{
			X: units.NanoteslaToTesla(north),
			Y: units.NanoteslaToTesla(east),
			Z: units.NanoteslaToTesla(-down),
		}
	}
	return vecs, nil
}
