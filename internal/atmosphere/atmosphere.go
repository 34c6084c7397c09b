// Package atmosphere assembles the complete layered model handed to the
// external particle-transport engine: ordered layer bounds with material
// descriptors and field vectors, plus placed detector descriptors.
package atmosphere

import (
	"fmt"

	"github.com/atmoslab/atmogeom/internal/config"
	"github.com/atmoslab/atmogeom/internal/detector"
	"github.com/atmoslab/atmogeom/internal/geometry"
	"github.com/atmoslab/atmogeom/internal/magfield"
	"github.com/atmoslab/atmogeom/internal/monitoring"
	"github.com/atmoslab/atmogeom/internal/profile"
)

// Model is the immutable product of one geometry construction. It is built
// once per worker and only read afterwards; the transport engine turns Layers
// into solid regions, Field vectors into field managers and Detectors into
// sensitive-volume registrations.
type Model struct {
	Topology  geometry.Topology
	Offset    geometry.Offset
	Layers    []geometry.Layer
	Materials []geometry.Material
	Detectors []detector.Placed
	// Omitted lists detector requests that fell outside every layer. The
	// omissions are observable here so callers can assert on them; they are
	// warnings, not errors.
	Omitted []detector.Omission
}

// Build constructs a Model from a validated configuration. Configuration and
// lookup errors abort the whole construction; no partial model is ever
// returned. querier supplies the geomagnetic model for source "model"; pass
// nil to use the default web-service client.
func Build(cfg *config.Config, querier magfield.ModelQuerier) (*Model, error) {
	ctor := cfg.Constructor

	topo, layers, offset, err := buildLayers(ctor)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("built %d %s layers spanning local [%.3f, %.3f] km (offset %.3f)",
		len(layers), topo, layers[0].LowerBound, layers[len(layers)-1].UpperBound, float64(offset))

	materials, err := geometry.Materials(layers, ctor.Composition)
	if err != nil {
		return nil, err
	}

	if ctor.MagneticField.Enabled {
		vecs, err := resolveField(ctor, layers, offset, querier)
		if err != nil {
			return nil, err
		}
		for i := range layers {
			layers[i].Field = vecs[i]
		}
	}

	m := &Model{
		Topology:  topo,
		Offset:    offset,
		Layers:    layers,
		Materials: materials,
	}

	if ctor.Detectors.Enabled {
		specs := make([]detector.Spec, len(ctor.Detectors.AltitudesKm))
		for i, alt := range ctor.Detectors.AltitudesKm {
			specs[i] = detector.Spec{AltitudeKm: alt, Particles: ctor.Detectors.Particles}
		}
		placer := &detector.Placer{Layers: m.Layers, Offset: m.Offset}
		m.Detectors, m.Omitted = placer.Place(specs)
		monitoring.Logf("placed %d of %d detectors", len(m.Detectors), len(specs))
	}

	return m, nil
}

// buildLayers produces the layer bounds either from the configuration or from
// a previously exported geometry file.
func buildLayers(ctor config.ConstructorConfig) (geometry.Topology, []geometry.Layer, geometry.Offset, error) {
	if ctor.InputGeometry == "file" {
		monitoring.Logf("loading geometry from %s", ctor.GeometryFile)
		return geometry.ReadFile(ctor.GeometryFile)
	}

	topo, err := geometry.ParseTopology(ctor.Topology)
	if err != nil {
		return 0, nil, 0, err
	}

	prof, err := profile.Load(ctor.DensityProfile.File, ctor.DensityProfile.DayIndex)
	if err != nil {
		return 0, nil, 0, err
	}
	resampled, err := prof.Resample(ctor.HeightKm, ctor.LayerCount)
	if err != nil {
		return 0, nil, 0, err
	}

	layers, offset, err := geometry.Build(geometry.Params{
		Topology:      topo,
		HeightKm:      ctor.HeightKm,
		LayerCount:    ctor.LayerCount,
		SizeKm:        ctor.SizeKm,
		EarthRadiusKm: ctor.EarthRadiusKm,
	})
	if err != nil {
		return 0, nil, 0, err
	}
	for i := range layers {
		layers[i].Density = resampled.Density[i]
		layers[i].Temperature = resampled.Temperature[i]
	}
	return topo, layers, offset, nil
}

// resolveField produces one vector per layer from the configured source. The
// field is treated as locally uniform within a layer; the layer count keeps
// thickness small relative to the field gradient.
func resolveField(ctor config.ConstructorConfig, layers []geometry.Layer, offset geometry.Offset, querier magfield.ModelQuerier) ([]geometry.Vector3, error) {
	mf := ctor.MagneticField
	switch mf.Source {
	case "file":
		monitoring.Logf("reading the magnetic field from %s", mf.File)
		table, err := magfield.LoadTable(mf.File)
		if err != nil {
			return nil, err
		}
		return table.Resolve(layers, offset)
	case "model":
		at, err := mf.Time()
		if err != nil {
			return nil, err
		}
		if querier == nil {
			querier = magfield.NewClient(nil, "")
		}
		decimalYear, _ := mf.DecimalYear()
		monitoring.Logf("estimating magnetic field at latitude %.3f, longitude %.3f, decimal year %.3f",
			mf.LatitudeDeg, mf.LongitudeDeg, decimalYear)
		model := &magfield.Model{
			Querier:      querier,
			LatitudeDeg:  mf.LatitudeDeg,
			LongitudeDeg: mf.LongitudeDeg,
			Date:         at,
		}
		return model.Resolve(layers, offset)
	default:
		return nil, fmt.Errorf("unknown magnetic field source %q", mf.Source)
	}
}
