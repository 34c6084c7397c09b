// Package geometry builds the layered atmosphere geometry: N contiguous
// altitude bands laid out as flat slabs or curved shells, plus the correction
// offset that converts between local builder coordinates and real altitude.
package geometry

import (
	"fmt"
)

// Topology selects the geometric family used to lay out layers.
type Topology int

const (
	// Flat stacks planar slabs along one axis; the world spans
	// [-height/2, +height/2] in local coordinates.
	Flat Topology = iota
	// Curved stacks concentric spherical shells starting at the Earth radius.
	Curved
)

// ParseTopology converts a configuration string to a Topology.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "flat":
		return Flat, nil
	case "curved":
		return Curved, nil
	default:
		return 0, fmt.Errorf("unknown topology %q (want flat or curved)", s)
	}
}

func (t Topology) String() string {
	switch t {
	case Flat:
		return "flat"
	case Curved:
		return "curved"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// Vector3 is a cartesian magnetic-field vector in tesla. Z increases with
// altitude.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Offset converts between local builder coordinates and real geophysical
// altitude (ground = 0): local = real + offset. Flat worlds use -height/2 so
// that the bottom layer's lower bound sits at real altitude zero; curved
// worlds use the Earth radius so that ground sits on the innermost shell.
type Offset float64

// LocalOf converts a real altitude to the local builder coordinate.
func (o Offset) LocalOf(realAlt float64) float64 { return realAlt + float64(o) }

// RealOf converts a local builder coordinate to real altitude.
func (o Offset) RealOf(local float64) float64 { return local - float64(o) }

// Layer is one altitude band of the atmosphere model. Bounds are local
// builder coordinates in kilometres; layers are contiguous and ordered by
// Index, with UpperBound[i] == LowerBound[i+1].
type Layer struct {
	Index       int     `json:"index"`
	LowerBound  float64 `json:"lower_bound_km"`
	UpperBound  float64 `json:"upper_bound_km"`
	Density     float64 `json:"density_kg_m3"`
	Temperature float64 `json:"temperature_k"`
	Field       Vector3 `json:"field_t"`
}

// Thickness returns the layer's extent along the altitude axis.
func (l Layer) Thickness() float64 { return l.UpperBound - l.LowerBound }

// Midpoint returns the layer's geometric midpoint in local coordinates.
func (l Layer) Midpoint() float64 { return (l.LowerBound + l.UpperBound) / 2 }

// Contains reports whether the local coordinate falls within the layer,
// bounds inclusive.
func (l Layer) Contains(local float64) bool {
	return local >= l.LowerBound && local <= l.UpperBound
}

// Params are the inputs to Build.
type Params struct {
	Topology      Topology
	HeightKm      float64 // total atmosphere height
	LayerCount    int
	SizeKm        float64 // lateral extent: slab side for flat, arc length at ground for curved
	EarthRadiusKm float64 // curved only
}

// Build computes the ordered layer bounds and the correction offset for the
// requested topology. Layer i's bounds are derived from the shared grid
// i*height/count so adjacent layers share their boundary exactly; a gap
// between layers would let particles skip material.
func Build(p Params) ([]Layer, Offset, error) {
	if p.LayerCount < 1 {
		return nil, 0, fmt.Errorf("layer count must be >= 1, got %d", p.LayerCount)
	}
	if p.HeightKm <= 0 {
		return nil, 0, fmt.Errorf("atmosphere height must be positive, got %v", p.HeightKm)
	}

	var offset Offset
	switch p.Topology {
	case Flat:
		offset = Offset(-p.HeightKm / 2)
	case Curved:
		if p.EarthRadiusKm <= 0 {
			return nil, 0, fmt.Errorf("earth radius must be positive for curved topology, got %v", p.EarthRadiusKm)
		}
		offset = Offset(p.EarthRadiusKm)
	default:
		return nil, 0, fmt.Errorf("unknown topology %v", p.Topology)
	}

	layers := make([]Layer, p.LayerCount)
	for i := range layers {
		layers[i] = Layer{
			Index:      i,
			LowerBound: offset.LocalOf(float64(i) * p.HeightKm / float64(p.LayerCount)),
			UpperBound: offset.LocalOf(float64(i+1) * p.HeightKm / float64(p.LayerCount)),
		}
	}
	return layers, offset, nil
}

// SectorAngle returns the angular aperture in radians of a curved world whose
// arc length at the Earth radius equals sizeKm. The transport engine uses it
// to bound the spherical shell solids laterally.
func SectorAngle(sizeKm, earthRadiusKm float64) float64 {
	return sizeKm / earthRadiusKm
}
