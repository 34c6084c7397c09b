// Package detector places point-like sensitive measurement volumes into
// atmosphere layers with boundary-safe positioning.
package detector

import (
	"github.com/atmoslab/atmogeom/internal/geometry"
	"github.com/atmoslab/atmogeom/internal/monitoring"
	"github.com/atmoslab/atmogeom/internal/units"
)

// FixedHalfSizeKm is the preferred detector half-extent along the altitude
// axis: 5 mm. The size rule shrinks it further when a layer is thin.
const FixedHalfSizeKm = 5 * units.Millimeter

// Spec is one requested detector: a real-world altitude and the particle
// names the external recorder accepts. Owned by configuration; read-only here.
type Spec struct {
	AltitudeKm float64
	Particles  []string
}

// Placed locates one detector inside its enclosing layer. LocalPosition is
// relative to the layer's midpoint along the altitude axis (the radial axis
// for the curved topology); HalfSize is the half-extent along the same axis.
type Placed struct {
	SpecIndex     int
	LayerIndex    int
	LocalPosition float64
	HalfSize      float64
}

// Omission records a detector request whose altitude fell outside every
// layer. The detector is simply absent from the model; some layer
// configurations deliberately exclude the ground or topmost band.
type Omission struct {
	SpecIndex  int
	AltitudeKm float64
}

// Placer resolves detector requests against built layer bounds.
type Placer struct {
	Layers []geometry.Layer
	Offset geometry.Offset
}

// Place returns one Placed per spec that falls inside a layer, in spec order,
// plus an Omission for each request outside all layer bounds. Omissions are
// logged as warnings but never abort construction: fewer detectors, not fewer
// layers.
func (p *Placer) Place(specs []Spec) ([]Placed, []Omission) {
	var placed []Placed
	var omitted []Omission

	for i, s := range specs {
		local := p.Offset.LocalOf(s.AltitudeKm)
		layer, ok := p.enclosing(local)
		if !ok {
			monitoring.Logf("WARNING: detector %d at altitude %.3f km (local %.3f) is outside all layers; omitted", i, s.AltitudeKm, local)
			omitted = append(omitted, Omission{SpecIndex: i, AltitudeKm: s.AltitudeKm})
			continue
		}

		// Never let the detector exceed 1/10 of its layer's thickness,
		// regardless of configuration: it must not span into a neighbour.
		half := FixedHalfSizeKm
		if limit := layer.Thickness() / 20; limit < half {
			half = limit
		}

		halfThickness := layer.Thickness() / 2
		pos := local - layer.Midpoint()
		if pos+half > halfThickness {
			// Outer face touches the upper bound.
			pos = halfThickness - half
		} else if pos-half < -halfThickness {
			// Inner face touches the lower bound.
			pos = -halfThickness + half
		}

		placed = append(placed, Placed{
			SpecIndex:     i,
			LayerIndex:    layer.Index,
			LocalPosition: pos,
			HalfSize:      half,
		})
	}
	return placed, omitted
}

// enclosing returns the first layer, in index order, whose bounds contain the
// local coordinate. On a boundary shared by two layers the lower index wins.
func (p *Placer) enclosing(local float64) (geometry.Layer, bool) {
	for _, l := range p.Layers {
		if l.Contains(local) {
			return l, true
		}
	}
	return geometry.Layer{}, false
}
