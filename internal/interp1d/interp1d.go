// Package interp1d provides edge-clamped linear interpolation over sparse tables.
package interp1d

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Interpolator evaluates a piecewise-linear fit of (x, y) pairs. Queries
// outside the fitted range return the boundary value; the model never
// extrapolates past its data.
type Interpolator struct {
	pl       interp.PiecewiseLinear
	constant float64
	single   bool
}

// Fit builds an interpolator over xs/ys. xs must be strictly increasing and
// both slices must have equal, non-zero length. A single point yields a
// constant interpolator.
func Fit(xs, ys []float64) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp1d: mismatched table lengths %d and %d", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("interp1d: empty table")
	}
	if len(xs) == 1 {
		return &Interpolator{constant: ys[0], single: true}, nil
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("interp1d: x values not strictly increasing at index %d (%v after %v)", i, xs[i], xs[i-1])
		}
	}
	it := &Interpolator{}
	if err := it.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp1d: fit: %w", err)
	}
	return it, nil
}

// At returns the interpolated value at x, clamped to the table edges.
func (it *Interpolator) At(x float64) float64 {
	if it.single {
		return it.constant
	}
	return it.pl.Predict(x)
}
