// Package grids canonicalizes coordinate arrays before the forward
// drivers iterate over them: broadcasting scalar components to a
// common length and checking the even-spacing precondition of regular
// prism grids.
package grids

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/geoscale/gravimod"
)

// Tolerances of the even-spacing check, matching numpy.allclose.
const (
	spacingRelTol = 1e-5
	spacingAbsTol = 1e-8
)

// Broadcast flattens a point set into three coordinate slices of a
// common length. Components of length one are expanded; any other
// length disagreement returns ErrShapeMismatch.
func Broadcast(p gravimod.Points) (a, b, c []float64, n int, err error) {
	n = 1
	for i, component := range p {
		if len(component) == 0 {
			return nil, nil, nil, 0, fmt.Errorf("%w: coordinate component %d is empty", gravimod.ErrShapeMismatch, i)
		}
		if len(component) > n {
			n = len(component)
		}
	}
	out := [3][]float64{}
	for i, component := range p {
		switch len(component) {
		case n:
			out[i] = component
		case 1:
			expanded := make([]float64, n)
			for j := range expanded {
				expanded[j] = component[0]
			}
			out[i] = expanded
		default:
			return nil, nil, nil, 0, fmt.Errorf(
				"%w: coordinate component %d has length %d, want 1 or %d",
				gravimod.ErrShapeMismatch, i, len(component), n,
			)
		}
	}
	return out[0], out[1], out[2], n, nil
}

// Spacing returns the common distance between consecutive grid center
// coordinates. Every consecutive difference is compared against the
// first within floating tolerance; disagreement returns
// ErrNonUniformGrid. Coordinates must be ascending.
func Spacing(coords []float64) (float64, error) {
	if len(coords) < 2 {
		return 0, fmt.Errorf("%w: need at least two grid coordinates, got %d", gravimod.ErrShapeMismatch, len(coords))
	}
	spacing := coords[1] - coords[0]
	if spacing <= 0 {
		return 0, fmt.Errorf("%w: coordinates are not ascending", gravimod.ErrNonUniformGrid)
	}
	for i := 2; i < len(coords); i++ {
		if !scalar.EqualWithinAbsOrRel(coords[i]-coords[i-1], spacing, spacingAbsTol, spacingRelTol) {
			return 0, fmt.Errorf(
				"%w: spacing between coordinates %d and %d is %g, want %g",
				gravimod.ErrNonUniformGrid, i-1, i, coords[i]-coords[i-1], spacing,
			)
		}
	}
	return spacing, nil
}
