// Package layer models a regular grid of equal-size vertical prisms:
// a 2-D arrangement of right rectangular prisms sharing horizontal
// dimensions, with per-cell top, bottom and density. It provides an
// exact forward model and a coarsened one that collapses far-field
// blocks of prisms into averaged coarse prisms.
package layer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/geoscale/gravimod"
	"github.com/geoscale/gravimod/internal/grids"
	"github.com/geoscale/gravimod/prism"
)

// Layer is a regular grid of prisms. Rows index northing, columns
// index easting, following the (northing, easting) layout of the top,
// bottom and density grids. Cells with NaN top, bottom or density
// mark absent prisms.
type Layer struct {
	easting  []float64 // prism center eastings, ascending, evenly spaced
	northing []float64 // prism center northings, ascending, evenly spaced
	top      *mat.Dense
	bottom   *mat.Dense
	density  *mat.Dense
	sEast    float64
	sNorth   float64
}

// New builds a layer from prism center coordinates, a surface, a
// reference and a density grid. The top and bottom of each prism are
// the surface and reference values; where the surface lies below the
// reference the two are swapped, so the layer can represent both
// topography above and bathymetry below a reference level.
//
// The center coordinates must be ascending and evenly spaced
// (ErrNonUniformGrid otherwise) and all grids must be
// len(northing) x len(easting) (ErrShapeMismatch otherwise).
func New(easting, northing []float64, surface, reference, density *mat.Dense) (*Layer, error) {
	sEast, err := grids.Spacing(easting)
	if err != nil {
		return nil, fmt.Errorf("easting: %w", err)
	}
	sNorth, err := grids.Spacing(northing)
	if err != nil {
		return nil, fmt.Errorf("northing: %w", err)
	}
	nNorth, nEast := len(northing), len(easting)
	for _, grid := range []struct {
		name string
		m    *mat.Dense
	}{
		{"surface", surface},
		{"reference", reference},
		{"density", density},
	} {
		if r, c := grid.m.Dims(); r != nNorth || c != nEast {
			return nil, fmt.Errorf("%w: %s grid is %dx%d, layer is %dx%d",
				gravimod.ErrShapeMismatch, grid.name, r, c, nNorth, nEast)
		}
	}
	top := mat.NewDense(nNorth, nEast, nil)
	bottom := mat.NewDense(nNorth, nEast, nil)
	for i := 0; i < nNorth; i++ {
		for j := 0; j < nEast; j++ {
			t, b := surface.At(i, j), reference.At(i, j)
			if t < b {
				t, b = b, t
			}
			top.Set(i, j, t)
			bottom.Set(i, j, b)
		}
	}
	return &Layer{
		easting:  easting,
		northing: northing,
		top:      top,
		bottom:   bottom,
		density:  mat.DenseCopyOf(density),
		sEast:    sEast,
		sNorth:   sNorth,
	}, nil
}

// Constant returns a rows x cols grid filled with v, for uniform
// reference surfaces or densities.
func Constant(rows, cols int, v float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(rows, cols, data)
}

// Shape returns the number of prisms along northing and easting.
func (l *Layer) Shape() (nNorth, nEast int) {
	return len(l.northing), len(l.easting)
}

// Size returns the total number of prisms in the layer.
func (l *Layer) Size() int {
	return len(l.northing) * len(l.easting)
}

// Spacing returns the distance between prism centers along northing
// and easting.
func (l *Layer) Spacing() (sNorth, sEast float64) {
	return l.sNorth, l.sEast
}

// Boundaries returns the horizontal extent of the layer, half a
// spacing beyond the outermost centers: west, east, south, north.
func (l *Layer) Boundaries() (west, east, south, north float64) {
	west = floats.Min(l.easting) - l.sEast/2
	east = floats.Max(l.easting) + l.sEast/2
	south = floats.Min(l.northing) - l.sNorth/2
	north = floats.Max(l.northing) + l.sNorth/2
	return west, east, south, north
}

// Prism returns the boundaries of the cell at (northing index i,
// easting index j).
func (l *Layer) Prism(i, j int) prism.Prism {
	return prism.Prism{
		West:   l.easting[j] - l.sEast/2,
		East:   l.easting[j] + l.sEast/2,
		South:  l.northing[i] - l.sNorth/2,
		North:  l.northing[i] + l.sNorth/2,
		Bottom: l.bottom.At(i, j),
		Top:    l.top.At(i, j),
	}
}

// Density returns the density of the cell at (i, j).
func (l *Layer) Density(i, j int) float64 {
	return l.density.At(i, j)
}

// Prisms returns the boundaries and densities of every cell whose
// top, bottom and density are all defined, in row-major
// (northing, easting) order.
func (l *Layer) Prisms() ([]prism.Prism, []float64) {
	return l.prisms(math.Inf(-1))
}

func (l *Layer) prisms(thicknessThreshold float64) ([]prism.Prism, []float64) {
	nNorth, nEast := l.Shape()
	prisms := make([]prism.Prism, 0, l.Size())
	density := make([]float64, 0, l.Size())
	for i := 0; i < nNorth; i++ {
		for j := 0; j < nEast; j++ {
			top, bottom, rho := l.top.At(i, j), l.bottom.At(i, j), l.density.At(i, j)
			if math.IsNaN(top) || math.IsNaN(bottom) || math.IsNaN(rho) {
				continue
			}
			if top-bottom < thicknessThreshold {
				continue
			}
			prisms = append(prisms, l.Prism(i, j))
			density = append(density, rho)
		}
	}
	return prisms, density
}

// Option configures a forward model run.
type Option func(*options)

type options struct {
	thicknessThreshold float64
}

// WithThicknessThreshold discards prisms thinner than t from the
// forward model. Thin prisms contribute little signal but still cost
// a kernel evaluation each.
func WithThicknessThreshold(t float64) Option {
	return func(o *options) {
		o.thicknessThreshold = t
	}
}

// Gravity computes the field of the layer at the observation points
// by exact summation over every defined prism, via prism.Gravity.
// Coordinates are easting, northing, upward in meters.
func (l *Layer) Gravity(coordinates gravimod.Points, field gravimod.Field, opts ...Option) ([]float64, error) {
	o := options{thicknessThreshold: math.Inf(-1)}
	for _, opt := range opts {
		opt(&o)
	}
	prisms, density := l.prisms(o.thicknessThreshold)
	return prism.Gravity(coordinates, prisms, density, field)
}
