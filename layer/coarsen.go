package layer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/geoscale/gravimod"
	"github.com/geoscale/gravimod/internal/grids"
	"github.com/geoscale/gravimod/internal/parallel"
	"github.com/geoscale/gravimod/prism"
)

// GravityCoarser approximates the raw SI field of a regular prism
// grid at each observation point. Prisms whose centers lie within
// fineDistance of the point along both axes form the near region and
// are evaluated one by one; the rest of the grid is tiled into
// factor x factor blocks, each collapsed into a single coarse prism
// with block-averaged bottom, top and density. Blocks overlapping the
// near window are skipped, so a window covering the whole grid
// degenerates to exact summation. Trailing blocks at the grid edges
// may be ragged and average only the cells they contain; blocks whose
// mean density is NaN are treated as absent mass.
//
// Costs scale with the window area plus the block count instead of
// the total prism count. No sign flip or unit conversion is applied
// here; callers convert per field, as (*Layer).GravityCoarser does.
func GravityCoarser(coordinates gravimod.Points, easting, northing []float64, bottom, top, density *mat.Dense, forward prism.Forward, fineDistance float64, factor int) ([]float64, error) {
	if factor < 1 {
		return nil, fmt.Errorf("coarsening factor must be at least 1, got %d", factor)
	}
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
		{"bottom", bottom},
		{"top", top},
		{"density", density},
	} {
		if r, c := grid.m.Dims(); r != nNorth || c != nEast {
			return nil, fmt.Errorf("%w: %s grid is %dx%d, grid coordinates are %dx%d",
				gravimod.ErrShapeMismatch, grid.name, r, c, nNorth, nEast)
		}
	}
	obsE, obsN, obsU, size, err := grids.Broadcast(coordinates)
	if err != nil {
		return nil, err
	}
	g := coarseGrid{
		easting:      easting,
		northing:     northing,
		bottom:       bottom,
		top:          top,
		density:      density,
		sEast:        sEast,
		sNorth:       sNorth,
		fineDistance: fineDistance,
		factor:       factor,
	}
	out := make([]float64, size)
	parallel.Over(size, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = g.forwardPoint(obsE[i], obsN[i], obsU[i], forward)
		}
	})
	return out, nil
}

// GravityCoarser computes the coarsened forward model of the layer
// for a field selector, applying the same sign and unit conventions
// as the exact forward model.
func (l *Layer) GravityCoarser(coordinates gravimod.Points, field gravimod.Field, fineDistance float64, factor int) ([]float64, error) {
	forward, err := prism.ForwardFunc(field)
	if err != nil {
		return nil, err
	}
	out, err := GravityCoarser(coordinates, l.easting, l.northing, l.bottom, l.top, l.density, forward, fineDistance, factor)
	if err != nil {
		return nil, err
	}
	floats.Scale(prism.OutputFactor(field), out)
	return out, nil
}

type coarseGrid struct {
	easting, northing    []float64
	bottom, top, density *mat.Dense
	sEast, sNorth        float64
	fineDistance         float64
	factor               int
}

func (g *coarseGrid) forwardPoint(easting, northing, upward float64, forward prism.Forward) float64 {
	nEast, nNorth := len(g.easting), len(g.northing)
	halfE, halfN := g.sEast/2, g.sNorth/2

	iMin, iMax := window(easting, g.easting[0], g.sEast, g.fineDistance, nEast)
	jMin, jMax := window(northing, g.northing[0], g.sNorth, g.fineDistance, nNorth)

	var sum float64
	// Near region: every fine prism with its own geometry and density.
	for j := jMin; j < jMax; j++ {
		south, north := g.northing[j]-halfN, g.northing[j]+halfN
		for i := iMin; i < iMax; i++ {
			sum += forward(easting, northing, upward,
				g.easting[i]-halfE, g.easting[i]+halfE, south, north,
				g.bottom.At(j, i), g.top.At(j, i), g.density.At(j, i))
		}
	}

	// Far region: blocks of factor x factor prisms collapsed into one
	// prism of averaged geometry and density.
	for j0 := 0; j0 < nNorth; j0 += g.factor {
		j1 := min(j0+g.factor, nNorth)
		for i0 := 0; i0 < nEast; i0 += g.factor {
			i1 := min(i0+g.factor, nEast)
			if i0 < iMax && i1 > iMin && j0 < jMax && j1 > jMin {
				continue // overlaps the near window
			}
			rho := blockMean(g.density, j0, j1, i0, i1)
			if math.IsNaN(rho) {
				continue
			}
			sum += forward(easting, northing, upward,
				g.easting[i0]-halfE, g.easting[i1-1]+halfE,
				g.northing[j0]-halfN, g.northing[j1-1]+halfN,
				blockMean(g.bottom, j0, j1, i0, i1),
				blockMean(g.top, j0, j1, i0, i1),
				rho)
		}
	}
	return sum
}

// window returns the half-open index range of grid centers within
// distance of x along one axis, clamped to [0, size).
func window(x, center0, spacing, distance float64, size int) (lo, hi int) {
	lo = int(math.Ceil((x - distance - center0) / spacing))
	hi = int(math.Floor((x+distance-center0)/spacing)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > size {
		hi = size
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// blockMean averages m over the half-open index block. NaN entries
// poison the mean, which callers use to drop blocks with undefined
// density.
func blockMean(m *mat.Dense, r0, r1, c0, c1 int) float64 {
	var sum float64
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			sum += m.At(r, c)
		}
	}
	return sum / float64((r1-r0)*(c1-c0))
}
