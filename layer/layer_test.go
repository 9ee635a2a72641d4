package layer

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/geoscale/gravimod"
	"github.com/geoscale/gravimod/prism"
)

func testLayer(t *testing.T) *Layer {
	t.Helper()
	easting := []float64{0, 2.5, 5, 7.5, 10}
	northing := []float64{2, 4, 6, 8}
	l, err := New(easting, northing, Constant(4, 5, 2), Constant(4, 5, 0), Constant(4, 5, 2670))
	require.NoError(t, err)
	return l
}

func TestNewGeometry(t *testing.T) {
	l := testLayer(t)

	nNorth, nEast := l.Shape()
	if nNorth != 4 || nEast != 5 {
		t.Errorf("Shape = (%d, %d), want (4, 5)", nNorth, nEast)
	}
	if got := l.Size(); got != 20 {
		t.Errorf("Size = %d, want 20", got)
	}
	sNorth, sEast := l.Spacing()
	if sNorth != 2 || sEast != 2.5 {
		t.Errorf("Spacing = (%g, %g), want (2, 2.5)", sNorth, sEast)
	}

	west, east, south, north := l.Boundaries()
	if west != -1.25 || east != 11.25 || south != 1 || north != 9 {
		t.Errorf("Boundaries = (%g, %g, %g, %g), want (-1.25, 11.25, 1, 9)", west, east, south, north)
	}

	want := prism.Prism{West: 3.75, East: 6.25, South: 1, North: 3, Bottom: 0, Top: 2}
	if got := l.Prism(0, 2); got != want {
		t.Errorf("Prism(0, 2) = %+v, want %+v", got, want)
	}
	if got := l.Density(0, 2); got != 2670 {
		t.Errorf("Density(0, 2) = %g, want 2670", got)
	}

	prisms, density := l.Prisms()
	if len(prisms) != 20 || len(density) != 20 {
		t.Errorf("Prisms returned %d prisms, %d densities, want 20 each", len(prisms), len(density))
	}
}

func TestNewSwapsSurfaceBelowReference(t *testing.T) {
	// A bathymetric layer: the surface sits below the zero reference,
	// so the reference becomes the top.
	easting := []float64{0, 1, 2}
	northing := []float64{0, 1}
	l, err := New(easting, northing, Constant(2, 3, -150), Constant(2, 3, 0), Constant(2, 3, -1670))
	require.NoError(t, err)

	p := l.Prism(1, 1)
	if p.Top != 0 || p.Bottom != -150 {
		t.Errorf("Prism(1, 1) top/bottom = %g/%g, want 0/-150", p.Top, p.Bottom)
	}
}

func TestNewErrors(t *testing.T) {
	surface := Constant(2, 3, 1)
	reference := Constant(2, 3, 0)
	density := Constant(2, 3, 2670)

	tests := []struct {
		name     string
		easting  []float64
		northing []float64
		density  *mat.Dense
		want     error
	}{
		{"non-uniform easting", []float64{0, 1, 3}, []float64{0, 1}, density, gravimod.ErrNonUniformGrid},
		{"descending northing", []float64{0, 1, 2}, []float64{1, 0}, density, gravimod.ErrNonUniformGrid},
		{"density shape", []float64{0, 1, 2}, []float64{0, 1}, Constant(3, 2, 2670), gravimod.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.easting, tt.northing, surface, reference, tt.density)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPrismsSkipUndefinedCells(t *testing.T) {
	easting := []float64{0, 10, 20}
	northing := []float64{0, 10}
	density := Constant(2, 3, 2670)
	density.Set(1, 2, math.NaN())
	surface := Constant(2, 3, 5)
	surface.Set(0, 0, math.NaN())

	l, err := New(easting, northing, surface, Constant(2, 3, 0), density)
	require.NoError(t, err)

	prisms, densities := l.Prisms()
	if len(prisms) != 4 {
		t.Fatalf("got %d prisms, want 4", len(prisms))
	}
	for _, rho := range densities {
		if math.IsNaN(rho) {
			t.Error("NaN density survived the filter")
		}
	}
}

func TestGravityMatchesPrismSum(t *testing.T) {
	l := testLayer(t)
	coordinates := gravimod.Points{{0, 5, 10}, {5, 5, 5}, {30, 40, 50}}

	for _, field := range []gravimod.Field{gravimod.Potential, gravimod.GZ, gravimod.GZZ} {
		got, err := l.Gravity(coordinates, field)
		require.NoError(t, err)

		prisms, density := l.Prisms()
		want, err := prism.Gravity(coordinates, prisms, density, field)
		require.NoError(t, err)
		require.Equal(t, want, got, "field %v", field)
	}
}

func TestGravityThicknessThreshold(t *testing.T) {
	easting := []float64{0, 10, 20}
	northing := []float64{0, 10}
	surface := Constant(2, 3, 10)
	surface.Set(0, 1, 0.5) // thin cell
	l, err := New(easting, northing, surface, Constant(2, 3, 0), Constant(2, 3, 2670))
	require.NoError(t, err)

	coordinates := gravimod.Points{{10}, {5}, {100}}
	full, err := l.Gravity(coordinates, gravimod.GZ)
	require.NoError(t, err)
	trimmed, err := l.Gravity(coordinates, gravimod.GZ, WithThicknessThreshold(1))
	require.NoError(t, err)

	// Dropping the thin cell removes its (small) contribution.
	if trimmed[0] >= full[0] {
		t.Errorf("trimmed g_z = %g, want less than full %g", trimmed[0], full[0])
	}
	if !scalar.EqualWithinAbsOrRel(trimmed[0], full[0], 0, 0.05) {
		t.Errorf("trimmed g_z = %g differs from full %g by more than the thin cell should account for", trimmed[0], full[0])
	}
}

// roughLayer builds a deterministic layer with undulating topography
// and density for the coarsening tests.
func roughLayer(t *testing.T, size int) *Layer {
	t.Helper()
	const spacing = 100.0
	easting := make([]float64, size)
	northing := make([]float64, size)
	for i := range easting {
		easting[i] = float64(i) * spacing
		northing[i] = float64(i) * spacing
	}
	surface := mat.NewDense(size, size, nil)
	density := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			surface.Set(i, j, 150+80*math.Sin(0.7*float64(i))*math.Cos(1.3*float64(j)))
			density.Set(i, j, 2670+50*math.Sin(0.9*float64(i+j)))
		}
	}
	l, err := New(easting, northing, surface, Constant(size, size, 0), density)
	require.NoError(t, err)
	return l
}

func TestGravityCoarserFactorOneIsExact(t *testing.T) {
	// With factor 1 every coarse block is a single fine prism, so the
	// split into near and far regions cannot change the result.
	l := roughLayer(t, 12)
	coordinates := gravimod.Points{{550, 0, 1100}, {550, 0, 0}, {1000, 500, 800}}

	want, err := l.Gravity(coordinates, gravimod.GZ)
	require.NoError(t, err)
	got, err := l.GravityCoarser(coordinates, gravimod.GZ, 250, 1)
	require.NoError(t, err)
	if !floats.EqualApprox(got, want, 1e-12) {
		t.Errorf("factor 1 coarsening = %v, exact = %v", got, want)
	}
}

func TestGravityCoarserFullWindowIsExact(t *testing.T) {
	// A near window covering the whole grid leaves no blocks to
	// coarsen, whatever the factor.
	l := roughLayer(t, 12)
	coordinates := gravimod.Points{{550}, {550}, {1000}}

	want, err := l.Gravity(coordinates, gravimod.GZ)
	require.NoError(t, err)
	for _, factor := range []int{1, 2, 3, 5} {
		got, err := l.GravityCoarser(coordinates, gravimod.GZ, 5000, factor)
		require.NoError(t, err)
		if !floats.EqualApprox(got, want, 1e-12) {
			t.Errorf("factor %d full-window coarsening = %g, exact = %g", factor, got[0], want[0])
		}
	}
}

func TestGravityCoarserApproximatesExact(t *testing.T) {
	l := roughLayer(t, 12)
	coordinates := gravimod.Points{{550, 200}, {550, 900}, {1000, 1500}}

	exact, err := l.Gravity(coordinates, gravimod.GZ)
	require.NoError(t, err)
	approx, err := l.GravityCoarser(coordinates, gravimod.GZ, 300, 3)
	require.NoError(t, err)
	for i := range exact {
		if !scalar.EqualWithinAbsOrRel(approx[i], exact[i], 0, 2e-2) {
			t.Errorf("point %d: coarsened g_z = %g, exact %g", i, approx[i], exact[i])
		}
	}
}

func TestGravityCoarserSkipsUndefinedBlocks(t *testing.T) {
	// A factor-aligned block of NaN density is treated as absent mass
	// by both the exact and the coarsened model.
	l := roughLayer(t, 12)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			l.density.Set(i, j, math.NaN())
		}
	}
	// Observation far from the NaN corner so the near window stays
	// clear of it.
	coordinates := gravimod.Points{{1000}, {1000}, {1200}}

	exact, err := l.Gravity(coordinates, gravimod.GZ)
	require.NoError(t, err)
	approx, err := l.GravityCoarser(coordinates, gravimod.GZ, 250, 3)
	require.NoError(t, err)
	if math.IsNaN(approx[0]) {
		t.Fatal("coarsened g_z is NaN")
	}
	if !scalar.EqualWithinAbsOrRel(approx[0], exact[0], 0, 2e-2) {
		t.Errorf("coarsened g_z = %g, exact %g", approx[0], exact[0])
	}
}

func TestGravityCoarserErrors(t *testing.T) {
	l := roughLayer(t, 6)
	coordinates := gravimod.Points{{100}, {100}, {500}}

	t.Run("invalid factor", func(t *testing.T) {
		_, err := l.GravityCoarser(coordinates, gravimod.GZ, 100, 0)
		require.Error(t, err)
	})

	t.Run("unsupported field", func(t *testing.T) {
		_, err := l.GravityCoarser(coordinates, gravimod.GR, 100, 2)
		require.ErrorIs(t, err, gravimod.ErrUnsupportedField)
	})

	t.Run("grid shape mismatch", func(t *testing.T) {
		easting := []float64{0, 100, 200}
		northing := []float64{0, 100}
		bottom := Constant(2, 3, 0)
		top := Constant(2, 3, 100)
		density := Constant(3, 3, 2670) // wrong rows
		_, err := GravityCoarser(coordinates, easting, northing, bottom, top, density, prism.GravityU, 100, 2)
		require.ErrorIs(t, err, gravimod.ErrShapeMismatch)
	})

	t.Run("non-uniform easting", func(t *testing.T) {
		easting := []float64{0, 100, 300}
		northing := []float64{0, 100}
		grid := Constant(2, 3, 0)
		_, err := GravityCoarser(coordinates, easting, northing, grid, grid, grid, prism.GravityU, 100, 2)
		require.ErrorIs(t, err, gravimod.ErrNonUniformGrid)
	})
}
