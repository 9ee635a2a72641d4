// Package prism implements the closed-form gravitational fields of
// right rectangular prisms after Nagy et al. (2000): the potential,
// the three acceleration components and the six Marussi tensor
// components, each assembled from log/atan antiderivatives evaluated
// at the eight prism vertices.
//
// Internally the vertical coordinate is upward-positive; the drivers
// flip the g_z family to the downward-positive output convention and
// convert to mGal/Eötvös. Degenerate geometry (zero-thickness prisms,
// observation points on vertices) is never an error: the guarded
// kernels follow the IEEE-754 result of the closed form.
package prism

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/geoscale/gravimod"
	"github.com/geoscale/gravimod/internal/grids"
	"github.com/geoscale/gravimod/internal/parallel"
)

// Prism is an axis-aligned rectangular volume bounded by two easting
// planes (West < East), two northing planes (South < North) and two
// horizontal planes given as upward coordinates. Bottom > Top is not
// rejected; a prism with Bottom == Top has no volume and contributes
// nothing.
type Prism struct {
	West, East   float64
	South, North float64
	Bottom, Top  float64
}

// Forward computes one field value of a single prism at one
// observation point, in SI units with the gravitational constant
// applied and the vertical axis upward-positive. This is the kernel
// signature consumed by the layer coarsening driver.
type Forward func(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64

// ForwardFunc maps a field selector to its per-prism forward
// function. Fields that prisms cannot produce (GR) return
// ErrUnsupportedField.
func ForwardFunc(field gravimod.Field) (Forward, error) {
	switch field {
	case gravimod.Potential:
		return Potential, nil
	case gravimod.GE:
		return GravityE, nil
	case gravimod.GN:
		return GravityN, nil
	case gravimod.GZ:
		return GravityU, nil
	case gravimod.GEE:
		return GravityEE, nil
	case gravimod.GNN:
		return GravityNN, nil
	case gravimod.GZZ:
		return GravityUU, nil
	case gravimod.GEN:
		return GravityEN, nil
	case gravimod.GEZ:
		return GravityEU, nil
	case gravimod.GNZ:
		return GravityNU, nil
	}
	return nil, fmt.Errorf("%w: %s is not a prism field", gravimod.ErrUnsupportedField, field)
}

// OutputFactor converts raw SI, upward-positive prism values to the
// output convention of the field: a sign flip for the g_z family
// (downward-positive outputs) and mGal/Eötvös scaling.
func OutputFactor(field gravimod.Field) float64 {
	factor := field.ConversionFactor()
	switch field {
	case gravimod.GZ, gravimod.GEZ, gravimod.GNZ:
		factor = -factor
	}
	return factor
}

// Gravity returns one field value per observation point, summed over
// all prisms. Coordinates are easting, northing and upward, in
// meters; densities are in kg/m³, one per prism. The potential is
// returned in J/kg, accelerations in mGal (downward-positive g_z) and
// tensor components in Eötvös.
func Gravity(coordinates gravimod.Points, prisms []Prism, density []float64, field gravimod.Field) ([]float64, error) {
	forward, err := ForwardFunc(field)
	if err != nil {
		return nil, err
	}
	if len(density) != len(prisms) {
		return nil, fmt.Errorf("%w: %d densities for %d prisms", gravimod.ErrShapeMismatch, len(density), len(prisms))
	}
	easting, northing, upward, size, err := grids.Broadcast(coordinates)
	if err != nil {
		return nil, err
	}
	out := make([]float64, size)
	parallel.Over(size, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for j := range prisms {
				p := &prisms[j]
				sum += forward(easting[i], northing[i], upward[i], p.West, p.East, p.South, p.North, p.Bottom, p.Top, density[j])
			}
			out[i] = sum
		}
	})
	floats.Scale(OutputFactor(field), out)
	return out, nil
}
