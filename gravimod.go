// Package gravimod provides forward gravity modelling of idealized
// mass distributions: point masses, right rectangular prisms and
// regular prism layers, plus the associated Legendre function tables
// used for spherical harmonic synthesis.
//
// Units are fixed by contract across the module: positions and
// distances in meters, angles in degrees at the interfaces, mass in
// kilograms, density in kg/m³. Gravitational potential is returned in
// J/kg, acceleration components in mGal and Marussi tensor components
// in Eötvös. The Cartesian vertical axis of the outputs is
// downward-positive.
package gravimod

import "fmt"

// G is the gravitational constant in m³ kg⁻¹ s⁻² (CODATA 2018).
const G = 6.6743e-11

// Conversion factors from SI units to the conventional geophysics
// output units.
const (
	SIToMGal   = 1e5 // m/s² to mGal
	SIToEotvos = 1e9 // 1/s² to Eötvös
)

// Field names a physical quantity of the gravitational field. It
// selects both the closed-form kernel and the output unit conversion
// of the forward drivers.
type Field int

const (
	// Potential is the gravitational potential, in J/kg.
	Potential Field = iota
	// GE, GN and GZ are the easting, northing and downward
	// acceleration components, in mGal.
	GE
	GN
	GZ
	// GEE through GNZ are the diagonal and non-diagonal Marussi
	// tensor components, in Eötvös.
	GEE
	GNN
	GZZ
	GEN
	GEZ
	GNZ
	// GR is the radial acceleration in geocentric spherical
	// coordinates, in mGal.
	GR
)

var fieldNames = map[Field]string{
	Potential: "potential",
	GE:        "g_e",
	GN:        "g_n",
	GZ:        "g_z",
	GEE:       "g_ee",
	GNN:       "g_nn",
	GZZ:       "g_zz",
	GEN:       "g_en",
	GEZ:       "g_ez",
	GNZ:       "g_nz",
	GR:        "g_r",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField maps a field name ("potential", "g_z", ...) to its Field
// value. Unknown names return ErrUnsupportedField.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedField, name)
}

// IsAcceleration reports whether f is a first derivative of the
// potential, converted to mGal on output.
func (f Field) IsAcceleration() bool {
	switch f {
	case GE, GN, GZ, GR:
		return true
	}
	return false
}

// IsTensor reports whether f is a second derivative (Marussi tensor)
// component, converted to Eötvös on output.
func (f Field) IsTensor() bool {
	switch f {
	case GEE, GNN, GZZ, GEN, GEZ, GNZ:
		return true
	}
	return false
}

// ConversionFactor returns the factor that converts a raw SI value of
// f to its output unit: 1 for the potential, SIToMGal for
// accelerations and SIToEotvos for tensor components.
func (f Field) ConversionFactor() float64 {
	switch {
	case f.IsAcceleration():
		return SIToMGal
	case f.IsTensor():
		return SIToEotvos
	}
	return 1
}

// CoordinateSystem tags the coordinate conventions of a point set.
type CoordinateSystem int

const (
	// Cartesian points carry easting, northing and down coordinates,
	// all in meters, with down increasing towards the center of the
	// Earth.
	Cartesian CoordinateSystem = iota
	// Spherical points carry longitude and latitude in degrees and a
	// geocentric radius in meters.
	Spherical
)

func (c CoordinateSystem) String() string {
	switch c {
	case Cartesian:
		return "cartesian"
	case Spherical:
		return "spherical"
	}
	return "unknown"
}

// Points is an ordered set of positions given as one slice per
// coordinate, in the order easting, northing, down (Cartesian) or
// longitude, latitude, radius (spherical geocentric). A component of
// length one is broadcast against the common length of the others, so
// a constant coordinate does not need to be tiled by the caller.
type Points [3][]float64
