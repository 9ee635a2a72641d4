// Package pointmass computes gravitational fields of point masses by
// superposition over all (observation point, source) pairs. Kernels
// exist for Cartesian (easting, northing, down) and geocentric
// spherical (longitude, latitude, radius) coordinates.
//
// The summation is exact and O(N·M): no deduplication, no spatial
// pruning. Coincident observation points and sources are not errors;
// the 1/l kernels simply produce infinities that propagate to the
// output.
package pointmass

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/geoscale/gravimod"
	"github.com/geoscale/gravimod/internal/grids"
	"github.com/geoscale/gravimod/internal/parallel"
)

// Gravity returns one field value per observation point, summed over
// every source weighted by its mass. The supported fields are
// Potential and GZ in Cartesian coordinates and Potential and GR in
// spherical coordinates; any other combination returns
// ErrUnsupportedField before any computation. The potential is
// returned in J/kg, accelerations in mGal.
func Gravity(coordinates, sources gravimod.Points, masses []float64, field gravimod.Field, system gravimod.CoordinateSystem) ([]float64, error) {
	switch system {
	case gravimod.Cartesian:
		return cartesian(coordinates, sources, masses, field)
	case gravimod.Spherical:
		return spherical(coordinates, sources, masses, field)
	}
	return nil, fmt.Errorf("%w: %v", gravimod.ErrUnsupportedCoordinateSystem, system)
}

type cartesianKernel func(easting, northing, down, eastingS, northingS, downS float64) float64

type sphericalKernel func(lon, cosLat, sinLat, radius, lonS, cosLatS, sinLatS, radiusS float64) float64

func cartesian(coordinates, sources gravimod.Points, masses []float64, field gravimod.Field) ([]float64, error) {
	var kernel cartesianKernel
	switch field {
	case gravimod.Potential:
		kernel = kernelPotentialCartesian
	case gravimod.GZ:
		kernel = kernelGZ
	default:
		return nil, fmt.Errorf("%w: %s is not available for point masses in Cartesian coordinates", gravimod.ErrUnsupportedField, field)
	}
	obs, src, size, err := broadcastInputs(coordinates, sources, masses)
	if err != nil {
		return nil, err
	}
	easting, northing, down := obs[0], obs[1], obs[2]
	eastingS, northingS, downS := src[0], src[1], src[2]
	out := make([]float64, size)
	parallel.Over(size, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for j := range masses {
				sum += masses[j] * kernel(easting[i], northing[i], down[i], eastingS[j], northingS[j], downS[j])
			}
			out[i] = sum
		}
	})
	floats.Scale(gravimod.G*field.ConversionFactor(), out)
	return out, nil
}

func spherical(coordinates, sources gravimod.Points, masses []float64, field gravimod.Field) ([]float64, error) {
	var kernel sphericalKernel
	switch field {
	case gravimod.Potential:
		kernel = kernelPotentialSpherical
	case gravimod.GR:
		kernel = kernelGR
	default:
		return nil, fmt.Errorf("%w: %s is not available for point masses in spherical coordinates", gravimod.ErrUnsupportedField, field)
	}
	obs, src, size, err := broadcastInputs(coordinates, sources, masses)
	if err != nil {
		return nil, err
	}
	lat, radius := obs[1], obs[2]
	latS, radiusS := src[1], src[2]

	// The inner loop revisits every trig value M times per point, so
	// angles are converted and factored once up front, as arrays.
	lonRad := radians(obs[0])
	sinLat, cosLat := sinCosDegrees(lat)
	lonRadS := radians(src[0])
	sinLatS, cosLatS := sinCosDegrees(latS)

	out := make([]float64, size)
	parallel.Over(size, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for j := range masses {
				sum += masses[j] * kernel(lonRad[i], cosLat[i], sinLat[i], radius[i], lonRadS[j], cosLatS[j], sinLatS[j], radiusS[j])
			}
			out[i] = sum
		}
	})
	floats.Scale(gravimod.G*field.ConversionFactor(), out)
	return out, nil
}

// broadcastInputs validates both point sets and the mass array,
// keeping all shape errors ahead of any kernel evaluation.
func broadcastInputs(coordinates, sources gravimod.Points, masses []float64) (obs, src [3][]float64, n int, err error) {
	obs[0], obs[1], obs[2], n, err = grids.Broadcast(coordinates)
	if err != nil {
		return obs, src, 0, fmt.Errorf("observation points: %w", err)
	}
	var nSources int
	src[0], src[1], src[2], nSources, err = grids.Broadcast(sources)
	if err != nil {
		return obs, src, 0, fmt.Errorf("sources: %w", err)
	}
	if len(masses) != nSources {
		return obs, src, 0, fmt.Errorf("%w: %d masses for %d sources", gravimod.ErrShapeMismatch, len(masses), nSources)
	}
	return obs, src, n, nil
}

func radians(degrees []float64) []float64 {
	out := make([]float64, len(degrees))
	for i, d := range degrees {
		out[i] = d * math.Pi / 180
	}
	return out
}

func sinCosDegrees(degrees []float64) (sin, cos []float64) {
	sin = make([]float64, len(degrees))
	cos = make([]float64, len(degrees))
	for i, d := range degrees {
		sin[i], cos[i] = math.Sincos(d * math.Pi / 180)
	}
	return sin, cos
}

// kernelPotentialCartesian is 1/l with l the Euclidean distance
// between observation point and source.
func kernelPotentialCartesian(easting, northing, down, eastingS, northingS, downS float64) float64 {
	de := easting - eastingS
	dn := northing - northingS
	dd := down - downS
	return 1 / math.Sqrt(de*de+dn*dn+dd*dd)
}

// kernelGZ is the downward acceleration (down_s - down)/l³. Down
// increases downward, so a source below the observation point
// contributes a positive g_z.
func kernelGZ(easting, northing, down, eastingS, northingS, downS float64) float64 {
	de := easting - eastingS
	dn := northing - northingS
	dd := down - downS
	dist2 := de*de + dn*dn + dd*dd
	return (downS - down) / (dist2 * math.Sqrt(dist2))
}

// The spherical kernels work on the spherical distance
// l² = (r - r_s)² + 2·r·r_s·(1 - cos ψ), with ψ the angular distance
// between observation point and source.

func kernelPotentialSpherical(lon, cosLat, sinLat, radius, lonS, cosLatS, sinLatS, radiusS float64) float64 {
	cosPsi := sinLat*sinLatS + cosLat*cosLatS*math.Cos(lonS-lon)
	dr := radius - radiusS
	dist2 := dr*dr + 2*radius*radiusS*(1-cosPsi)
	return 1 / math.Sqrt(dist2)
}

// kernelGR is the radial acceleration (r_s·cos ψ - r)/l³ in a local
// North-oriented frame at the observation point.
func kernelGR(lon, cosLat, sinLat, radius, lonS, cosLatS, sinLatS, radiusS float64) float64 {
	cosPsi := sinLat*sinLatS + cosLat*cosLatS*math.Cos(lonS-lon)
	dr := radius - radiusS
	dist2 := dr*dr + 2*radius*radiusS*(1-cosPsi)
	return (radiusS*cosPsi - radius) / (dist2 * math.Sqrt(dist2))
}
