package prism

import (
	"math"

	"github.com/geoscale/gravimod"
)

// Each forward function shifts the observation point to the eight
// prism vertices and accumulates the antiderivative with alternating
// parity, then scales by G and the density. The vertex order follows
// the (east, west) x (north, south) x (top, bottom) convention with
// sign (-1)^(i+j+k).

// Potential returns the gravitational potential in J/kg.
func Potential(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelPotential, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityE returns the easting acceleration component in m/s².
func GravityE(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelE, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityN returns the northing acceleration component in m/s².
func GravityN(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelN, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityU returns the upward acceleration component in m/s².
func GravityU(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelU, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityEE returns the easting-easting tensor component in 1/s².
func GravityEE(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelEE, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityNN returns the northing-northing tensor component in 1/s².
func GravityNN(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelNN, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityUU returns the upward-upward tensor component in 1/s².
func GravityUU(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelUU, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityEN returns the easting-northing tensor component in 1/s².
func GravityEN(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelEN, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityEU returns the easting-upward tensor component in 1/s².
func GravityEU(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelEU, easting, northing, upward, west, east, south, north, bottom, top)
}

// GravityNU returns the northing-upward tensor component in 1/s².
func GravityNU(easting, northing, upward, west, east, south, north, bottom, top, density float64) float64 {
	return gravimod.G * density * vertexSum(kernelNU, easting, northing, upward, west, east, south, north, bottom, top)
}

func vertexSum(kernel func(e, n, u float64) float64, easting, northing, upward, west, east, south, north, bottom, top float64) float64 {
	xs := [2]float64{east - easting, west - easting}
	ys := [2]float64{north - northing, south - northing}
	zs := [2]float64{top - upward, bottom - upward}
	var sum float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				term := kernel(xs[i], ys[j], zs[k])
				if (i+j+k)%2 == 1 {
					sum -= term
				} else {
					sum += term
				}
			}
		}
	}
	return sum
}

// Antiderivatives of 1/l and its derivatives over a box corner, in
// shifted coordinates. e, n, u are vertex minus observation point.

func kernelPotential(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return e*n*safeLog(u+r) + n*u*safeLog(e+r) + e*u*safeLog(n+r) -
		0.5*e*e*safeAtan(u*n, e*r) -
		0.5*n*n*safeAtan(u*e, n*r) -
		0.5*u*u*safeAtan(e*n, u*r)
}

func kernelE(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return n*safeLog(u+r) + u*safeLog(n+r) - e*safeAtan(n*u, e*r)
}

func kernelN(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return e*safeLog(u+r) + u*safeLog(e+r) - n*safeAtan(e*u, n*r)
}

func kernelU(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return e*safeLog(n+r) + n*safeLog(e+r) - u*safeAtan(e*n, u*r)
}

func kernelEE(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return -safeAtan(n*u, e*r)
}

func kernelNN(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return -safeAtan(e*u, n*r)
}

func kernelUU(e, n, u float64) float64 {
	r := math.Sqrt(e*e + n*n + u*u)
	return -safeAtan(e*n, u*r)
}

func kernelEN(e, n, u float64) float64 {
	return safeLog(u + math.Sqrt(e*e+n*n+u*u))
}

func kernelEU(e, n, u float64) float64 {
	return safeLog(n + math.Sqrt(e*e+n*n+u*u))
}

func kernelNU(e, n, u float64) float64 {
	return safeLog(e + math.Sqrt(e*e+n*n+u*u))
}

// safeAtan is arctan(y/x) continued to x == 0, where the closed forms
// need the one-sided limit rather than the atan2 branch.
func safeAtan(y, x float64) float64 {
	switch {
	case x != 0:
		return math.Atan(y / x)
	case y > 0:
		return math.Pi / 2
	case y < 0:
		return -math.Pi / 2
	}
	return 0
}

// safeLog treats arguments that vanish to rounding as the limit of
// x·log(x) terms, which is zero in every kernel above.
func safeLog(x float64) float64 {
	if math.Abs(x) < 1e-10 {
		return 0
	}
	return math.Log(x)
}
