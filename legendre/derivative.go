package legendre

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Derivative returns the table of derivatives with respect to
// colatitude, dP[n,m]/dθ with θ = arccos(X). The recursions only use
// table values of the same degree, so the result is again a Table of
// the same normalization and repeated application yields higher-order
// derivatives.
func (t *Table) Derivative() *Table {
	d := &Table{
		P:         nanDense(t.MaxDegree + 1),
		X:         t.X,
		MaxDegree: t.MaxDegree,
		Norm:      t.Norm,
	}
	switch t.Norm {
	case Schmidt:
		deriveSchmidt(t.P, d.P, t.MaxDegree)
	case FullyNormalized:
		deriveFull(t.P, d.P, t.MaxDegree)
	default:
		deriveUnnormalized(t.P, d.P, t.MaxDegree)
	}
	return d
}

func deriveUnnormalized(p, dp *mat.Dense, maxDegree int) {
	dp.Set(0, 0, 0)
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		dp.Set(n, 0, -p.At(n, 1))
		for m := 1; m <= n-1; m++ {
			fm := float64(m)
			dp.Set(n, m, 0.5*((fn+fm)*(fn-fm+1)*p.At(n, m-1)-p.At(n, m+1)))
		}
		dp.Set(n, n, fn*p.At(n, n-1))
	}
}

// The normalized variants carry the same structure with square-root
// coefficients. The Schmidt convention normalizes the m = 0 column
// differently from m > 0, which shows up as the extra sqrt(2) on the
// m = 1 term and the n = 1 diagonal special case.

func deriveSchmidt(p, dp *mat.Dense, maxDegree int) {
	dp.Set(0, 0, 0)
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		dp.Set(n, 0, -math.Sqrt(fn*(fn+1)/2)*p.At(n, 1))
		for m := 1; m <= n-1; m++ {
			fm := float64(m)
			a := math.Sqrt((fn + fm) * (fn - fm + 1))
			if m == 1 {
				a *= math.Sqrt2
			}
			b := -math.Sqrt((fn + fm + 1) * (fn - fm))
			dp.Set(n, m, 0.5*(a*p.At(n, m-1)+b*p.At(n, m+1)))
		}
		d := math.Sqrt(fn / 2)
		if n == 1 {
			d = 1
		}
		dp.Set(n, n, d*p.At(n, n-1))
	}
}

func deriveFull(p, dp *mat.Dense, maxDegree int) {
	dp.Set(0, 0, 0)
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		dp.Set(n, 0, -math.Sqrt(fn*(fn+1))*p.At(n, 1))
		for m := 1; m <= n-1; m++ {
			fm := float64(m)
			a := math.Sqrt((fn + fm) * (fn - fm + 1))
			b := -math.Sqrt((fn + fm + 1) * (fn - fm))
			dp.Set(n, m, 0.5*(a*p.At(n, m-1)+b*p.At(n, m+1)))
		}
		dp.Set(n, n, math.Sqrt(fn/2)*p.At(n, n-1))
	}
}
