// Package legendre computes tables of associated Legendre functions
// and their derivatives with respect to colatitude, using the stable
// three-term recursions of Alken (2022), GSL technical report
// GSL-TR-001. The Condon-Shortley phase is not applied; callers that
// need it must apply it themselves.
package legendre

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Normalization selects the scaling convention of a table.
type Normalization int

const (
	// Unnormalized are the plain associated Legendre functions. Their
	// dynamic range grows factorially with degree, so they are only
	// usable up to moderate degrees.
	Unnormalized Normalization = iota
	// Schmidt is the quasi-normalization used by geomagnetic field
	// models such as the IGRF.
	Schmidt
	// FullyNormalized is the normalization used by gravity field
	// models. Both normalized conventions use square-root-scaled
	// recursion coefficients that keep values bounded at high degree.
	FullyNormalized
)

func (n Normalization) String() string {
	switch n {
	case Unnormalized:
		return "unnormalized"
	case Schmidt:
		return "schmidt"
	case FullyNormalized:
		return "full"
	}
	return "unknown"
}

// Table holds associated Legendre function values P[n,m] for
// 0 <= m <= n <= MaxDegree, with the degree n on the rows and the
// order m on the columns. Entries with m > n are NaN. A table is
// computed once for a given argument and consumed read-only.
type Table struct {
	// P is the (MaxDegree+1) x (MaxDegree+1) value matrix.
	P *mat.Dense
	// X is the argument the table was evaluated at, cos(theta).
	X         float64
	MaxDegree int
	Norm      Normalization
}

// New computes the table of associated Legendre functions P[n,m](x)
// up to maxDegree under the given normalization. x must lie in
// [-1, 1]; values outside the domain are not checked and propagate
// NaN through sqrt(1-x²). Cost is O(maxDegree²) time and space.
func New(x float64, maxDegree int, norm Normalization) *Table {
	t := &Table{
		P:         nanDense(maxDegree + 1),
		X:         x,
		MaxDegree: maxDegree,
		Norm:      norm,
	}
	sin := math.Sqrt(1 - x*x) // sin(theta)
	switch norm {
	case Schmidt:
		fillSchmidt(t.P, x, sin, maxDegree)
	case FullyNormalized:
		fillFull(t.P, x, sin, maxDegree)
	default:
		fillUnnormalized(t.P, x, sin, maxDegree)
	}
	return t
}

// At returns P[n,m]. Entries with m > n are NaN.
func (t *Table) At(n, m int) float64 {
	return t.P.At(n, m)
}

func nanDense(size int) *mat.Dense {
	data := make([]float64, size*size)
	for i := range data {
		data[i] = math.NaN()
	}
	return mat.NewDense(size, size, data)
}

// Each fill walks degree by degree: off-diagonal orders m <= n-2 from
// the two previous degrees, then the sectoral m = n-1 and diagonal
// m = n terms from the previous diagonal. Only the coefficients
// differ between normalizations.

func fillUnnormalized(p *mat.Dense, x, sin float64, maxDegree int) {
	p.Set(0, 0, 1)
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		for m := 0; m <= n-2; m++ {
			fm := float64(m)
			a := (2*fn - 1) / (fn - fm)
			b := -(fn + fm - 1) / (fn - fm)
			p.Set(n, m, a*x*p.At(n-1, m)+b*p.At(n-2, m))
		}
		p.Set(n, n-1, (2*fn-1)*x*p.At(n-1, n-1))
		p.Set(n, n, (2*fn-1)*sin*p.At(n-1, n-1))
	}
}

func fillSchmidt(p *mat.Dense, x, sin float64, maxDegree int) {
	p.Set(0, 0, 1)
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		for m := 0; m <= n-2; m++ {
			fm := float64(m)
			a := (2*fn - 1) / math.Sqrt(fn*fn-fm*fm)
			b := -math.Sqrt(((fn-1)*(fn-1) - fm*fm) / (fn*fn - fm*fm))
			p.Set(n, m, a*x*p.At(n-1, m)+b*p.At(n-2, m))
		}
		p.Set(n, n-1, math.Sqrt(2*fn-1)*x*p.At(n-1, n-1))
		d := 1.0
		if n > 1 {
			d = math.Sqrt(1 - 1/(2*fn))
		}
		p.Set(n, n, d*sin*p.At(n-1, n-1))
	}
}

func fillFull(p *mat.Dense, x, sin float64, maxDegree int) {
	p.Set(0, 0, math.Sqrt(0.5))
	for n := 1; n <= maxDegree; n++ {
		fn := float64(n)
		for m := 0; m <= n-2; m++ {
			fm := float64(m)
			a := math.Sqrt((4*fn*fn - 1) / (fn*fn - fm*fm))
			b := -math.Sqrt((2*fn + 1) * ((fn-1)*(fn-1) - fm*fm) / ((2*fn - 3) * (fn*fn - fm*fm)))
			p.Set(n, m, a*x*p.At(n-1, m)+b*p.At(n-2, m))
		}
		p.Set(n, n-1, math.Sqrt(2*fn+1)*x*p.At(n-1, n-1))
		p.Set(n, n, math.Sqrt((2*fn+1)/(2*fn))*sin*p.At(n-1, n-1))
	}
}
