// Package poly implements dense univariate polynomials over the BN254
// scalar field: evaluation, division by a linear factor, and Lagrange
// interpolation on the consecutive-integer domain that the rest of this
// module relies on.
package poly

import "github.com/fidesinnova/armzk/field"

// Poly holds coefficients in ascending-power order: Poly[i] is the
// coefficient of X^i.
type Poly []field.Scalar

// Normalize strips trailing zero coefficients so callers never see a
// polynomial whose declared degree is higher than its true degree.
func (p Poly) Normalize() Poly {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	out := make(Poly, n)
	copy(out, p[:n])
	return out
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	q := p.Normalize()
	return len(q) - 1
}

// Eval evaluates p(z) using Horner's method, working from the
// highest-degree coefficient down.
func (p Poly) Eval(z field.Scalar) field.Scalar {
	y := field.Zero()
	for i := len(p) - 1; i >= 0; i-- {
		y.Mul(&y, &z)
		y.Add(&y, &p[i])
	}
	return y
}

// DivXMinusZ performs synthetic division of p by (X - z), returning the
// quotient (degree one less than p, ascending-power order) and the
// remainder, which equals p(z).
func (p Poly) DivXMinusZ(z field.Scalar) (Poly, field.Scalar) {
	if len(p) == 0 {
		return Poly{}, field.Zero()
	}
	n := len(p)
	q := make(Poly, n-1)
	rem := p[n-1]
	for i := n - 1; i > 0; i-- {
		q[i-1] = rem
		var tmp field.Scalar
		tmp.Mul(&rem, &z)
		rem = p[i-1]
		rem.Add(&rem, &tmp)
	}
	return q, rem
}

// Add returns p + q.
func Add(p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		var a, b field.Scalar
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i].Add(&a, &b)
	}
	return out.Normalize()
}

// Sub returns p - q.
func Sub(p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		var a, b field.Scalar
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i].Sub(&a, &b)
	}
	return out.Normalize()
}

// Interpolate returns the unique polynomial of degree < len(values) whose
// evaluation on {0, 1, ..., len(values)-1} matches values. The interpolation
// domain is always the consecutive integers starting at zero: every caller
// in this module (trace columns, opcode/index openings) relies on that
// convention rather than passing explicit x-coordinates.
func Interpolate(values []field.Scalar) Poly {
	n := len(values)
	acc := make(Poly, n)

	xs := make([]field.Scalar, n)
	for i := 0; i < n; i++ {
		xs[i] = field.FromUint64(uint64(i))
	}

	for i := 0; i < n; i++ {
		if values[i].IsZero() {
			continue
		}
		// Build the Lagrange basis numerator poly Prod_{j!=i} (X - xs[j])
		// and the scalar denominator Prod_{j!=i} (xs[i]-xs[j]).
		numer := Poly{field.One()}
		denom := field.One()
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			// numer *= (X - xs[j])
			shifted := make(Poly, len(numer)+1)
			for k, c := range numer {
				cc := c
				shifted[k+1].Add(&shifted[k+1], &cc)
				var t field.Scalar
				t.Mul(&c, &xs[j])
				shifted[k].Sub(&shifted[k], &t)
			}
			numer = shifted

			var d field.Scalar
			d.Sub(&xs[i], &xs[j])
			denom.Mul(&denom, &d)
		}
		var invDenom field.Scalar
		invDenom.Inverse(&denom)
		var coeff field.Scalar
		coeff.Mul(&values[i], &invDenom)

		for k := range numer {
			var term field.Scalar
			term.Mul(&numer[k], &coeff)
			acc[k].Add(&acc[k], &term)
		}
	}
	return acc.Normalize()
}
