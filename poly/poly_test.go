package poly

import (
	"testing"

	"github.com/fidesinnova/armzk/field"
	"github.com/stretchr/testify/require"
)

func vals(vs ...uint64) []field.Scalar {
	out := make([]field.Scalar, len(vs))
	for i, v := range vs {
		out[i] = field.FromUint64(v)
	}
	return out
}

func TestHornerConsistency(t *testing.T) {
	p := Poly(vals(3, 5, 7))
	z := field.FromUint64(9)

	got := p.Eval(z)

	// a[0] + z*eval(a[1:])
	rest := Poly(p[1:])
	var want field.Scalar
	restEval := rest.Eval(z)
	want.Mul(&z, &restEval)
	want.Add(&want, &p[0])

	require.True(t, got.Equal(&want))
}

func TestDivXMinusZRemainderIsEval(t *testing.T) {
	p := Poly(vals(1, 2, 3, 4))
	z := field.FromUint64(11)

	_, rem := p.DivXMinusZ(z)
	require.True(t, rem.Equal(ptr(p.Eval(z))))
}

func ptr(s field.Scalar) *field.Scalar { return &s }

func TestInterpolateRoundTrip(t *testing.T) {
	values := vals(10, 20, 30, 40, 50)
	p := Interpolate(values)

	for i, v := range values {
		got := p.Eval(field.FromUint64(uint64(i)))
		require.True(t, got.Equal(&v), "index %d", i)
	}
}

func TestNormalizeStripsTrailingZeros(t *testing.T) {
	p := Poly(vals(1, 2, 0, 0))
	n := p.Normalize()
	require.Equal(t, 2, len(n))
}
