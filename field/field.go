// Package field wraps the BN254 scalar field and group arithmetic that the
// rest of this module builds on: Fr, G1, G2, and the bilinear pairing into
// GT.
package field

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Scalar is an element of Fr, the BN254 scalar field.
type Scalar = fr.Element

// G1 and G2 are affine points on the two source groups of the BN254
// pairing. GT is the target group.
type G1 = bn254.G1Affine
type G2 = bn254.G2Affine
type GT = bn254.GT

// Zero and One return the additive and multiplicative identities of Fr.
func Zero() Scalar {
	var z Scalar
	return z
}

func One() Scalar {
	var o Scalar
	o.SetOne()
	return o
}

// FromUint64 lifts a small integer into Fr.
func FromUint64(v uint64) Scalar {
	var s Scalar
	s.SetUint64(v)
	return s
}

// FromBytesReduced reduces an arbitrary-length big-endian byte string modulo
// r and returns the resulting Fr element.
func FromBytesReduced(b []byte) Scalar {
	var s Scalar
	s.SetBytes(b)
	return s
}

// RandomScalar samples a uniform element of Fr using a CSPRNG.
func RandomScalar() (Scalar, error) {
	var s Scalar
	_, err := s.SetRandom()
	return s, err
}

// Bytes returns the canonical 32-byte little-endian encoding of s, per the
// wire convention fixed by the external interfaces of this system.
func Bytes(s Scalar) [32]byte {
	be := s.Bytes()
	var le [32]byte
	for i := 0; i < 32; i++ {
		le[i] = be[31-i]
	}
	return le
}

// SetBytesLE decodes the 32-byte little-endian form produced by Bytes.
func SetBytesLE(b [32]byte) Scalar {
	var be [32]byte
	for i := 0; i < 32; i++ {
		be[i] = b[31-i]
	}
	var s Scalar
	s.SetBytes(be[:])
	return s
}

// Generators returns the BN254 library's standard base points, used only as
// the seed for deriving this system's own domain-separated generators (see
// hash_to_curve.go) — never used directly as the KZG basis.
func Generators() (G1, G2) {
	_, _, g1, g2 := bn254.Generators()
	return g1, g2
}

// Pair evaluates the bilinear pairing e(a, b) in GT.
func Pair(a G1, b G2) (GT, error) {
	return bn254.Pair([]G1{a}, []G2{b})
}

// PairingsEqual reports whether e(a1,b1) == e(a2,b2), the check underlying
// every KZG verification in this module.
func PairingsEqual(a1 G1, b1 G2, a2 G1, b2 G2) (bool, error) {
	lhs, err := Pair(a1, b1)
	if err != nil {
		return false, err
	}
	rhs, err := Pair(a2, b2)
	if err != nil {
		return false, err
	}
	return lhs.Equal(&rhs), nil
}

// ScalarMulG1 returns [s]P.
func ScalarMulG1(p G1, s Scalar) G1 {
	var out G1
	var bi big.Int
	s.BigInt(&bi)
	out.ScalarMultiplication(&p, &bi)
	return out
}

// ScalarMulG2 returns [s]P.
func ScalarMulG2(p G2, s Scalar) G2 {
	var out G2
	var bi big.Int
	s.BigInt(&bi)
	out.ScalarMultiplication(&p, &bi)
	return out
}

// AddG1 and SubG1 perform group addition/subtraction on G1.
func AddG1(a, b G1) G1 {
	var out G1
	out.Add(&a, &b)
	return out
}

func SubG1(a, b G1) G1 {
	var neg, out G1
	neg.Neg(&b)
	out.Add(&a, &neg)
	return out
}

func NegG1(a G1) G1 {
	var out G1
	out.Neg(&a)
	return out
}

func SubG2(a, b G2) G2 {
	var neg, out G2
	neg.Neg(&b)
	out.Add(&a, &neg)
	return out
}

// Sha256 is the file-integrity and transcript hash fixed by the external
// interfaces of this system (SHA-256 throughout, per spec §6).
func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}
