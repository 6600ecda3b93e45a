// Package kzg implements the KZG polynomial commitment scheme over BN254:
// setup of a structured reference string, commitment via multi-scalar
// multiplication, opening via synthetic division, and verification via a
// single pairing check.
package kzg

import (
	"github.com/cockroachdb/errors"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/poly"
)

// SRS is the structured reference string: powers of a secret tau in G1, and
// [1]G2/[tau]G2 needed by the verifier's pairing check. G1Powers[0] is the
// domain-separated generator every commitment and every verification is
// built against — never an arbitrary library generator (spec §4.3, §9 Open
// Question 3).
type SRS struct {
	G1Powers []field.G1
	G2One    field.G2
	G2Tau    field.G2
}

// MaxDegree returns the highest polynomial degree this SRS can commit to.
func (s *SRS) MaxDegree() int {
	return len(s.G1Powers) - 1
}

// deterministicTauSeed is the fixed seed spec §9 names for the
// non-interactive "no SRS bytes in the proof" mode.
const deterministicTauSeed = "fidesinnova_srs"

// Setup builds an SRS of degree maxDeg (i.e. maxDeg+1 G1 powers) sampling
// tau uniformly at random from a CSPRNG. tau is not returned; it is
// discarded once the powers are computed. This mode is for local
// experimentation only: the resulting SRS must itself be serialized and
// shipped alongside any proof produced under it, since no one else can
// reconstruct it.
func Setup(maxDeg int) (*SRS, error) {
	tau, err := field.RandomScalar()
	if err != nil {
		return nil, errors.Wrap(err, "sample tau")
	}
	return buildSRS(maxDeg, tau), nil
}

// DeterministicSetup builds an SRS whose tau is derived from
// SHA-256("fidesinnova_srs"), so any two parties can reconstruct the exact
// same SRS without exchanging anything. This is the mode spec §9 says tests
// should prefer.
func DeterministicSetup(maxDeg int) *SRS {
	digest := field.Sha256([]byte(deterministicTauSeed))
	tau := field.FromBytesReduced(digest[:])
	return buildSRS(maxDeg, tau)
}

func buildSRS(maxDeg int, tau field.Scalar) *SRS {
	g1Gen := field.HashToG1("fidesinnova-g1")
	g2Gen := field.HashToG2("fidesinnova-g2")

	powers := make([]field.G1, maxDeg+1)
	cur := field.One()
	for i := 0; i <= maxDeg; i++ {
		powers[i] = field.ScalarMulG1(g1Gen, cur)
		cur.Mul(&cur, &tau)
	}

	return &SRS{
		G1Powers: powers,
		G2One:    g2Gen,
		G2Tau:    field.ScalarMulG2(g2Gen, tau),
	}
}

// Commit computes Sum_i coeffs[i] * G1Powers[i], skipping zero scalars.
func Commit(srs *SRS, p poly.Poly) (field.G1, error) {
	if len(p) > len(srs.G1Powers) {
		return field.G1{}, errors.Newf("poly degree %d exceeds SRS degree %d", len(p)-1, srs.MaxDegree())
	}
	return msm(srs.G1Powers[:len(p)], p)
}

// Opening bundles the evaluation and the witness proving it.
type Opening struct {
	Value   field.Scalar
	Witness field.G1
}

// Open evaluates p at z and computes the quotient-commitment witness.
func Open(srs *SRS, p poly.Poly, z field.Scalar) (Opening, error) {
	if len(p) == 0 {
		return Opening{Value: field.Zero(), Witness: field.G1{}}, nil
	}
	q, y := p.DivXMinusZ(z)
	if len(q) > len(srs.G1Powers) {
		return Opening{}, errors.Newf("witness degree %d exceeds SRS degree %d", len(q)-1, srs.MaxDegree())
	}
	pi, err := msm(srs.G1Powers[:len(q)], q)
	if err != nil {
		return Opening{}, err
	}
	return Opening{Value: y, Witness: pi}, nil
}

// Verify checks e(C - y*G1Powers[0], G2One) == e(pi, G2Tau - z*G2One).
func Verify(srs *SRS, commitment field.G1, z, y field.Scalar, pi field.G1) (bool, error) {
	yG1 := field.ScalarMulG1(srs.G1Powers[0], y)
	lhsG1 := field.SubG1(commitment, yG1)

	zG2 := field.ScalarMulG2(srs.G2One, z)
	rhsG2 := field.SubG2(srs.G2Tau, zG2)

	return field.PairingsEqual(lhsG1, srs.G2One, pi, rhsG2)
}

func msm(bases []field.G1, scalars []field.Scalar) (field.G1, error) {
	if len(bases) != len(scalars) {
		return field.G1{}, errors.New("msm: length mismatch")
	}
	if len(bases) == 0 {
		return field.G1{}, nil
	}

	frScalars := make([]fr.Element, len(scalars))
	copy(frScalars, scalars)

	var acc bn254.G1Jac
	if _, err := acc.MultiExp(bases, frScalars, ecc.MultiExpConfig{}); err != nil {
		return field.G1{}, errors.Wrap(err, "msm")
	}
	var out field.G1
	out.FromJacobian(&acc)
	return out, nil
}
