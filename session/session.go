// Package session implements the blinding-polynomial construction that
// binds a code commitment to one verification context, so a proof produced
// under one domain_tag will not verify under another (spec §4.8).
package session

import (
	"encoding/binary"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/kzg"
	"github.com/fidesinnova/armzk/poly"
)

// DefaultBlindDegree is d_b in spec §4.8.
const DefaultBlindDegree = 8

const blindTag = "code-blind"

// BlindingPoly derives b(X) deterministically from domainTag: coefficient i
// is the top 8 bytes of SHA-256("code-blind" || domain_tag || byte(i)),
// lifted into Fr.
func BlindingPoly(domainTag [32]byte, degree int) poly.Poly {
	coeffs := make(poly.Poly, degree+1)
	for i := 0; i <= degree; i++ {
		buf := make([]byte, len(blindTag)+32+1)
		off := copy(buf, blindTag)
		off += copy(buf[off:], domainTag[:])
		buf[off] = byte(i)

		digest := field.Sha256(buf)
		coeffs[i] = field.FromUint64(binary.BigEndian.Uint64(digest[:8]))
	}
	return coeffs.Normalize()
}

// SessionCommitment computes C_sess = C_base + Commit(b(domain_tag)).
func SessionCommitment(srs *kzg.SRS, base field.G1, domainTag [32]byte) (field.G1, error) {
	b := BlindingPoly(domainTag, DefaultBlindDegree)
	blindCommit, err := kzg.Commit(srs, b)
	if err != nil {
		return field.G1{}, err
	}
	return field.AddG1(base, blindCommit), nil
}
