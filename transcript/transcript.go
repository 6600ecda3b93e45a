// Package transcript implements the Fiat-Shamir transcript this system's
// soundness depends on: an append-only byte buffer absorbing every public
// value in a fixed order, squeezed into digests and field challenges.
//
// A Transcript is an ordinary owned value, never global or thread-local
// state, so two proofs can run concurrently in the same process.
package transcript

import (
	"encoding/binary"

	"github.com/fidesinnova/armzk/field"
)

// Transcript accumulates absorbed bytes for later squeezing.
type Transcript struct {
	buf []byte
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// AbsorbDigest appends a 32-byte digest (e.g. domain_tag, input_sha,
// code_sha) to the transcript.
func (t *Transcript) AbsorbDigest(d [32]byte) {
	t.buf = append(t.buf, d[:]...)
}

// AbsorbFr appends the canonical 32-byte encoding of a scalar.
func (t *Transcript) AbsorbFr(s field.Scalar) {
	b := field.Bytes(s)
	t.buf = append(t.buf, b[:]...)
}

// AbsorbG1 appends the canonical encoding of a G1 point.
func (t *Transcript) AbsorbG1(p field.G1) {
	b := p.Bytes()
	t.buf = append(t.buf, b[:]...)
}

// Squeeze returns SHA-256 of the buffer accumulated so far. It does not
// reset or otherwise mutate the transcript: subsequent absorbs continue to
// build on the same buffer, matching the reference protocol where each
// challenge is derived from everything absorbed up to that point.
func (t *Transcript) Squeeze() [32]byte {
	return field.Sha256(t.buf)
}

// Challenge squeezes the transcript and reduces the top 8 bytes of the
// digest into an Fr element. This is intentionally not a wide reduction —
// spec §9's second Open Question requires exactly this truncation on both
// prover and verifier, or the two sides disagree.
func (t *Transcript) Challenge() field.Scalar {
	digest := t.Squeeze()
	top := binary.BigEndian.Uint64(digest[:8])
	return field.FromUint64(top)
}
