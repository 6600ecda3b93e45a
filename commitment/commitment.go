// Package commitment implements the publisher side of this system: hashing
// and KZG-committing a program's source bytes into an immutable Commitment
// object (spec §3).
package commitment

import (
	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/kzg"
	"github.com/fidesinnova/armzk/poly"
)

// SourceKind labels how the committed bytes were produced.
type SourceKind string

const (
	SourceASM SourceKind = "asm"
	SourceBin SourceKind = "bin"
)

// Commitment is the publisher's immutable commitment to a program's bytes.
type Commitment struct {
	CodeSHA      [32]byte
	CodeSize     uint64
	CodeKZGBase  field.G1
	SourceKind   SourceKind
}

// Build hashes code and commits to the monomial polynomial whose
// coefficient i is the i-th byte's value, per spec §3
// ("code_kzg_base = Commit(P_code)").
func Build(srs *kzg.SRS, code []byte, kind SourceKind) (*Commitment, error) {
	coeffs := make(poly.Poly, len(code))
	for i, b := range code {
		coeffs[i] = field.FromUint64(uint64(b))
	}
	base, err := kzg.Commit(srs, coeffs)
	if err != nil {
		return nil, err
	}
	return &Commitment{
		CodeSHA:     field.Sha256(code),
		CodeSize:    uint64(len(code)),
		CodeKZGBase: base,
		SourceKind:  kind,
	}, nil
}
