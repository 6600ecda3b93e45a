// Package proof implements the F7 orchestration layer: it drives
// commitment, transcript, sum-check, and random-sample index derivation on
// the prover side, and replays the identical sequence to check a proof on
// the verifier side (spec §4.4, §4.7, §4.9).
package proof

import (
	"github.com/fidesinnova/armzk/commitment"
	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/instance"
	"github.com/fidesinnova/armzk/kzg"
	"github.com/fidesinnova/armzk/poly"
	"github.com/fidesinnova/armzk/reject"
	"github.com/fidesinnova/armzk/session"
	"github.com/fidesinnova/armzk/sumcheck"
	"github.com/fidesinnova/armzk/trace"
	"github.com/fidesinnova/armzk/transcript"
)

// DefaultOpcodeSamples and DefaultRowSamples are k_op and k_row from spec
// §4.7, typically 4.
const (
	DefaultOpcodeSamples = 4
	DefaultRowSamples    = 4
)

// ColumnCommitments holds the six per-column KZG commitments, always kept
// and absorbed in the fixed order pc, op, z, x, y, h.
type ColumnCommitments struct {
	PC field.G1
	Op field.G1
	Z  field.G1
	X  field.G1
	Y  field.G1
	H  field.G1
}

// KZGOpen bundles an opened index with its value and witness.
type KZGOpen struct {
	Idx     uint64
	Value   field.Scalar
	Witness field.G1
}

// RowOpen bundles the seven openings sampled for one row-index spot check:
// pc at i and i+1, and op/x/y/z/h at i.
type RowOpen struct {
	Idx   uint64
	PCi   KZGOpen
	PCip1 KZGOpen
	Opi   KZGOpen
	Xi    KZGOpen
	Yi    KZGOpen
	Zi    KZGOpen
	Hi    KZGOpen
}

// Proof is the full proof object of spec §3.
type Proof struct {
	CodeSHA     [32]byte
	DomainTag   [32]byte
	InputSHA    [32]byte
	CodeKZGSess field.G1
	Columns     ColumnCommitments
	TraceLen    uint32
	TracePow2   uint32
	Sumcheck    sumcheck.Proof
	OpcodeOpenings []KZGOpen
	RowOpenings    []RowOpen
	FinalOutput    uint64
}

// Prove builds a full proof binding rows to cc and pub.
func Prove(srs *kzg.SRS, cc *commitment.Commitment, pub instance.Public, rows []trace.Row, kOp, kRow int) (*Proof, error) {
	cols, err := trace.BuildColumns(rows)
	if err != nil {
		return nil, err
	}

	pcPoly := poly.Interpolate(cols.PC)
	opPoly := poly.Interpolate(cols.Op)
	xPoly := poly.Interpolate(cols.X)
	yPoly := poly.Interpolate(cols.Y)
	zPoly := poly.Interpolate(cols.Z)
	hPoly := poly.Interpolate(cols.H)

	commits, err := commitColumns(srs, pcPoly, opPoly, xPoly, yPoly, zPoly, hPoly)
	if err != nil {
		return nil, err
	}

	sessCommit, err := session.SessionCommitment(srs, cc.CodeKZGBase, pub.DomainTag)
	if err != nil {
		return nil, err
	}

	tr := transcript.New()
	absorbPublics(tr, pub, cc.CodeSHA, sessCommit, commits)

	f := cols.TransitionTable()
	scProof, _, err := sumcheck.Prove(f, tr)
	if err != nil {
		return nil, err
	}

	indexSeed := tr.Squeeze()

	opcodeIdx := transcript.DeriveIndices(indexSeed, kOp, uint64(cols.Len))
	opcodeOpenings := make([]KZGOpen, len(opcodeIdx))
	for i, idx := range opcodeIdx {
		op, err := openAt(srs, opPoly, idx)
		if err != nil {
			return nil, err
		}
		opcodeOpenings[i] = op
	}

	var rowOpenings []RowOpen
	if cols.Len >= 2 {
		rowSeed := transcript.RowSeed(indexSeed)
		rowIdx := transcript.DeriveIndices(rowSeed, kRow, uint64(cols.Len-1))
		rowOpenings = make([]RowOpen, len(rowIdx))
		for i, idx := range rowIdx {
			ro, err := buildRowOpen(srs, idx, pcPoly, opPoly, xPoly, yPoly, zPoly, hPoly)
			if err != nil {
				return nil, err
			}
			rowOpenings[i] = ro
		}
	}

	return &Proof{
		CodeSHA:        cc.CodeSHA,
		DomainTag:      pub.DomainTag,
		InputSHA:       pub.InputSHA,
		CodeKZGSess:    sessCommit,
		Columns:        commits,
		TraceLen:       uint32(cols.Len),
		TracePow2:      uint32(cols.Pow2),
		Sumcheck:       scProof,
		OpcodeOpenings: opcodeOpenings,
		RowOpenings:    rowOpenings,
		FinalOutput:    rows[len(rows)-1].Z,
	}, nil
}

func commitColumns(srs *kzg.SRS, pc, op, x, y, z, h poly.Poly) (ColumnCommitments, error) {
	var c ColumnCommitments
	var err error
	if c.PC, err = kzg.Commit(srs, pc); err != nil {
		return c, err
	}
	if c.Op, err = kzg.Commit(srs, op); err != nil {
		return c, err
	}
	if c.Z, err = kzg.Commit(srs, z); err != nil {
		return c, err
	}
	if c.X, err = kzg.Commit(srs, x); err != nil {
		return c, err
	}
	if c.Y, err = kzg.Commit(srs, y); err != nil {
		return c, err
	}
	if c.H, err = kzg.Commit(srs, h); err != nil {
		return c, err
	}
	return c, nil
}

// absorbPublics replays the fixed absorption order of spec §4.4: domain
// tag, input hash, code hash, session commitment, then column commitments
// in the order pc, op, z, x, y, h.
func absorbPublics(tr *transcript.Transcript, pub instance.Public, codeSHA [32]byte, sessCommit field.G1, commits ColumnCommitments) {
	tr.AbsorbDigest(pub.DomainTag)
	tr.AbsorbDigest(pub.InputSHA)
	tr.AbsorbDigest(codeSHA)
	tr.AbsorbG1(sessCommit)
	tr.AbsorbG1(commits.PC)
	tr.AbsorbG1(commits.Op)
	tr.AbsorbG1(commits.Z)
	tr.AbsorbG1(commits.X)
	tr.AbsorbG1(commits.Y)
	tr.AbsorbG1(commits.H)
}

func openAt(srs *kzg.SRS, p poly.Poly, idx uint64) (KZGOpen, error) {
	z := field.FromUint64(idx)
	op, err := kzg.Open(srs, p, z)
	if err != nil {
		return KZGOpen{}, err
	}
	return KZGOpen{Idx: idx, Value: op.Value, Witness: op.Witness}, nil
}

func buildRowOpen(srs *kzg.SRS, idx uint64, pc, op, x, y, z, h poly.Poly) (RowOpen, error) {
	var ro RowOpen
	ro.Idx = idx
	var err error
	if ro.PCi, err = openAt(srs, pc, idx); err != nil {
		return ro, err
	}
	if ro.PCip1, err = openAt(srs, pc, idx+1); err != nil {
		return ro, err
	}
	if ro.Opi, err = openAt(srs, op, idx); err != nil {
		return ro, err
	}
	if ro.Xi, err = openAt(srs, x, idx); err != nil {
		return ro, err
	}
	if ro.Yi, err = openAt(srs, y, idx); err != nil {
		return ro, err
	}
	if ro.Zi, err = openAt(srs, z, idx); err != nil {
		return ro, err
	}
	if ro.Hi, err = openAt(srs, h, idx); err != nil {
		return ro, err
	}
	return ro, nil
}

// Verify checks proof against cc and pub, returning a taxonomy-tagged
// rejection error on failure per spec §7/§4.9.
func Verify(srs *kzg.SRS, cc *commitment.Commitment, pub instance.Public, p *Proof, kOp, kRow int) error {
	if p.CodeSHA != cc.CodeSHA {
		return reject.New(reject.KindBinding, "code sha mismatch")
	}
	expectedSess, err := session.SessionCommitment(srs, cc.CodeKZGBase, pub.DomainTag)
	if err != nil {
		return reject.Wrap(reject.KindInternal, "session commitment recompute failed", err)
	}
	if !p.CodeKZGSess.Equal(&expectedSess) {
		return reject.New(reject.KindBinding, "code KZG session mismatch")
	}
	if p.DomainTag != pub.DomainTag {
		return reject.New(reject.KindBinding, "domain tag mismatch")
	}
	if p.InputSHA != pub.InputSHA {
		return reject.New(reject.KindBinding, "input hash mismatch")
	}

	if p.TraceLen == 0 || p.TracePow2 == 0 || p.TracePow2&(p.TracePow2-1) != 0 || p.TraceLen > p.TracePow2 {
		return reject.New(reject.KindSizing, "invalid trace sizes")
	}

	tr := transcript.New()
	absorbPublics(tr, pub, p.CodeSHA, p.CodeKZGSess, p.Columns)

	// No final oracle query: the folded value sumcheck.Verify returns is
	// accepted as-is and never checked against the pc/h commitments.
	ok, _, err := sumcheck.Verify(p.Sumcheck, tr, p.Sumcheck.ClaimedSum)
	if err != nil {
		return reject.Wrap(reject.KindInternal, "sumcheck verify error", err)
	}
	if !ok {
		return reject.New(reject.KindProtocol, "sumcheck failed")
	}

	indexSeed := tr.Squeeze()
	opcodeIdx := transcript.DeriveIndices(indexSeed, kOp, uint64(p.TraceLen))
	if len(opcodeIdx) != len(p.OpcodeOpenings) {
		return reject.New(reject.KindProtocol, "opcode opening size mismatch")
	}
	for i, want := range opcodeIdx {
		got := p.OpcodeOpenings[i]
		if got.Idx != want {
			return reject.New(reject.KindProtocol, "opcode opening idx mismatch")
		}
		valid, err := kzg.Verify(srs, p.Columns.Op, field.FromUint64(got.Idx), got.Value, got.Witness)
		if err != nil {
			return reject.Wrap(reject.KindInternal, "opcode opening pairing error", err)
		}
		if !valid {
			return reject.New(reject.KindCryptographic, "opcode opening pairing fail")
		}
		if !trace.IsAllowed(got.Value) {
			return reject.New(reject.KindSemantic, "opcode not allowed")
		}
	}

	if p.TraceLen < 2 {
		return nil
	}

	rowSeed := transcript.RowSeed(indexSeed)
	rowIdx := transcript.DeriveIndices(rowSeed, kRow, uint64(p.TraceLen-1))
	if len(rowIdx) != len(p.RowOpenings) {
		return reject.New(reject.KindProtocol, "row openings size mismatch")
	}

	for i, want := range rowIdx {
		ro := p.RowOpenings[i]
		if ro.Idx != want {
			return reject.New(reject.KindProtocol, "row opening idx mismatch")
		}
		if err := verifyRowOpen(srs, p.Columns, ro); err != nil {
			return err
		}
	}

	return nil
}

func verifyRowOpen(srs *kzg.SRS, cols ColumnCommitments, ro RowOpen) error {
	type check struct {
		commit field.G1
		open   KZGOpen
		reason string
	}
	checks := []check{
		{cols.PC, ro.PCi, "pc[i] opening fail"},
		{cols.PC, ro.PCip1, "pc[i+1] opening fail"},
		{cols.Op, ro.Opi, "op[i] opening fail"},
		{cols.X, ro.Xi, "x[i] opening fail"},
		{cols.Y, ro.Yi, "y[i] opening fail"},
		{cols.Z, ro.Zi, "z[i] opening fail"},
		{cols.H, ro.Hi, "h[i] opening fail"},
	}
	for _, c := range checks {
		valid, err := kzg.Verify(srs, c.commit, field.FromUint64(c.open.Idx), c.open.Value, c.open.Witness)
		if err != nil {
			return reject.Wrap(reject.KindInternal, "row opening pairing error", err)
		}
		if !valid {
			return reject.New(reject.KindCryptographic, c.reason)
		}
	}

	isHaltZero := ro.Hi.Value.IsZero()
	if isHaltZero {
		var want field.Scalar
		one := field.One()
		want.Add(&ro.PCi.Value, &one)
		if !want.Equal(&ro.PCip1.Value) {
			return reject.New(reject.KindSemantic, "pc local transition fail")
		}
	}

	return checkOpcodeSemantics(ro)
}

func checkOpcodeSemantics(ro RowOpen) error {
	x, y, z := ro.Xi.Value, ro.Yi.Value, ro.Zi.Value

	opEncode := func(op trace.Opcode) field.Scalar { return field.FromUint64(uint64(op)) }
	isOp := func(op trace.Opcode) bool {
		enc := opEncode(op)
		return ro.Opi.Value.Equal(&enc)
	}

	switch {
	case isOp(trace.OpPush), isOp(trace.OpHalt):
		return nil
	case isOp(trace.OpAdd):
		var want field.Scalar
		want.Add(&x, &y)
		if !want.Equal(&z) {
			return reject.New(reject.KindSemantic, "ADD semantics")
		}
	case isOp(trace.OpSub):
		var want field.Scalar
		want.Sub(&x, &y)
		if !want.Equal(&z) {
			return reject.New(reject.KindSemantic, "SUB semantics")
		}
	case isOp(trace.OpMul):
		var want field.Scalar
		want.Mul(&x, &y)
		if !want.Equal(&z) {
			return reject.New(reject.KindSemantic, "MUL semantics")
		}
	case isOp(trace.OpAnd):
		if maskedNibble(z) != maskedNibble(x)&maskedNibble(y) {
			return reject.New(reject.KindSemantic, "AND semantics")
		}
	case isOp(trace.OpOr):
		if maskedNibble(z) != maskedNibble(x)|maskedNibble(y) {
			return reject.New(reject.KindSemantic, "OR semantics")
		}
	default:
		return reject.New(reject.KindSemantic, "unexpected opcode in row check")
	}
	return nil
}

// maskedNibble extracts the low 4 bits of a field element interpreted as a
// small integer, per spec §4.7's 4-bit-masked bitwise checks.
func maskedNibble(s field.Scalar) uint64 {
	b := s.Bytes()
	return uint64(b[len(b)-1]) & 0xF
}
