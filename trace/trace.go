// Package trace converts a recorded execution trace into the six parallel
// field-valued columns this system commits to, padded to the next power of
// two, plus the global transition constraint table that sum-check runs
// over (it sums to zero on a valid trace).
package trace

import (
	"github.com/cockroachdb/errors"

	"github.com/fidesinnova/armzk/field"
)

// Opcode is one of the fixed instruction tags this system proves execution
// of. The integer values match the reference implementation's enum exactly,
// including the sparse HALT=255 (spec §8's opened-value comparisons rely on
// this exact mapping).
type Opcode uint8

const (
	OpPush Opcode = 0
	OpAdd  Opcode = 1
	OpMul  Opcode = 2
	OpSub  Opcode = 3
	OpAnd  Opcode = 4
	OpOr   Opcode = 5
	OpHalt Opcode = 255
)

// AllowedOpcodes is the complete instruction set this system's core proves
// semantics for; it is intentionally not a general-purpose ISA (spec §1
// Non-goals).
var AllowedOpcodes = []Opcode{OpPush, OpAdd, OpMul, OpSub, OpAnd, OpOr, OpHalt}

// IsAllowed reports whether v is the field-encoding of one of AllowedOpcodes.
func IsAllowed(v field.Scalar) bool {
	for _, op := range AllowedOpcodes {
		enc := field.FromUint64(uint64(op))
		if v.Equal(&enc) {
			return true
		}
	}
	return false
}

// Row is one recorded step of program execution.
type Row struct {
	PC     uint32
	Opcode Opcode
	X, Y, Z uint64
	IsHalt bool
}

// Columns holds the six padded per-row columns this system interpolates and
// commits to, plus the raw (unpadded) row count.
type Columns struct {
	Len  int // T, the number of real rows
	Pow2 int // T2, the padded length
	PC   []field.Scalar
	Op   []field.Scalar
	X    []field.Scalar
	Y    []field.Scalar
	Z    []field.Scalar
	H    []field.Scalar
}

// BuildColumns expands rows into six power-of-two-padded columns. It does
// not itself validate the pc successor chain: a broken chain is a
// verifier-facing semantic rejection ("pc local transition fail"), caught
// by Verify's row-opening spot checks, not a construction-time error here —
// the reference implementation never checks this while proving either.
func BuildColumns(rows []Row) (*Columns, error) {
	if len(rows) == 0 {
		return nil, errors.New("trace: empty row sequence")
	}

	t := len(rows)
	t2 := NextPow2(t)

	c := &Columns{
		Len:  t,
		Pow2: t2,
		PC:   make([]field.Scalar, t2),
		Op:   make([]field.Scalar, t2),
		X:    make([]field.Scalar, t2),
		Y:    make([]field.Scalar, t2),
		Z:    make([]field.Scalar, t2),
		H:    make([]field.Scalar, t2),
	}
	for i, r := range rows {
		c.PC[i] = field.FromUint64(uint64(r.PC))
		c.Op[i] = field.FromUint64(uint64(r.Opcode))
		c.X[i] = field.FromUint64(r.X)
		c.Y[i] = field.FromUint64(r.Y)
		c.Z[i] = field.FromUint64(r.Z)
		if r.IsHalt {
			c.H[i] = field.One()
		}
	}
	// Columns beyond t are left zero, the padding spec §3 describes.
	return c, nil
}

// TransitionTable builds f[i] = (pc[i+1]-pc[i]-1)*(1-h[i]) for real rows
// i in [0, T-2], and f[i] = 0 otherwise, the global constraint table that
// sum-check runs over and that sums to zero on a valid trace (spec §4.6).
// The bound is c.Len-1, not c.Pow2-1: rows
// at or beyond T are padding with PC=H=0, and applying the formula there
// would manufacture spurious nonzero terms out of consecutive zero pairs.
func (c *Columns) TransitionTable() []field.Scalar {
	f := make([]field.Scalar, c.Pow2)
	one := field.One()
	for i := 0; i+1 < c.Len; i++ {
		var diff field.Scalar
		diff.Sub(&c.PC[i+1], &c.PC[i])
		diff.Sub(&diff, &one)

		var oneMinusH field.Scalar
		oneMinusH.Sub(&one, &c.H[i])

		f[i].Mul(&diff, &oneMinusH)
	}
	return f
}

// NextPow2 rounds x up to the next power of two, with a floor of 1: a
// single-row trace gets T2=1, which is itself a valid (zero-round)
// sum-check domain.
func NextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}
