// Package decoder parses a narrow slice of AArch64 text disassembly lines
// (the kind GDB's "disassemble" or single-step output emits) into the fixed
// instruction set this system proves, mirroring decodeA64 in the original
// GDB-driven tracer.
package decoder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fidesinnova/armzk/trace"
)

// lineRe matches "<addr>: <mnemonic> <op1>, <op2>[, <op3>]" — the shape of a
// GDB disassembly line for a two/three-operand instruction.
var lineRe = regexp.MustCompile(`:\s+([a-z][a-z0-9.]*)\s+([^,]+),\s*([^,]+)(?:,\s*([^\n]+))?`)

var regRe = regexp.MustCompile(`^[xw][0-9]+$`)
var shiftRe = regexp.MustCompile(`^([xw][0-9]+)\s*,\s*(lsl|lsr|asr)\s*#?([0-9]+)$`)

// ShiftKind is the barrel-shift, if any, applied to an ALU instruction's
// second register operand (e.g. "add x0, x1, x2, lsl #3").
type ShiftKind int

const (
	ShiftNone ShiftKind = iota
	ShiftLSL
	ShiftLSR
	ShiftASR
)

// Decoded is the result of parsing one disassembly line. Dst/Src1/Src2 hold
// register names ("x0", "w3") and are empty when the operand isn't a
// register (unused, or an immediate landed in ImmVal instead).
type Decoded struct {
	Recognized bool
	Op         trace.Opcode
	Dst        string
	Src1       string
	Src2       string
	ImmUsed    bool
	ImmVal     int64
	Shift      ShiftKind
	ShiftAmt   uint32
}

// Decode parses a single disassembly line. Unrecognized or unsupported
// mnemonics (branches, loads/stores, comparisons) come back with
// Recognized=false so the tracer can skip them, matching the reference's
// "only record recognized+supported ops" filter.
func Decode(line string) Decoded {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Decoded{}
	}
	mnemonic := m[1]
	dst, src1, src2 := strings.TrimSpace(m[2]), strings.TrimSpace(m[3]), strings.TrimSpace(m[4])

	switch mnemonic {
	case "mov", "movz":
		return decodeMov(dst, src1)
	case "add", "adds":
		return decodeAlu(trace.OpAdd, dst, src1, src2)
	case "sub", "subs":
		return decodeAlu(trace.OpSub, dst, src1, src2)
	case "mul":
		return decodeMul(dst, src1, src2)
	case "and":
		return decodeAlu(trace.OpAnd, dst, src1, src2)
	case "orr":
		return decodeOrr(dst, src1, src2)
	case "ret", "hlt", "brk":
		return Decoded{Recognized: true, Op: trace.OpHalt, Dst: dst}
	}
	return Decoded{}
}

// decodeMov handles "mov dst, #imm" and the register-to-register form
// "mov dst, src", both recorded as PUSH.
func decodeMov(dst, src1 string) Decoded {
	if !isRegister(dst) {
		return Decoded{}
	}
	if v, ok := parseImm(src1); ok {
		return Decoded{Recognized: true, Op: trace.OpPush, Dst: dst, ImmUsed: true, ImmVal: v}
	}
	if isRegister(src1) {
		return Decoded{Recognized: true, Op: trace.OpPush, Dst: dst, Src1: src1}
	}
	return Decoded{}
}

// decodeAlu handles the two-source-operand instructions (add/sub/and/orr's
// non-alias form), whose second source is either an immediate or a
// (possibly shifted) register.
func decodeAlu(op trace.Opcode, dst, src1, src2 string) Decoded {
	if !isRegister(dst) || !isRegister(src1) {
		return Decoded{}
	}
	if v, ok := parseImm(src2); ok {
		return Decoded{Recognized: true, Op: op, Dst: dst, Src1: src1, ImmUsed: true, ImmVal: v}
	}
	if isRegister(src2) {
		return Decoded{Recognized: true, Op: op, Dst: dst, Src1: src1, Src2: src2}
	}
	if sm := shiftRe.FindStringSubmatch(src2); sm != nil {
		amt, err := strconv.ParseUint(sm[3], 10, 32)
		if err != nil {
			return Decoded{}
		}
		return Decoded{
			Recognized: true, Op: op, Dst: dst, Src1: src1, Src2: sm[1],
			Shift: shiftKindOf(sm[2]), ShiftAmt: uint32(amt),
		}
	}
	return Decoded{}
}

func decodeMul(dst, src1, src2 string) Decoded {
	if !isRegister(dst) || !isRegister(src1) || !isRegister(src2) {
		return Decoded{}
	}
	return Decoded{Recognized: true, Op: trace.OpMul, Dst: dst, Src1: src1, Src2: src2}
}

// decodeOrr handles orr, including its "orr dst, src, xzr" / "orr dst, xzr,
// src" mov-alias forms, which this system records as PUSH of the register
// value rather than a bitwise OR with zero.
func decodeOrr(dst, src1, src2 string) Decoded {
	if !isRegister(dst) {
		return Decoded{}
	}
	if isZR(src2) && isRegister(src1) {
		return Decoded{Recognized: true, Op: trace.OpPush, Dst: dst, Src1: src1}
	}
	if isZR(src1) && isRegister(src2) {
		return Decoded{Recognized: true, Op: trace.OpPush, Dst: dst, Src1: src2}
	}
	return decodeAlu(trace.OpOr, dst, src1, src2)
}

func shiftKindOf(s string) ShiftKind {
	switch s {
	case "lsl":
		return ShiftLSL
	case "lsr":
		return ShiftLSR
	case "asr":
		return ShiftASR
	default:
		return ShiftNone
	}
}

func isRegister(s string) bool { return regRe.MatchString(s) }

func isZR(s string) bool { return s == "xzr" || s == "wzr" }

func parseImm(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
