// Package wire implements the exact newline-separated key:value text
// formats for commitment and proof files fixed by spec §6, as a strict
// line-oriented state machine keyed on declared section sizes rather than a
// general-purpose parser (spec §9's redesign note).
package wire

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/fidesinnova/armzk/commitment"
	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/proof"
	"github.com/fidesinnova/armzk/sumcheck"
)

// EncodeCommitment renders cc in the format of spec §6.
func EncodeCommitment(cc *commitment.Commitment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:1\n")
	fmt.Fprintf(&b, "source:%s\n", cc.SourceKind)
	fmt.Fprintf(&b, "code_size:%d\n", cc.CodeSize)
	fmt.Fprintf(&b, "code_sha:%s\n", hexDigest(cc.CodeSHA))
	fmt.Fprintf(&b, "code_kzg_base:%s\n", hexG1(cc.CodeKZGBase))
	return b.String()
}

// DecodeCommitment parses the format written by EncodeCommitment.
func DecodeCommitment(text string) (*commitment.Commitment, error) {
	r := newLineReader(text)

	if err := r.expectKey("version"); err != nil {
		return nil, err
	}
	if v := r.lastValue; v != "1" {
		return nil, structuralf("unsupported version %q", v)
	}

	if err := r.expectKey("source"); err != nil {
		return nil, err
	}
	kind := commitment.SourceKind(r.lastValue)
	if kind != commitment.SourceASM && kind != commitment.SourceBin {
		return nil, structuralf("unknown source kind %q", r.lastValue)
	}

	if err := r.expectKey("code_size"); err != nil {
		return nil, err
	}
	size, err := strconv.ParseUint(r.lastValue, 10, 64)
	if err != nil {
		return nil, internalf("bad code_size: %v", err)
	}

	if err := r.expectKey("code_sha"); err != nil {
		return nil, err
	}
	sha, err := parseDigest(r.lastValue)
	if err != nil {
		return nil, err
	}

	if err := r.expectKey("code_kzg_base"); err != nil {
		return nil, err
	}
	base, err := parseG1(r.lastValue)
	if err != nil {
		return nil, err
	}

	return &commitment.Commitment{
		CodeSHA:     sha,
		CodeSize:    size,
		CodeKZGBase: base,
		SourceKind:  kind,
	}, nil
}

// EncodeProof renders p in the format of spec §6.
func EncodeProof(p *proof.Proof) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:1\n")
	fmt.Fprintf(&b, "code_sha:%s\n", hexDigest(p.CodeSHA))
	fmt.Fprintf(&b, "domain_tag:%s\n", hexDigest(p.DomainTag))
	fmt.Fprintf(&b, "input_sha:%s\n", hexDigest(p.InputSHA))
	fmt.Fprintf(&b, "code_kzg_sess:%s\n", hexG1(p.CodeKZGSess))
	fmt.Fprintf(&b, "pc_comm:%s\n", hexG1(p.Columns.PC))
	fmt.Fprintf(&b, "op_comm:%s\n", hexG1(p.Columns.Op))
	fmt.Fprintf(&b, "z_comm:%s\n", hexG1(p.Columns.Z))
	fmt.Fprintf(&b, "x_comm:%s\n", hexG1(p.Columns.X))
	fmt.Fprintf(&b, "y_comm:%s\n", hexG1(p.Columns.Y))
	fmt.Fprintf(&b, "h_comm:%s\n", hexG1(p.Columns.H))
	fmt.Fprintf(&b, "trace_len:%d\n", p.TraceLen)
	fmt.Fprintf(&b, "trace_pow2:%d\n", p.TracePow2)

	fmt.Fprintf(&b, "sc_n:%d\n", len(p.Sumcheck.Rounds))
	fmt.Fprintf(&b, "sc_claim:%s\n", hexFr(p.Sumcheck.ClaimedSum))
	fmt.Fprintf(&b, "sc_rounds:%d\n", len(p.Sumcheck.Rounds))
	for i, rd := range p.Sumcheck.Rounds {
		fmt.Fprintf(&b, "sc_r%d_g0:%s\n", i, hexFr(rd.G0))
		fmt.Fprintf(&b, "sc_r%d_g1:%s\n", i, hexFr(rd.G1))
	}

	fmt.Fprintf(&b, "op_openings:%d\n", len(p.OpcodeOpenings))
	for _, o := range p.OpcodeOpenings {
		fmt.Fprintf(&b, "op_idx:%d\n", o.Idx)
		fmt.Fprintf(&b, "op_val:%s\n", hexFr(o.Value))
		fmt.Fprintf(&b, "op_wit:%s\n", hexG1(o.Witness))
	}

	fmt.Fprintf(&b, "row_openings:%d\n", len(p.RowOpenings))
	for i, ro := range p.RowOpenings {
		fmt.Fprintf(&b, "row_idx:%d\n", ro.Idx)
		writeOpen(&b, fmt.Sprintf("row%d_pc_i", i), ro.PCi)
		writeOpen(&b, fmt.Sprintf("row%d_pc_ip1", i), ro.PCip1)
		writeOpen(&b, fmt.Sprintf("row%d_op_i", i), ro.Opi)
		writeOpen(&b, fmt.Sprintf("row%d_x_i", i), ro.Xi)
		writeOpen(&b, fmt.Sprintf("row%d_y_i", i), ro.Yi)
		writeOpen(&b, fmt.Sprintf("row%d_z_i", i), ro.Zi)
		writeOpen(&b, fmt.Sprintf("row%d_h_i", i), ro.Hi)
	}

	fmt.Fprintf(&b, "final_output:%d\n", p.FinalOutput)
	return b.String()
}

func writeOpen(b *strings.Builder, prefix string, o proof.KZGOpen) {
	fmt.Fprintf(b, "%s_val:%s\n", prefix, hexFr(o.Value))
	fmt.Fprintf(b, "%s_wit:%s\n", prefix, hexG1(o.Witness))
}

// DecodeProof parses the format written by EncodeProof.
func DecodeProof(text string) (*proof.Proof, error) {
	r := newLineReader(text)
	var p proof.Proof

	if err := r.expectKey("version"); err != nil {
		return nil, err
	}
	if err := r.expectKey("code_sha"); err != nil {
		return nil, err
	}
	sha, err := parseDigest(r.lastValue)
	if err != nil {
		return nil, err
	}
	p.CodeSHA = sha

	if err := r.expectKey("domain_tag"); err != nil {
		return nil, err
	}
	if p.DomainTag, err = parseDigest(r.lastValue); err != nil {
		return nil, err
	}

	if err := r.expectKey("input_sha"); err != nil {
		return nil, err
	}
	if p.InputSHA, err = parseDigest(r.lastValue); err != nil {
		return nil, err
	}

	if err := r.expectKey("code_kzg_sess"); err != nil {
		return nil, err
	}
	if p.CodeKZGSess, err = parseG1(r.lastValue); err != nil {
		return nil, err
	}

	comms := map[string]*field.G1{
		"pc_comm": &p.Columns.PC,
		"op_comm": &p.Columns.Op,
		"z_comm":  &p.Columns.Z,
		"x_comm":  &p.Columns.X,
		"y_comm":  &p.Columns.Y,
		"h_comm":  &p.Columns.H,
	}
	for _, key := range []string{"pc_comm", "op_comm", "z_comm", "x_comm", "y_comm", "h_comm"} {
		if err := r.expectKey(key); err != nil {
			return nil, err
		}
		g1, err := parseG1(r.lastValue)
		if err != nil {
			return nil, err
		}
		*comms[key] = g1
	}

	if err := r.expectKey("trace_len"); err != nil {
		return nil, err
	}
	traceLen, err := strconv.ParseUint(r.lastValue, 10, 32)
	if err != nil {
		return nil, internalf("bad trace_len: %v", err)
	}
	p.TraceLen = uint32(traceLen)

	if err := r.expectKey("trace_pow2"); err != nil {
		return nil, err
	}
	tracePow2, err := strconv.ParseUint(r.lastValue, 10, 32)
	if err != nil {
		return nil, internalf("bad trace_pow2: %v", err)
	}
	p.TracePow2 = uint32(tracePow2)

	if err := r.expectKey("sc_n"); err != nil {
		return nil, err
	}
	if err := r.expectKey("sc_claim"); err != nil {
		return nil, err
	}
	claimedSum, err := parseFr(r.lastValue)
	if err != nil {
		return nil, err
	}
	p.Sumcheck.ClaimedSum = claimedSum

	if err := r.expectKey("sc_rounds"); err != nil {
		return nil, err
	}
	nRounds, err := strconv.Atoi(r.lastValue)
	if err != nil {
		return nil, internalf("bad sc_rounds: %v", err)
	}
	p.Sumcheck.Rounds = make([]sumcheck.Round, 0, nRounds)
	for i := 0; i < nRounds; i++ {
		if err := r.expectKey(fmt.Sprintf("sc_r%d_g0", i)); err != nil {
			return nil, err
		}
		g0, err := parseFr(r.lastValue)
		if err != nil {
			return nil, err
		}
		if err := r.expectKey(fmt.Sprintf("sc_r%d_g1", i)); err != nil {
			return nil, err
		}
		g1, err := parseFr(r.lastValue)
		if err != nil {
			return nil, err
		}
		p.Sumcheck.Rounds = append(p.Sumcheck.Rounds, sumcheck.Round{G0: g0, G1: g1})
	}

	if err := r.expectKey("op_openings"); err != nil {
		return nil, err
	}
	nOp, err := strconv.Atoi(r.lastValue)
	if err != nil {
		return nil, internalf("bad op_openings: %v", err)
	}
	p.OpcodeOpenings = make([]proof.KZGOpen, nOp)
	for i := 0; i < nOp; i++ {
		if err := r.expectKey("op_idx"); err != nil {
			return nil, err
		}
		idx, err := strconv.ParseUint(r.lastValue, 10, 64)
		if err != nil {
			return nil, internalf("bad op_idx: %v", err)
		}
		if err := r.expectKey("op_val"); err != nil {
			return nil, err
		}
		val, err := parseFr(r.lastValue)
		if err != nil {
			return nil, err
		}
		if err := r.expectKey("op_wit"); err != nil {
			return nil, err
		}
		wit, err := parseG1(r.lastValue)
		if err != nil {
			return nil, err
		}
		p.OpcodeOpenings[i] = proof.KZGOpen{Idx: idx, Value: val, Witness: wit}
	}

	if err := r.expectKey("row_openings"); err != nil {
		return nil, err
	}
	nRow, err := strconv.Atoi(r.lastValue)
	if err != nil {
		return nil, internalf("bad row_openings: %v", err)
	}
	p.RowOpenings = make([]proof.RowOpen, nRow)
	for i := 0; i < nRow; i++ {
		if err := r.expectKey("row_idx"); err != nil {
			return nil, err
		}
		idx, err := strconv.ParseUint(r.lastValue, 10, 64)
		if err != nil {
			return nil, internalf("bad row_idx: %v", err)
		}
		ro := proof.RowOpen{Idx: idx}
		prefix := fmt.Sprintf("row%d_", i)
		fields := []struct {
			name string
			idx  uint64
			dst  *proof.KZGOpen
		}{
			{"pc_i", idx, &ro.PCi}, {"pc_ip1", idx + 1, &ro.PCip1}, {"op_i", idx, &ro.Opi},
			{"x_i", idx, &ro.Xi}, {"y_i", idx, &ro.Yi}, {"z_i", idx, &ro.Zi}, {"h_i", idx, &ro.Hi},
		}
		for _, f := range fields {
			o, err := readOpen(r, f.idx, prefix+f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = o
		}
		p.RowOpenings[i] = ro
	}

	if err := r.expectKey("final_output"); err != nil {
		return nil, err
	}
	fo, err := strconv.ParseUint(r.lastValue, 10, 64)
	if err != nil {
		return nil, internalf("bad final_output: %v", err)
	}
	p.FinalOutput = fo

	return &p, nil
}

func readOpen(r *lineReader, idx uint64, prefix string) (proof.KZGOpen, error) {
	if err := r.expectKey(prefix + "_val"); err != nil {
		return proof.KZGOpen{}, err
	}
	val, err := parseFr(r.lastValue)
	if err != nil {
		return proof.KZGOpen{}, err
	}
	if err := r.expectKey(prefix + "_wit"); err != nil {
		return proof.KZGOpen{}, err
	}
	wit, err := parseG1(r.lastValue)
	if err != nil {
		return proof.KZGOpen{}, err
	}
	return proof.KZGOpen{Idx: idx, Value: val, Witness: wit}, nil
}

// --- shared line scanner ---

type lineReader struct {
	sc        *bufio.Scanner
	lastKey   string
	lastValue string
}

func newLineReader(text string) *lineReader {
	return &lineReader{sc: bufio.NewScanner(strings.NewReader(text))}
}

func (r *lineReader) expectKey(key string) error {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return internalf("read line: %v", err)
		}
		return structuralf("expected key %q, got end of input", key)
	}
	line := r.sc.Text()
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return structuralf("malformed line %q", line)
	}
	gotKey, value := line[:idx], line[idx+1:]
	if gotKey != key {
		return structuralf("expected key %q, got %q", key, gotKey)
	}
	r.lastKey = gotKey
	r.lastValue = value
	return nil
}

// --- hex helpers ---

func hexDigest(d [32]byte) string { return hex.EncodeToString(d[:]) }

func parseDigest(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return out, internalf("bad 32-byte hex digest %q", s)
	}
	copy(out[:], b)
	return out, nil
}

func hexFr(s field.Scalar) string {
	b := field.Bytes(s)
	return hex.EncodeToString(b[:])
}

func parseFr(s string) (field.Scalar, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return field.Scalar{}, internalf("bad Fr hex %q", s)
	}
	var arr [32]byte
	copy(arr[:], b)
	return field.SetBytesLE(arr), nil
}

func hexG1(p field.G1) string {
	b := p.Bytes()
	return hex.EncodeToString(b[:])
}

func parseG1(s string) (field.G1, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return field.G1{}, internalf("bad G1 hex %q", s)
	}
	var p field.G1
	if _, err := p.SetBytes(b); err != nil {
		return field.G1{}, internalf("bad G1 point %q: %v", s, err)
	}
	return p, nil
}

func structuralf(format string, args ...interface{}) error {
	return errors.Newf("structural: "+format, args...)
}

func internalf(format string, args ...interface{}) error {
	return errors.Newf("internal: "+format, args...)
}
