package tracer

import (
	"context"

	"go.uber.org/zap"

	"github.com/fidesinnova/armzk/decoder"
	"github.com/fidesinnova/armzk/trace"
)

// Trace runs binary under GDB, single-stepping until it exits or maxSteps is
// reached, and returns the recorded rows. Only recognized, supported
// mnemonics are turned into rows; a synthetic HALT row is appended once the
// target exits, matching trace_with_gdb's behavior.
func Trace(ctx context.Context, log *zap.Logger, binary string, args []string, maxSteps int) ([]trace.Row, error) {
	g, err := Start(ctx, log, binary, args)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	cache := newLutCache()
	var rows []trace.Row
	var pc uint32

	for steps := 0; steps < maxSteps; steps++ {
		disas, err := g.DisasCur()
		if err != nil {
			return nil, err
		}
		line := lastNonEmpty(disas)

		var dec decoder.Decoded
		if cached, ok := cache.get(line); ok {
			dec = cached
		} else {
			dec = decoder.Decode(line)
			cache.put(line, dec)
		}

		lines, err := g.StepI()
		if err != nil {
			return nil, err
		}

		if IsExited(lines) {
			if len(rows) > 0 {
				rows = append(rows, haltRow(pc, rows[len(rows)-1].Z))
			}
			break
		}
		if !IsStopped(lines) {
			continue
		}
		if !dec.Recognized {
			log.Debug("skipping unsupported instruction", zap.String("line", line))
			continue
		}

		row, err := buildRow(g, pc, dec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		pc++
	}

	if len(rows) == 0 {
		rows = append(rows, trace.Row{PC: 0, Opcode: trace.OpHalt, IsHalt: true})
	}
	return rows, nil
}

// buildRow reads the operand values a decoded instruction actually touched,
// post-step, mirroring trace_with_gdb's x/y/z assembly: x from src1 (if
// any), y from an immediate or a (possibly shifted) src2, z from dst.
func buildRow(g *GdbMi, pc uint32, dec decoder.Decoded) (trace.Row, error) {
	row := trace.Row{PC: pc, Opcode: dec.Op}
	if dec.Op == trace.OpHalt {
		row.IsHalt = true
		return row, nil
	}

	if dec.Src1 != "" {
		if v, err := g.ReadRegX(dec.Src1); err == nil {
			row.X = v
		}
	}

	switch {
	case dec.ImmUsed:
		row.Y = uint64(dec.ImmVal)
	case dec.Src2 != "":
		if v, err := g.ReadRegX(dec.Src2); err == nil {
			row.Y = applyShift(v, dec.Shift, dec.ShiftAmt)
		}
	}

	if v, err := g.ReadRegX(dec.Dst); err == nil {
		row.Z = v
	}
	return row, nil
}

// applyShift mirrors trace_with_gdb's apply_shift: a shift amount of 64 or
// more on a 64-bit value is treated as producing zero (or -1's sign-extend
// for ASR, capped at 63).
func applyShift(v uint64, kind decoder.ShiftKind, amt uint32) uint64 {
	switch kind {
	case decoder.ShiftLSL:
		if amt >= 64 {
			return 0
		}
		return v << amt
	case decoder.ShiftLSR:
		if amt >= 64 {
			return 0
		}
		return v >> amt
	case decoder.ShiftASR:
		if amt >= 64 {
			amt = 63
		}
		return uint64(int64(v) >> amt)
	default:
		return v
	}
}

func haltRow(pc uint32, lastZ uint64) trace.Row {
	return trace.Row{PC: pc, Opcode: trace.OpHalt, Z: lastZ, IsHalt: true}
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}
	return ""
}
