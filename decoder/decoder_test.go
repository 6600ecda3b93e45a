package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/trace"
)

func TestDecodeMovImmediate(t *testing.T) {
	d := Decode("0x0000000000400078 <+8>:\tmov\tx0, #5")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpPush, d.Op)
	require.True(t, d.ImmUsed)
	require.Equal(t, int64(5), d.ImmVal)
}

func TestDecodeAdd(t *testing.T) {
	d := Decode("0x000000000040007c <+12>:\tadd\tx1, x0, x2")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpAdd, d.Op)
	require.Equal(t, "x1", d.Dst)
	require.Equal(t, "x0", d.Src1)
	require.Equal(t, "x2", d.Src2)
	require.False(t, d.ImmUsed)
}

func TestDecodeAddImmediate(t *testing.T) {
	d := Decode("0x0000000000400090 <+24>:\tadd\tx3, x0, #7")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpAdd, d.Op)
	require.Equal(t, "x0", d.Src1)
	require.True(t, d.ImmUsed)
	require.Equal(t, int64(7), d.ImmVal)
	require.Empty(t, d.Src2)
}

func TestDecodeAddShiftedRegister(t *testing.T) {
	d := Decode("0x0000000000400094 <+28>:\tadd\tx4, x0, x1, lsl #3")
	require.True(t, d.Recognized)
	require.Equal(t, "x1", d.Src2)
	require.Equal(t, ShiftLSL, d.Shift)
	require.Equal(t, uint32(3), d.ShiftAmt)
}

func TestDecodeMulCapturesBothSources(t *testing.T) {
	d := Decode("0x0000000000400098 <+32>:\tmul\tx5, x1, x2")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpMul, d.Op)
	require.Equal(t, "x1", d.Src1)
	require.Equal(t, "x2", d.Src2)
}

func TestDecodeOrrZeroRegAlias(t *testing.T) {
	d := Decode("0x0000000000400080 <+16>:\torr\tx2, xzr, x1")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpPush, d.Op)
	require.Equal(t, "x1", d.Src1)
}

func TestDecodeOrrZeroRegAliasSecondOperand(t *testing.T) {
	d := Decode("0x0000000000400084 <+20>:\torr\tx2, x1, xzr")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpPush, d.Op)
	require.Equal(t, "x1", d.Src1)
}

func TestDecodeMovRegisterToRegister(t *testing.T) {
	d := Decode("0x0000000000400088 <+24>:\tmov\tx6, x2")
	require.True(t, d.Recognized)
	require.Equal(t, trace.OpPush, d.Op)
	require.False(t, d.ImmUsed)
	require.Equal(t, "x2", d.Src1)
}

func TestDecodeUnrecognizedBranch(t *testing.T) {
	d := Decode("0x0000000000400084 <+20>:\tcbnz\tx0, 0x400070")
	require.False(t, d.Recognized)
}
