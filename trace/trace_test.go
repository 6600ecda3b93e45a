package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/field"
)

func TestBuildColumnsPadsToPow2(t *testing.T) {
	rows := []Row{
		{PC: 0, Opcode: OpPush, Z: 5},
		{PC: 1, Opcode: OpAdd, X: 5, Y: 7, Z: 12},
		{PC: 2, Opcode: OpHalt, Z: 12, IsHalt: true},
	}
	cols, err := BuildColumns(rows)
	require.NoError(t, err)
	require.Equal(t, 3, cols.Len)
	require.Equal(t, 4, cols.Pow2)
}

func TestTransitionTableZeroOnValidTrace(t *testing.T) {
	rows := []Row{
		{PC: 0, Opcode: OpPush, Z: 5},
		{PC: 1, Opcode: OpAdd, X: 5, Y: 7, Z: 12},
		{PC: 2, Opcode: OpHalt, Z: 12, IsHalt: true},
	}
	cols, err := BuildColumns(rows)
	require.NoError(t, err)

	f := cols.TransitionTable()
	sum := field.Zero()
	for _, v := range f {
		sum.Add(&sum, &v)
	}
	require.True(t, sum.IsZero())
}

// TestTransitionTableZeroWithWidePadding covers a trace length whose gap to
// the next power of two is >= 2 (T=6, Pow2=8), so consecutive padding
// indices i,i+1 >= T exist. A transition formula applied outside [0, T-2]
// would spuriously see PC and H both zero at those indices and manufacture
// a nonzero term, so this catches that class of bug that T in {1,2,3} can't.
func TestTransitionTableZeroWithWidePadding(t *testing.T) {
	rows := []Row{
		{PC: 0, Opcode: OpPush, Z: 1},
		{PC: 1, Opcode: OpPush, Z: 2},
		{PC: 2, Opcode: OpAdd, X: 1, Y: 2, Z: 3},
		{PC: 3, Opcode: OpPush, Z: 4},
		{PC: 4, Opcode: OpMul, X: 3, Y: 4, Z: 12},
		{PC: 5, Opcode: OpHalt, Z: 12, IsHalt: true},
	}
	cols, err := BuildColumns(rows)
	require.NoError(t, err)
	require.Equal(t, 6, cols.Len)
	require.Equal(t, 8, cols.Pow2)

	f := cols.TransitionTable()
	sum := field.Zero()
	for _, v := range f {
		sum.Add(&sum, &v)
	}
	require.True(t, sum.IsZero())
}

// TestBuildColumnsToleratesPcBreak documents that column building itself
// does not enforce the pc successor chain; a broken chain is rejected only
// by Verify's row-opening spot check (see proof.TestScenarioPcBreakRejects).
func TestBuildColumnsToleratesPcBreak(t *testing.T) {
	rows := []Row{
		{PC: 0, Opcode: OpPush},
		{PC: 2, Opcode: OpAdd},
		{PC: 3, Opcode: OpHalt, IsHalt: true},
	}
	_, err := BuildColumns(rows)
	require.NoError(t, err)
}

func TestIsAllowedOpcode(t *testing.T) {
	require.True(t, IsAllowed(field.FromUint64(uint64(OpHalt))))
	require.False(t, IsAllowed(field.FromUint64(6)))
}

func TestNextPow2(t *testing.T) {
	require.Equal(t, 1, NextPow2(1))
	require.Equal(t, 4, NextPow2(3))
	require.Equal(t, 8, NextPow2(8))
}
