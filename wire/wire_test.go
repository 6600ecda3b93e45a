package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/commitment"
	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/instance"
	"github.com/fidesinnova/armzk/kzg"
	"github.com/fidesinnova/armzk/proof"
	"github.com/fidesinnova/armzk/trace"
)

func TestCommitmentRoundTrip(t *testing.T) {
	srs := kzg.DeterministicSetup(64)
	cc, err := commitment.Build(srs, []byte("mov x0,#1\nret\n"), commitment.SourceASM)
	require.NoError(t, err)

	text := EncodeCommitment(cc)
	got, err := DecodeCommitment(text)
	require.NoError(t, err)

	require.Equal(t, cc.CodeSHA, got.CodeSHA)
	require.Equal(t, cc.CodeSize, got.CodeSize)
	require.Equal(t, cc.SourceKind, got.SourceKind)
	require.True(t, cc.CodeKZGBase.Equal(&got.CodeKZGBase))
}

func TestProofRoundTrip(t *testing.T) {
	srs := kzg.DeterministicSetup(128)
	cc, err := commitment.Build(srs, []byte("mov x0,#5\nadd x1,x0,x0\nret\n"), commitment.SourceASM)
	require.NoError(t, err)

	pub := instance.Public{
		DomainTag: field.Sha256([]byte("ctx-1")),
		InputSHA:  field.Sha256([]byte("")),
	}
	rows := []trace.Row{
		{PC: 0, Opcode: trace.OpPush, Z: 5},
		{PC: 1, Opcode: trace.OpAdd, X: 5, Y: 7, Z: 12},
		{PC: 2, Opcode: trace.OpHalt, Z: 12, IsHalt: true},
	}
	p, err := proof.Prove(srs, cc, pub, rows, proof.DefaultOpcodeSamples, proof.DefaultRowSamples)
	require.NoError(t, err)

	text := EncodeProof(p)
	got, err := DecodeProof(text)
	require.NoError(t, err)

	require.Equal(t, p.CodeSHA, got.CodeSHA)
	require.Equal(t, p.DomainTag, got.DomainTag)
	require.Equal(t, p.TraceLen, got.TraceLen)
	require.Equal(t, p.TracePow2, got.TracePow2)
	require.Equal(t, p.FinalOutput, got.FinalOutput)
	require.Equal(t, len(p.OpcodeOpenings), len(got.OpcodeOpenings))
	require.Equal(t, len(p.RowOpenings), len(got.RowOpenings))
	require.True(t, p.CodeKZGSess.Equal(&got.CodeKZGSess))
	require.True(t, p.Sumcheck.ClaimedSum.Equal(&got.Sumcheck.ClaimedSum), "sc_claim must round-trip, not be silently zeroed")

	require.NoError(t, proof.Verify(srs, cc, pub, got, proof.DefaultOpcodeSamples, proof.DefaultRowSamples))
}
