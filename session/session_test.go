package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/kzg"
)

func TestBlindingPolyDeterministic(t *testing.T) {
	tagA := field.Sha256([]byte("ctx-1"))
	a1 := BlindingPoly(tagA, DefaultBlindDegree)
	a2 := BlindingPoly(tagA, DefaultBlindDegree)
	require.Equal(t, len(a1), len(a2))
	for i := range a1 {
		require.True(t, a1[i].Equal(&a2[i]))
	}

	tagB := field.Sha256([]byte("ctx-2"))
	b := BlindingPoly(tagB, DefaultBlindDegree)
	require.False(t, a1[0].Equal(&b[0]))
}

func TestSessionCommitmentChangesWithTag(t *testing.T) {
	srs := kzg.DeterministicSetup(32)
	base := field.HashToG1("base-commit-test")

	tagA := field.Sha256([]byte("ctx-1"))
	tagB := field.Sha256([]byte("ctx-2"))

	sessA, err := SessionCommitment(srs, base, tagA)
	require.NoError(t, err)
	sessB, err := SessionCommitment(srs, base, tagB)
	require.NoError(t, err)

	require.False(t, sessA.Equal(&sessB))
}
