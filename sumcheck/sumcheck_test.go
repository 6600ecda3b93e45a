package sumcheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/transcript"
)

func sumTable(t []field.Scalar) field.Scalar {
	s := field.Zero()
	for _, v := range t {
		s.Add(&s, &v)
	}
	return s
}

func TestProveVerifyRoundTrip(t *testing.T) {
	table := make([]field.Scalar, 16)
	for i := range table {
		table[i] = field.FromUint64(uint64(i * 3))
	}
	claim := sumTable(table)

	trP := transcript.New()
	proof, _, err := Prove(table, trP)
	require.NoError(t, err)
	require.True(t, proof.ClaimedSum.Equal(&claim))

	trV := transcript.New()
	ok, _, err := Verify(proof, trV, claim)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongClaim(t *testing.T) {
	table := make([]field.Scalar, 8)
	for i := range table {
		table[i] = field.FromUint64(uint64(i))
	}
	claim := sumTable(table)

	trP := transcript.New()
	proof, _, err := Prove(table, trP)
	require.NoError(t, err)

	wrong := field.One()
	wrong.Add(&wrong, &claim)

	trV := transcript.New()
	ok, _, err := Verify(proof, trV, wrong)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProveRejectsNonPow2(t *testing.T) {
	table := make([]field.Scalar, 5)
	tr := transcript.New()
	_, _, err := Prove(table, tr)
	require.Error(t, err)
}

func TestZeroRoundsForSingleElement(t *testing.T) {
	table := []field.Scalar{field.FromUint64(7)}
	tr := transcript.New()
	proof, final, err := Prove(table, tr)
	require.NoError(t, err)
	require.Empty(t, proof.Rounds)
	require.True(t, final.Equal(&table[0]))
	require.True(t, proof.ClaimedSum.Equal(&table[0]))
}
