package commitment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/kzg"
)

func TestBuildIsDeterministic(t *testing.T) {
	srs := kzg.DeterministicSetup(256)
	code := []byte("mov x0, #5\nadd x1, x0, x0\n")

	a, err := Build(srs, code, SourceASM)
	require.NoError(t, err)
	b, err := Build(srs, code, SourceASM)
	require.NoError(t, err)

	require.Equal(t, a.CodeSHA, b.CodeSHA)
	require.True(t, a.CodeKZGBase.Equal(&b.CodeKZGBase))
	require.Equal(t, uint64(len(code)), a.CodeSize)
	require.Equal(t, field.Sha256(code), a.CodeSHA)
}

func TestBuildDiffersOnByteChange(t *testing.T) {
	srs := kzg.DeterministicSetup(256)
	a, err := Build(srs, []byte("aaa"), SourceBin)
	require.NoError(t, err)
	b, err := Build(srs, []byte("aab"), SourceBin)
	require.NoError(t, err)

	require.NotEqual(t, a.CodeSHA, b.CodeSHA)
	require.False(t, a.CodeKZGBase.Equal(&b.CodeKZGBase))
}
