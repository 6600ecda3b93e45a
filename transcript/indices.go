package transcript

import (
	"encoding/binary"

	"github.com/fidesinnova/armzk/field"
)

// DeriveIndices produces k pseudorandom indices in [0, domain) from a
// 32-byte seed: hash seed||counter (32-bit big-endian counter), take the
// top 8 bytes modulo domain, then advance the running state to the latest
// digest before deriving the next index.
func DeriveIndices(seed [32]byte, k int, domain uint64) []uint64 {
	out := make([]uint64, k)
	cur := seed
	for i := 0; i < k; i++ {
		buf := make([]byte, 36)
		copy(buf, cur[:])
		binary.BigEndian.PutUint32(buf[32:], uint32(i))
		digest := field.Sha256(buf)
		top := binary.BigEndian.Uint64(digest[:8])
		out[i] = top % domain
		cur = digest
	}
	return out
}

// RowSeed derives the seed for the row-index stream from the index seed,
// per spec step 9: SHA-256(index_seed || 0x52).
func RowSeed(indexSeed [32]byte) [32]byte {
	buf := make([]byte, 33)
	copy(buf, indexSeed[:])
	buf[32] = 0x52
	return field.Sha256(buf)
}
