package tracer

import (
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/fidesinnova/armzk/decoder"
)

// lutCache memoizes decoder.Decode results keyed by a BLAKE2b checksum of
// the raw disassembly line, so a tight loop that re-disassembles the same
// handful of instructions thousands of times during single-stepping does
// not re-run the decoder's regexp match every step.
type lutCache struct {
	mu sync.Mutex
	m  map[[32]byte]decoder.Decoded
}

func newLutCache() *lutCache {
	return &lutCache{m: make(map[[32]byte]decoder.Decoded)}
}

func (c *lutCache) get(line string) (decoder.Decoded, bool) {
	key := blake2b.Sum256([]byte(line))
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.m[key]
	return d, ok
}

func (c *lutCache) put(line string, d decoder.Decoded) {
	key := blake2b.Sum256([]byte(line))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = d
}
