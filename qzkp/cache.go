package qzkp

import (
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"axiom-trust/hashing"
)

// result is a cached verification outcome with its classifying reason.
type result struct {
	ok     bool
	reason error
}

// resultCache remembers verification outcomes by proof identity.
type resultCache struct {
	entries *lru.Cache[[32]byte, result]
}

func newResultCache(size int) (*resultCache, error) {
	entries, err := lru.New[[32]byte, result](size)
	if err != nil {
		return nil, fmt.Errorf("qzkp: result cache: %w", err)
	}
	return &resultCache{entries: entries}, nil
}

// get looks up without promoting, keeping eviction strictly oldest-first.
func (c *resultCache) get(key [32]byte) (result, bool) {
	return c.entries.Peek(key)
}

func (c *resultCache) add(key [32]byte, r result) {
	c.entries.Add(key, r)
}

func (c *resultCache) len() int {
	return c.entries.Len()
}

// cacheKey digests the full proof identity: canonical body, signature,
// identifier and commitment, each length-prefixed so field boundaries cannot
// alias.
func cacheKey(body, signature []byte, identifier string, commitment Commitment) [32]byte {
	buf := make([]byte, 0, 3*8+len(body)+len(signature)+len(identifier)+len(commitment))
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(body)))
	buf = append(buf, n[:]...)
	buf = append(buf, body...)
	binary.LittleEndian.PutUint64(n[:], uint64(len(signature)))
	buf = append(buf, n[:]...)
	buf = append(buf, signature...)
	binary.LittleEndian.PutUint64(n[:], uint64(len(identifier)))
	buf = append(buf, n[:]...)
	buf = append(buf, identifier...)
	buf = append(buf, commitment[:]...)
	return hashing.SumContext(hashing.ContextProofCache, buf)
}
