package structure

import (
	"encoding/binary"
	"hash/fnv"

	"strata/internal/token"
)

// ContentHash hashes the kinds and spans of a token region into the 64-bit
// key half the cache requires alongside the exact span. Spans are hashed
// relative to the region start so that shifting a region wholesale (an edit
// earlier in the buffer) does not change its hash — only its key span.
// Trivia tokens participate: moving a comment must miss the cache.
func ContentHash(tokens []token.Token) uint64 {
	h := fnv.New64a()
	if len(tokens) == 0 {
		return h.Sum64()
	}
	base := tokens[0].Span.Start
	var buf [9]byte
	for _, tok := range tokens {
		buf[0] = byte(tok.Kind)
		binary.LittleEndian.PutUint32(buf[1:5], tok.Span.Start-base)
		binary.LittleEndian.PutUint32(buf[5:9], tok.Span.End-base)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
