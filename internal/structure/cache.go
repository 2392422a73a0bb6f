package structure

import (
	"strata/internal/source"
	"strata/internal/token"
)

// CacheKey addresses one cached region: a hit requires both the exact span
// and the content hash to match, so a stale entry can never be served.
type CacheKey struct {
	Span source.Span
	Hash uint64
}

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Hits          uint64
	Misses        uint64
	Puts          uint64
	Evictions     uint64
	Invalidations uint64
	Entries       int
	Capacity      int
}

const nilIdx = int32(-1)

// entry lives in the cache slab. prev/next are recency links (intrusive
// doubly-linked list over slab indices), head = most recently used.
type entry struct {
	key        CacheKey
	boundaries []Boundary
	tokens     []token.Token
	prev, next int32
	hits       uint32
	live       bool
}

// Cache is the capacity-bounded boundary store. Entries sit in a slab and
// are referenced by stable indices, never by pointer, so eviction cannot
// dangle anything handed out: callers only ever receive copies.
//
// Single-owner: no internal locking. One cache per worker, or serialize
// access externally.
type Cache struct {
	entries []entry
	free    []int32
	index   map[CacheKey]int32
	head    int32
	tail    int32
	max     int
	stats   CacheStats
}

// NewCache creates a cache holding at most maxEntries regions.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		entries: make([]entry, 0, maxEntries),
		index:   make(map[CacheKey]int32, maxEntries),
		head:    nilIdx,
		tail:    nilIdx,
		max:     maxEntries,
	}
}

// Get returns a copy of the boundaries stored for (span, hash). Anything
// short of an exact match is a miss. A hit moves the entry to
// most-recently-used.
func (c *Cache) Get(span source.Span, hash uint64) ([]Boundary, bool) {
	idx, ok := c.index[CacheKey{Span: span, Hash: hash}]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	e := &c.entries[idx]
	e.hits++
	c.stats.Hits++
	c.moveToFront(idx)

	out := make([]Boundary, len(e.boundaries))
	copy(out, e.boundaries)
	return out, true
}

// GetTokens returns a copy of the token slice cached for (span, hash).
func (c *Cache) GetTokens(span source.Span, hash uint64) ([]token.Token, bool) {
	idx, ok := c.index[CacheKey{Span: span, Hash: hash}]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	e := &c.entries[idx]
	e.hits++
	c.stats.Hits++
	c.moveToFront(idx)

	out := make([]token.Token, len(e.tokens))
	copy(out, e.tokens)
	return out, true
}

// Put stores boundaries and tokens for (span, hash), taking ownership of
// both slices. An entry with the same key is replaced in place. At capacity
// the least-recently-used entry is evicted first; the cache never exceeds
// its configured size.
func (c *Cache) Put(span source.Span, hash uint64, boundaries []Boundary, tokens []token.Token) {
	key := CacheKey{Span: span, Hash: hash}
	c.stats.Puts++

	if idx, ok := c.index[key]; ok {
		e := &c.entries[idx]
		e.boundaries = boundaries
		e.tokens = tokens
		c.moveToFront(idx)
		return
	}

	if c.liveCount() >= c.max {
		c.EvictLRU()
	}

	idx := c.alloc()
	c.entries[idx] = entry{
		key:        key,
		boundaries: boundaries,
		tokens:     tokens,
		prev:       nilIdx,
		next:       nilIdx,
		live:       true,
	}
	c.index[key] = idx
	c.pushFront(idx)
}

// Invalidate destroys every entry whose span overlaps the given span and
// returns how many were removed. Non-overlapping entries are untouched —
// this is what keeps edits from recomputing the whole file.
func (c *Cache) Invalidate(span source.Span) int {
	removed := 0
	for idx := range c.entries {
		e := &c.entries[idx]
		if !e.live || !e.key.Span.Overlaps(span) {
			continue
		}
		c.destroy(int32(idx))
		removed++
	}
	c.stats.Invalidations += uint64(removed)
	return removed
}

// Shift moves every entry whose span starts at or after from by delta
// bytes, rewriting keys and the spans of the owned boundaries and tokens.
// Entries straddling from are expected to be invalidated by the caller:
// they overlap the edit that produced the shift.
func (c *Cache) Shift(from uint32, delta int64) {
	if delta == 0 {
		return
	}
	rekeyed := make(map[CacheKey]int32, len(c.index))
	for key, idx := range c.index {
		if key.Span.Start < from {
			rekeyed[key] = idx
			continue
		}
		e := &c.entries[idx]
		key.Span = key.Span.Shift(delta)
		e.key = key
		for i := range e.boundaries {
			e.boundaries[i].Span = e.boundaries[i].Span.Shift(delta)
		}
		for i := range e.tokens {
			e.tokens[i].Span = e.tokens[i].Span.Shift(delta)
		}
		rekeyed[key] = idx
	}
	c.index = rekeyed
}

// EvictLRU destroys the least-recently-used entry. Returns false when the
// cache is empty.
func (c *Cache) EvictLRU() bool {
	if c.tail == nilIdx {
		return false
	}
	c.destroy(c.tail)
	c.stats.Evictions++
	return true
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	s := c.stats
	s.Entries = c.liveCount()
	s.Capacity = c.max
	return s
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.liveCount() }

// Reset tears the cache down, destroying every entry but keeping capacity.
func (c *Cache) Reset() {
	c.entries = c.entries[:0]
	c.free = c.free[:0]
	c.index = make(map[CacheKey]int32, c.max)
	c.head = nilIdx
	c.tail = nilIdx
}

func (c *Cache) liveCount() int { return len(c.index) }

func (c *Cache) alloc() int32 {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		return idx
	}
	c.entries = append(c.entries, entry{})
	return int32(len(c.entries) - 1)
}

// destroy unlinks and frees one entry. An entry is destroyed exactly once:
// live guards against double-destroy from overlapping invalidations.
func (c *Cache) destroy(idx int32) {
	e := &c.entries[idx]
	if !e.live {
		return
	}
	c.unlink(idx)
	delete(c.index, e.key)
	*e = entry{prev: nilIdx, next: nilIdx}
	c.free = append(c.free, idx)
}

func (c *Cache) pushFront(idx int32) {
	e := &c.entries[idx]
	e.prev = nilIdx
	e.next = c.head
	if c.head != nilIdx {
		c.entries[c.head].prev = idx
	}
	c.head = idx
	if c.tail == nilIdx {
		c.tail = idx
	}
}

func (c *Cache) unlink(idx int32) {
	e := &c.entries[idx]
	if e.prev != nilIdx {
		c.entries[e.prev].next = e.next
	} else if c.head == idx {
		c.head = e.next
	}
	if e.next != nilIdx {
		c.entries[e.next].prev = e.prev
	} else if c.tail == idx {
		c.tail = e.prev
	}
	e.prev = nilIdx
	e.next = nilIdx
}

func (c *Cache) moveToFront(idx int32) {
	if c.head == idx {
		return
	}
	c.unlink(idx)
	c.pushFront(idx)
}
