package structure_test

import (
	"testing"

	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/structure"
	"strata/internal/token"
)

func makeRegion(start, end uint32) ([]structure.Boundary, []token.Token) {
	boundaries := []structure.Boundary{{
		Span:       source.Span{Start: start, End: end},
		Kind:       lang.TagBrace,
		Confidence: 1,
		Balanced:   true,
	}}
	tokens := []token.Token{
		{Kind: token.OpenDelim, Span: source.Span{Start: start, End: start + 1}},
		{Kind: token.CloseDelim, Span: source.Span{Start: end - 1, End: end}},
	}
	return boundaries, tokens
}

func TestCache_ExactKeyMatch(t *testing.T) {
	c := structure.NewCache(8)
	span := source.Span{Start: 0, End: 10}
	boundaries, tokens := makeRegion(0, 10)
	hash := structure.ContentHash(tokens)
	c.Put(span, hash, boundaries, tokens)

	if got, ok := c.Get(span, hash); !ok || len(got) != 1 {
		t.Fatalf("Get = %v, %v; want hit", got, ok)
	}
	// Совпадение только по span — промах.
	if _, ok := c.Get(span, hash+1); ok {
		t.Error("hash mismatch must miss")
	}
	// Совпадение только по hash — тоже промах.
	if _, ok := c.Get(source.Span{Start: 0, End: 11}, hash); ok {
		t.Error("span mismatch must miss")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCache_GetReturnsCopy(t *testing.T) {
	c := structure.NewCache(4)
	span := source.Span{Start: 0, End: 10}
	boundaries, tokens := makeRegion(0, 10)
	c.Put(span, 7, boundaries, tokens)

	got, _ := c.Get(span, 7)
	got[0].Confidence = 0

	again, _ := c.Get(span, 7)
	if again[0].Confidence != 1 {
		t.Error("caller mutation leaked into the cache")
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := structure.NewCache(2)

	spanA := source.Span{Start: 0, End: 10}
	spanB := source.Span{Start: 20, End: 30}
	spanC := source.Span{Start: 40, End: 50}
	ba, ta := makeRegion(0, 10)
	bb, tb := makeRegion(20, 30)
	bc, tc := makeRegion(40, 50)

	c.Put(spanA, 1, ba, ta)
	c.Put(spanB, 2, bb, tb)
	c.Put(spanC, 3, bc, tc) // вытесняет A как самый старый

	if _, ok := c.Get(spanA, 1); ok {
		t.Error("A must be evicted")
	}
	if _, ok := c.Get(spanB, 2); !ok {
		t.Error("B must survive")
	}
	if _, ok := c.Get(spanC, 3); !ok {
		t.Error("C must survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	c := structure.NewCache(2)
	spanA := source.Span{Start: 0, End: 10}
	spanB := source.Span{Start: 20, End: 30}
	spanC := source.Span{Start: 40, End: 50}
	ba, ta := makeRegion(0, 10)
	bb, tb := makeRegion(20, 30)
	bc, tc := makeRegion(40, 50)

	c.Put(spanA, 1, ba, ta)
	c.Put(spanB, 2, bb, tb)
	c.Get(spanA, 1) // A становится самым свежим
	c.Put(spanC, 3, bc, tc)

	if _, ok := c.Get(spanA, 1); !ok {
		t.Error("A was touched and must survive")
	}
	if _, ok := c.Get(spanB, 2); ok {
		t.Error("B must be evicted as least recently used")
	}
}

func TestCache_PutReplacesSameKey(t *testing.T) {
	c := structure.NewCache(4)
	span := source.Span{Start: 0, End: 10}
	b1, t1 := makeRegion(0, 10)
	c.Put(span, 9, b1, t1)

	b2, t2 := makeRegion(0, 10)
	b2[0].Confidence = 0.5
	c.Put(span, 9, b2, t2)

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	got, _ := c.Get(span, 9)
	if got[0].Confidence != 0.5 {
		t.Error("replacement did not take effect")
	}
}

func TestCache_InvalidateOverlap(t *testing.T) {
	c := structure.NewCache(8)
	ba, ta := makeRegion(0, 10)
	bb, tb := makeRegion(20, 30)
	bc, tc := makeRegion(25, 35)
	c.Put(source.Span{Start: 0, End: 10}, 1, ba, ta)
	c.Put(source.Span{Start: 20, End: 30}, 2, bb, tb)
	c.Put(source.Span{Start: 25, End: 35}, 3, bc, tc)

	removed := c.Invalidate(source.Span{Start: 22, End: 27})
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if _, ok := c.Get(source.Span{Start: 0, End: 10}, 1); !ok {
		t.Error("non-overlapping entry must survive")
	}
	if c.Stats().Invalidations != 2 {
		t.Errorf("Invalidations = %d", c.Stats().Invalidations)
	}
}

func TestCache_ShiftPreservesHits(t *testing.T) {
	c := structure.NewCache(8)
	boundaries, tokens := makeRegion(20, 30)
	hash := structure.ContentHash(tokens)
	c.Put(source.Span{Start: 20, End: 30}, hash, boundaries, tokens)

	// Правка раньше региона смещает его на +5 байт.
	c.Shift(10, 5)

	shifted := []token.Token{
		{Kind: token.OpenDelim, Span: source.Span{Start: 25, End: 26}},
		{Kind: token.CloseDelim, Span: source.Span{Start: 34, End: 35}},
	}
	// Хеш относителен началу региона и переживает сдвиг.
	if structure.ContentHash(shifted) != hash {
		t.Fatal("content hash must be shift-invariant")
	}
	got, ok := c.Get(source.Span{Start: 25, End: 35}, hash)
	if !ok {
		t.Fatal("shifted entry must hit under its new span")
	}
	if got[0].Span != (source.Span{Start: 25, End: 35}) {
		t.Errorf("stored boundary span not shifted: %v", got[0].Span)
	}
	if _, ok := c.Get(source.Span{Start: 20, End: 30}, hash); ok {
		t.Error("old span must miss after shift")
	}
}

func TestCache_ShiftLeavesEarlierEntries(t *testing.T) {
	c := structure.NewCache(8)
	ba, ta := makeRegion(0, 5)
	c.Put(source.Span{Start: 0, End: 5}, 1, ba, ta)

	c.Shift(10, -3)

	if _, ok := c.Get(source.Span{Start: 0, End: 5}, 1); !ok {
		t.Error("entry before the shift point must keep its key")
	}
}

func TestCache_Reset(t *testing.T) {
	c := structure.NewCache(4)
	ba, ta := makeRegion(0, 10)
	c.Put(source.Span{Start: 0, End: 10}, 1, ba, ta)

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len after Reset = %d", c.Len())
	}
	if _, ok := c.Get(source.Span{Start: 0, End: 10}, 1); ok {
		t.Error("Reset must drop everything")
	}
}

func TestContentHash_SensitiveToKind(t *testing.T) {
	a := []token.Token{{Kind: token.Number, Span: source.Span{Start: 0, End: 1}}}
	b := []token.Token{{Kind: token.String, Span: source.Span{Start: 0, End: 1}}}
	if structure.ContentHash(a) == structure.ContentHash(b) {
		t.Error("different kinds must hash differently")
	}
}

func TestContentHash_Empty(t *testing.T) {
	if structure.ContentHash(nil) != structure.ContentHash([]token.Token{}) {
		t.Error("empty hashes must agree")
	}
}
