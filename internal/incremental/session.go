// Package incremental orchestrates the other layers for editor use: apply
// an edit, recompute the minimal invalidated region, and order reparse work
// around a viewport. One Session per buffer per worker; no internal
// locking.
package incremental

import (
	"errors"

	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/lexer"
	"strata/internal/parser"
	"strata/internal/source"
	"strata/internal/structure"
	"strata/internal/token"
)

// ErrSpanOutOfRange is returned for edits whose OldSpan does not lie inside
// the current buffer.
var ErrSpanOutOfRange = errors.New("incremental: edit span out of range")

type Options struct {
	// MaxEntries bounds the boundary cache.
	MaxEntries int
	// MaxDiagnostics bounds the per-refresh diagnostic bag.
	MaxDiagnostics int
	// Parser configures boundary-scoped reparses.
	Parser parser.Options
}

func DefaultOptions() Options {
	return Options{
		MaxEntries:     128,
		MaxDiagnostics: 100,
	}
}

// Session owns the evolving state for one buffer: source bytes, token
// stream, boundary list, and the boundary cache. Tokens keep comments: the
// stream must stay lossless for splicing to be sound.
type Session struct {
	language   lang.Language
	src        []byte
	tokens     []token.Token
	boundaries []structure.Boundary
	cache      *structure.Cache
	bag        *diag.Bag
	opts       Options
}

// NewSession runs the cold pipeline over src: lex, detect boundaries, prime
// the cache with every balanced region.
func NewSession(src []byte, language lang.Language, opts Options) *Session {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultOptions().MaxEntries
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultOptions().MaxDiagnostics
	}
	s := &Session{
		language: language,
		src:      src,
		cache:    structure.NewCache(opts.MaxEntries),
		opts:     opts,
	}
	s.refresh()
	return s
}

// Source returns the current buffer.
func (s *Session) Source() []byte { return s.src }

// Tokens returns the current token stream (EOF token included). Read-only.
func (s *Session) Tokens() []token.Token { return s.tokens }

// Boundaries returns the current boundary list. Read-only.
func (s *Session) Boundaries() []structure.Boundary { return s.boundaries }

// Cache exposes the boundary cache, for stats and external probes.
func (s *Session) Cache() *structure.Cache { return s.cache }

// Diagnostics returns the bag filled by the most recent refresh.
func (s *Session) Diagnostics() *diag.Bag { return s.bag }

// refresh re-lexes everything and rebuilds boundaries; the cold path and
// the fallback when an edit cannot be applied minimally.
func (s *Session) refresh() {
	s.bag = diag.NewBag(s.opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: s.bag}

	lx := lexer.New(s.src, s.language, lexer.Options{Reporter: reporter, PreserveComments: true})
	s.tokens = lx.Scan()
	s.boundaries = structure.Detect(s.tokens, s.language.Pairs(), reporter)
	s.primeCache()
}

// primeCache stores every balanced boundary region keyed by content hash.
func (s *Session) primeCache() {
	for _, b := range s.boundaries {
		if !b.Balanced {
			continue
		}
		region := s.tokensIn(b.Span)
		hash := structure.ContentHash(region)
		if _, ok := s.cache.Get(b.Span, hash); ok {
			continue
		}
		owned := make([]token.Token, len(region))
		copy(owned, region)
		s.cache.Put(b.Span, hash, []structure.Boundary{b}, owned)
	}
}

// ApplyEdit applies one edit and returns the exact token range that
// changed. The steps mirror the stratified design: shift surviving state,
// invalidate overlapping cache entries, re-lex the minimal region bounded
// by the nearest still-valid boundaries, expanding outward until the lexer
// resynchronizes with the surviving stream.
func (s *Session) ApplyEdit(e Edit) (TokenDelta, error) {
	if e.OldSpan.End < e.OldSpan.Start || int(e.OldSpan.End) > len(s.src) {
		return TokenDelta{}, ErrSpanOutOfRange
	}

	delta := e.Delta()
	newSpan := e.NewSpan()

	// Splice the buffer.
	next := make([]byte, 0, int64(len(s.src))+delta)
	next = append(next, s.src[:e.OldSpan.Start]...)
	next = append(next, e.NewText...)
	next = append(next, s.src[e.OldSpan.End:]...)
	s.src = next

	// Shift everything at or after the edit end, then invalidate the
	// edited span. A point edit still dirties its position: widen empty
	// spans to one byte for the overlap test.
	invSpan := e.OldSpan
	if invSpan.Empty() {
		invSpan.End++
	}
	s.cache.Shift(e.OldSpan.End, delta)
	s.cache.Invalidate(invSpan)
	s.shiftTokens(e.OldSpan.End, delta)
	s.shiftBoundaries(e.OldSpan.End, delta, invSpan)

	// Minimal re-lex region, bounded by surviving boundaries.
	lo, hi := s.relexBounds(newSpan)
	fresh, hi, expansions := s.relex(lo, hi)

	// Splice the token stream: replace every old token overlapping
	// [lo, hi) with the fresh ones.
	first := 0
	for first < len(s.tokens) && s.tokens[first].Kind != token.EOF && s.tokens[first].Span.End <= lo {
		first++
	}
	last := first
	for last < len(s.tokens) && s.tokens[last].Kind != token.EOF && s.tokens[last].Span.Start < hi {
		last++
	}
	// Swallow the EOF token when the re-lex ran to the end of the buffer.
	if int(hi) >= len(s.src) {
		last = len(s.tokens)
		eofSpan := source.Span{Start: uint32(len(s.src)), End: uint32(len(s.src))}
		fresh = append(fresh, token.Token{Kind: token.EOF, Span: eofSpan})
	}

	oldCount := last - first
	spliced := make([]token.Token, 0, len(s.tokens)-oldCount+len(fresh))
	spliced = append(spliced, s.tokens[:first]...)
	spliced = append(spliced, fresh...)
	spliced = append(spliced, s.tokens[last:]...)
	s.tokens = spliced

	// Boundaries depend on global balance: rebuild them in one pass and
	// re-prime the cache (hits are cheap, surviving siblings stay put).
	s.bag = diag.NewBag(s.opts.MaxDiagnostics)
	s.boundaries = structure.Detect(s.tokens, s.language.Pairs(), diag.BagReporter{Bag: s.bag})
	s.primeCache()

	confidence := 1.0
	for i := 0; i < expansions; i++ {
		confidence *= 0.5
	}
	if confidence < 0.1 {
		confidence = 0.1
	}
	newCount := len(fresh)
	return TokenDelta{
		Range:      source.Span{Start: lo, End: hi},
		FirstToken: first,
		OldCount:   oldCount,
		NewCount:   newCount,
		Confidence: confidence,
		Expanded:   expansions > 0,
	}, nil
}

// relexBounds picks the minimal region: from the end of the nearest
// surviving boundary left of the edit to the start of the nearest surviving
// boundary right of it, snapped to token starts.
func (s *Session) relexBounds(edited source.Span) (lo, hi uint32) {
	lo = 0
	hi = uint32(len(s.src))
	for _, b := range s.boundaries {
		if !b.Balanced {
			continue
		}
		if b.Span.End <= edited.Start && b.Span.End > lo {
			lo = b.Span.End
		}
		if b.Span.Start >= edited.End && b.Span.Start < hi {
			hi = b.Span.Start
		}
	}
	// Snap to token boundaries of the surviving stream.
	for _, tok := range s.tokens {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.Start <= lo && lo < tok.Span.End {
			lo = tok.Span.Start
		}
		if tok.Span.Start < hi && hi < tok.Span.End {
			hi = tok.Span.End
		}
	}
	if hi < edited.End {
		hi = edited.End
	}
	if hi > uint32(len(s.src)) {
		hi = uint32(len(s.src))
	}
	return lo, hi
}

// relex tokenizes [lo, hi) of the current buffer. If the tail token is
// unterminated or does not land exactly on hi, the region expands to the
// next surviving token end (ultimately EOF) and the lex is retried.
func (s *Session) relex(lo, hi uint32) (fresh []token.Token, end uint32, expansions int) {
	limit := uint32(len(s.src))
	for {
		fresh = fresh[:0]
		lx := lexer.NewScoped(s.src, s.language, lexer.Options{PreserveComments: true}, lo, hi)
		aligned := true
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			fresh = append(fresh, tok)
			if tok.Unterminated() {
				aligned = false
			}
		}
		if n := len(fresh); n > 0 && fresh[n-1].Span.End != hi {
			aligned = false
		}
		if aligned || hi >= limit {
			return fresh, hi, expansions
		}
		// Resynchronization failed: widen to the next token end.
		next := limit
		for _, tok := range s.tokens {
			if tok.Kind != token.EOF && tok.Span.End > hi && tok.Span.End < next {
				next = tok.Span.End
			}
		}
		hi = next
		expansions++
	}
}

func (s *Session) shiftTokens(from uint32, delta int64) {
	for i := range s.tokens {
		if s.tokens[i].Span.Start >= from {
			s.tokens[i].Span = s.tokens[i].Span.Shift(delta)
		}
	}
}

// shiftBoundaries shifts surviving boundaries and drops the ones that
// overlapped the edit; Detect rebuilds them after the token splice.
func (s *Session) shiftBoundaries(from uint32, delta int64, edited source.Span) {
	kept := s.boundaries[:0]
	for _, b := range s.boundaries {
		if b.Span.Overlaps(edited) {
			continue
		}
		if b.Span.Start >= from {
			b.Span = b.Span.Shift(delta)
		}
		kept = append(kept, b)
	}
	s.boundaries = kept
}

// ParseBoundary runs the detailed parser over one boundary of the current
// stream.
func (s *Session) ParseBoundary(b structure.Boundary) parser.Result {
	return parser.ParseBoundary(s.tokens, b, s.language, s.opts.Parser)
}

// Parse runs the detailed parser over the whole stream.
func (s *Session) Parse() parser.Result {
	return parser.Parse(s.tokens, s.language, s.opts.Parser)
}

func (s *Session) tokensIn(span source.Span) []token.Token {
	lo, hi := 0, 0
	for i, tok := range s.tokens {
		if tok.Kind == token.EOF {
			break
		}
		if tok.Span.End <= span.Start {
			lo = i + 1
		}
		if tok.Span.Start < span.End {
			hi = i + 1
		}
	}
	if hi < lo {
		hi = lo
	}
	return s.tokens[lo:hi]
}
