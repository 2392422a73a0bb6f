package parser

import (
	"strata/internal/diag"
	"strata/internal/recovery"
)

// Mode selects how the parser reacts to its first error.
type Mode uint8

const (
	// CollectAll runs to EOF using recovery and accumulates every
	// diagnostic — maximal single-pass feedback. The default.
	CollectAll Mode = iota
	// FailFast stops at the first error diagnostic. The partial tree built
	// so far is still returned; Result.Failed reports the early stop.
	FailFast
)

// StrictFlags enable diagnostics for permissive constructs. Violations are
// reported, never silently rejected: the tree is built either way.
type StrictFlags uint8

const (
	// StrictSeparators reports trailing separators before a closer even
	// when the language would allow them.
	StrictSeparators StrictFlags = 1 << iota
)

type Options struct {
	Mode      Mode
	Strict    StrictFlags
	MaxErrors uint
	Reporter  diag.Reporter
	// Sync extends the synchronization set derived from the language's
	// productions (separators, terminator, closing delimiters).
	Sync recovery.SyncSet
	// Lookahead bounds recovery's search for a sync token; 0 = unbounded.
	Lookahead int
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) enough(errors uint) bool {
	if o.MaxErrors == 0 {
		return false
	}
	return errors >= o.MaxErrors
}
