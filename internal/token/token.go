package token

import (
	"strata/internal/source"
)

// Flags carries per-token markers set by the lexer or by recovery.
type Flags uint8

const (
	// FlagSynthetic marks a token inserted by error recovery; it occupies
	// an empty span and owns no source text.
	FlagSynthetic Flags = 1 << iota
	// FlagUnterminated marks a token whose closing sequence was missing at
	// EOF (open string, open block comment).
	FlagUnterminated
)

// Token is a single lexed unit. Text is a view into the source buffer, so a
// Token must not outlive the buffer it was lexed from. Depth is the
// delimiter nesting depth, filled in by the boundary detector; the lexer
// emits every token at depth 0.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Depth uint16
	Flags Flags
}

// IsTrivia reports whether the token is whitespace, newline, or comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsPunctOrDelim reports whether the token is punctuation or a delimiter.
func (t Token) IsPunctOrDelim() bool {
	switch t.Kind {
	case Punct, Operator, OpenDelim, CloseDelim:
		return true
	default:
		return false
	}
}

// Synthetic reports whether the token was inserted by recovery.
func (t Token) Synthetic() bool { return t.Flags&FlagSynthetic != 0 }

// Unterminated reports whether the token ran into EOF unterminated.
func (t Token) Unterminated() bool { return t.Flags&FlagUnterminated != 0 }
