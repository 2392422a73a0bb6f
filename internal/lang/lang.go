// Package lang defines the capability set a language module injects into
// the engine: a byte classifier for the lexer, a delimiter pairing table
// for the boundary detector, and production parameters for the detailed
// parser. The engine packages depend only on these interfaces; concrete
// languages live in subpackages and register themselves.
package lang

import (
	"strata/internal/token"
)

// Result is one classification step: the token class and how many bytes it
// covers starting at the probed offset. Len <= 0 means the classifier could
// not recognize the byte; the lexer then emits a 1-byte Unknown token.
type Result struct {
	Kind  token.Kind
	Len   int
	Flags token.Flags
}

// Classifier turns a cursor position into a token class and length. It must
// be pure: no state between calls, no mutation of src.
type Classifier interface {
	Classify(src []byte, off int) Result
}

// PairTag labels a delimiter pair; it doubles as the boundary kind tag.
type PairTag uint8

const (
	TagOther PairTag = iota
	TagParen
	TagBracket
	TagBrace
	TagAngle
)

func (t PairTag) String() string {
	switch t {
	case TagParen:
		return "paren"
	case TagBracket:
		return "bracket"
	case TagBrace:
		return "brace"
	case TagAngle:
		return "angle"
	}
	return "other"
}

// Pair declares one opener/closer byte pair.
type Pair struct {
	Open  byte
	Close byte
	Tag   PairTag
}

// Productions parameterizes the detailed parser for one language. The
// separators are matched against token text because the generic token
// classes do not distinguish ':' from ','.
type Productions struct {
	// AtomKinds lists the token classes that form a leaf value.
	AtomKinds []token.Kind
	// FieldSep separates a key from a value inside a container ("" = the
	// language has no field syntax).
	FieldSep string
	// ItemSep separates consecutive items inside a container.
	ItemSep string
	// Terminator ends an item outside any container ("" = none).
	Terminator string
	// AllowTrailingSep permits a separator before the closer; under strict
	// mode a violation is a diagnostic, not a rejection.
	AllowTrailingSep bool
}

// IsAtom reports whether k can start a leaf value in this language.
func (p Productions) IsAtom(k token.Kind) bool {
	for _, a := range p.AtomKinds {
		if a == k {
			return true
		}
	}
	return false
}

// Language bundles everything the engine needs to process one language.
// One implementation per language, injected at construction.
type Language interface {
	Classifier

	// Name is the stable lowercase language name.
	Name() string
	// Extensions lists file extensions including the dot, e.g. ".json".
	Extensions() []string
	// Pairs returns the delimiter pairing table.
	Pairs() []Pair
	// Productions returns the parser production parameters.
	Productions() Productions
}

// CloserFor finds the closing byte for an opener in the table.
func CloserFor(pairs []Pair, open byte) (byte, PairTag, bool) {
	for _, p := range pairs {
		if p.Open == open {
			return p.Close, p.Tag, true
		}
	}
	return 0, TagOther, false
}

// IsCloser reports whether b closes any pair in the table.
func IsCloser(pairs []Pair, b byte) (PairTag, bool) {
	for _, p := range pairs {
		if p.Close == b {
			return p.Tag, true
		}
	}
	return TagOther, false
}
