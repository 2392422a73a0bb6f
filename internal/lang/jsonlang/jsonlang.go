// Package jsonlang provides the JSON-family language module: token table,
// delimiter pairs, and data productions for the detailed parser.
package jsonlang

import (
	"strata/internal/lang"
	"strata/internal/token"
)

type JSON struct{}

func New() *JSON { return &JSON{} }

func init() {
	lang.Register(New())
}

func (*JSON) Name() string { return "json" }

func (*JSON) Extensions() []string { return []string{".json"} }

func (*JSON) Pairs() []lang.Pair {
	return []lang.Pair{
		{Open: '{', Close: '}', Tag: lang.TagBrace},
		{Open: '[', Close: ']', Tag: lang.TagBracket},
	}
}

func (*JSON) Productions() lang.Productions {
	return lang.Productions{
		AtomKinds:        []token.Kind{token.String, token.Number, token.Keyword},
		FieldSep:         ":",
		ItemSep:          ",",
		AllowTrailingSep: false,
	}
}

func (*JSON) Classify(src []byte, off int) lang.Result {
	b := src[off]
	switch {
	case b == ' ' || b == '\t':
		n := off
		for n < len(src) && (src[n] == ' ' || src[n] == '\t') {
			n++
		}
		return lang.Result{Kind: token.Whitespace, Len: n - off}

	case b == '\n' || b == '\r':
		n := off
		for n < len(src) && (src[n] == '\n' || src[n] == '\r') {
			n++
		}
		return lang.Result{Kind: token.Newline, Len: n - off}

	case b == '"':
		return scanString(src, off)

	case b == '-' || isDigit(b):
		return scanNumber(src, off)

	case isAlpha(b):
		n := off
		for n < len(src) && (isAlpha(src[n]) || isDigit(src[n])) {
			n++
		}
		word := string(src[off:n])
		kind := token.Ident
		if word == "true" || word == "false" || word == "null" {
			kind = token.Keyword
		}
		return lang.Result{Kind: kind, Len: n - off}

	case b == '{' || b == '[':
		return lang.Result{Kind: token.OpenDelim, Len: 1}

	case b == '}' || b == ']':
		return lang.Result{Kind: token.CloseDelim, Len: 1}

	case b == ',' || b == ':':
		return lang.Result{Kind: token.Punct, Len: 1}
	}
	return lang.Result{}
}

// scanString covers "..." with \-escapes. A newline or EOF before the
// closing quote yields an unterminated token ending at that point.
func scanString(src []byte, off int) lang.Result {
	n := off + 1
	for n < len(src) {
		switch src[n] {
		case '"':
			return lang.Result{Kind: token.String, Len: n - off + 1}
		case '\\':
			n++
			if n >= len(src) {
				return lang.Result{Kind: token.String, Len: len(src) - off, Flags: token.FlagUnterminated}
			}
		case '\n':
			return lang.Result{Kind: token.String, Len: n - off, Flags: token.FlagUnterminated}
		}
		n++
	}
	return lang.Result{Kind: token.String, Len: len(src) - off, Flags: token.FlagUnterminated}
}

func scanNumber(src []byte, off int) lang.Result {
	n := off
	if src[n] == '-' {
		n++
		if n >= len(src) || !isDigit(src[n]) {
			// lone '-' is not a number in JSON
			return lang.Result{}
		}
	}
	for n < len(src) && isDigit(src[n]) {
		n++
	}
	if n < len(src) && src[n] == '.' && n+1 < len(src) && isDigit(src[n+1]) {
		n++
		for n < len(src) && isDigit(src[n]) {
			n++
		}
	}
	if n < len(src) && (src[n] == 'e' || src[n] == 'E') {
		m := n + 1
		if m < len(src) && (src[m] == '+' || src[m] == '-') {
			m++
		}
		if m < len(src) && isDigit(src[m]) {
			n = m
			for n < len(src) && isDigit(src[n]) {
				n++
			}
		}
	}
	return lang.Result{Kind: token.Number, Len: n - off}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
