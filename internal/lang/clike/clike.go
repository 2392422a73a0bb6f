// Package clike provides token tables and delimiter pairs for C-family
// sources. It exists so the structural layers can run over real code
// without any grammar knowledge; the detailed productions only describe
// generic list/field shapes.
package clike

import (
	"strata/internal/lang"
	"strata/internal/token"
)

type CLike struct{}

func New() *CLike { return &CLike{} }

func init() {
	lang.Register(New())
}

func (*CLike) Name() string { return "clike" }

func (*CLike) Extensions() []string {
	return []string{".c", ".h", ".cc", ".cpp", ".hpp", ".java", ".js", ".ts"}
}

func (*CLike) Pairs() []lang.Pair {
	return []lang.Pair{
		{Open: '(', Close: ')', Tag: lang.TagParen},
		{Open: '[', Close: ']', Tag: lang.TagBracket},
		{Open: '{', Close: '}', Tag: lang.TagBrace},
	}
}

func (*CLike) Productions() lang.Productions {
	return lang.Productions{
		AtomKinds:        []token.Kind{token.Ident, token.Keyword, token.Number, token.String, token.Operator},
		ItemSep:          ",",
		Terminator:       ";",
		AllowTrailingSep: true,
	}
}

// Reserved words shared across the C family; close enough for token
// classification, which is all the engine needs.
var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "goto": true, "struct": true,
	"union": true, "enum": true, "typedef": true, "static": true,
	"const": true, "void": true, "int": true, "char": true, "float": true,
	"double": true, "long": true, "short": true, "unsigned": true,
	"signed": true, "sizeof": true, "bool": true, "true": true, "false": true,
}

const operatorBytes = "+-*/%=<>!&|^~?."

func isOperatorByte(b byte) bool {
	for i := 0; i < len(operatorBytes); i++ {
		if operatorBytes[i] == b {
			return true
		}
	}
	return false
}

func (*CLike) Classify(src []byte, off int) lang.Result {
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

	case b == '/' && off+1 < len(src) && src[off+1] == '/':
		n := off + 2
		for n < len(src) && src[n] != '\n' {
			n++
		}
		return lang.Result{Kind: token.LineComment, Len: n - off}

	case b == '/' && off+1 < len(src) && src[off+1] == '*':
		n := off + 2
		for n+1 < len(src) {
			if src[n] == '*' && src[n+1] == '/' {
				return lang.Result{Kind: token.BlockComment, Len: n + 2 - off}
			}
			n++
		}
		return lang.Result{Kind: token.BlockComment, Len: len(src) - off, Flags: token.FlagUnterminated}

	case b == '"' || b == '\'':
		return scanQuoted(src, off, b)

	case isDigit(b):
		return scanNumber(src, off)

	case isIdentStart(b):
		n := off
		for n < len(src) && isIdentByte(src[n]) {
			n++
		}
		kind := token.Ident
		if keywords[string(src[off:n])] {
			kind = token.Keyword
		}
		return lang.Result{Kind: kind, Len: n - off}

	case b == '(' || b == '[' || b == '{':
		return lang.Result{Kind: token.OpenDelim, Len: 1}

	case b == ')' || b == ']' || b == '}':
		return lang.Result{Kind: token.CloseDelim, Len: 1}

	case b == ',' || b == ';' || b == ':' || b == '#':
		return lang.Result{Kind: token.Punct, Len: 1}

	case isOperatorByte(b):
		n := off
		for n < len(src) && isOperatorByte(src[n]) {
			n++
		}
		return lang.Result{Kind: token.Operator, Len: n - off}
	}
	return lang.Result{}
}

func scanQuoted(src []byte, off int, quote byte) lang.Result {
	n := off + 1
	for n < len(src) {
		switch src[n] {
		case quote:
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
	if src[n] == '0' && n+1 < len(src) && (src[n+1] == 'x' || src[n+1] == 'X') {
		n += 2
		for n < len(src) && isHexDigit(src[n]) {
			n++
		}
		return lang.Result{Kind: token.Number, Len: n - off}
	}
	for n < len(src) && isDigit(src[n]) {
		n++
	}
	if n < len(src) && src[n] == '.' {
		n++
		for n < len(src) && isDigit(src[n]) {
			n++
		}
	}
	// exponent and number suffixes (f, L, u, ...)
	if n < len(src) && (src[n] == 'e' || src[n] == 'E') {
		m := n + 1
		if m < len(src) && (src[m] == '+' || src[m] == '-') {
			m++
		}
		for m < len(src) && isDigit(src[m]) {
			m++
			n = m
		}
	}
	for n < len(src) && isSuffixByte(src[n]) {
		n++
	}
	return lang.Result{Kind: token.Number, Len: n - off}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isSuffixByte(b byte) bool {
	return b == 'f' || b == 'F' || b == 'l' || b == 'L' || b == 'u' || b == 'U'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentByte(b byte) bool { return isIdentStart(b) || isDigit(b) }
