package lexer

import (
	"fmt"
	"unsafe"

	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/token"
)

// Lexer turns a source buffer into a lazy token stream, driven by a
// language-supplied classifier. It owns only cursor advancement and the
// trivia policy; everything language-specific lives behind lang.Classifier.
type Lexer struct {
	src    []byte
	cursor Cursor
	cls    lang.Classifier
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	done   bool
}

func New(src []byte, cls lang.Classifier, opts Options) *Lexer {
	return &Lexer{
		src:    src,
		cursor: NewCursor(src),
		cls:    cls,
		opts:   opts,
	}
}

// NewScoped lexes only the [start, limit) region of src. Spans remain
// absolute buffer offsets, which is what the incremental manager relies on.
func NewScoped(src []byte, cls lang.Classifier, opts Options, start, limit uint32) *Lexer {
	return &Lexer{
		src:    src,
		cursor: NewCursorAt(src, start, limit),
		cls:    cls,
		opts:   opts,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
// Инвариант: конкатенация Text всех токенов до EOF в точности равна входу.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		lx.done = true
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	start := lx.cursor.Mark()
	res := lx.cls.Classify(lx.src, int(lx.cursor.Off))

	kind := res.Kind
	n := res.Len
	remaining := int(lx.cursor.Limit - lx.cursor.Off)
	if n > remaining {
		n = remaining
	}
	if n <= 0 || kind == token.Invalid {
		// Неопознанный байт: 1-байтовый Unknown, лексер не останавливается.
		kind = token.Unknown
		n = 1
	}

	lx.cursor.Advance(uint32(n))
	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{
		Kind:  kind,
		Span:  sp,
		Text:  viewString(lx.src[sp.Start:sp.End]),
		Flags: res.Flags,
	}

	switch {
	case kind == token.Unknown:
		lx.report(diag.LexUnknownByte, sp, fmt.Sprintf("unrecognized byte 0x%02x", lx.src[sp.Start]))
	case tok.Unterminated() && kind == token.String:
		lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	case tok.Unterminated() && kind == token.BlockComment:
		lx.report(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}

	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Done reports whether EOF has been produced.
func (lx *Lexer) Done() bool { return lx.done }

// Scan collects the whole stream into an owned slice, EOF token included.
// With PreserveComments disabled, comment tokens are filtered out of the
// result; the lossless concatenation property holds only for Next.
func (lx *Lexer) Scan() []token.Token {
	tokens := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		if !lx.opts.PreserveComments && tok.Kind.IsComment() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

// viewString reinterprets a sub-slice of the source buffer as a string
// without copying, so Token.Text stays a borrowed view. Safe because the
// buffer is immutable for the lifetime of the tokens.
func viewString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
