package lexer_test

import (
	"fmt"
	"testing"

	"strata/internal/diag"
	"strata/internal/lang/clike"
	"strata/internal/lang/jsonlang"
	"strata/internal/lexer"
	"strata/internal/source"
	"strata/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) ErrorCount() int {
	count := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			count++
		}
	}
	return count
}

func (r *testReporter) Messages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	opts := lexer.Options{Reporter: reporter, PreserveComments: true}
	return lexer.New([]byte(input), jsonlang.New(), opts), reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectKinds проверяет последовательность видов токенов (EOF включён)
func expectKinds(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("input %q: got %d tokens, want %d\n%v", input, len(tokens), len(expected), tokens)
	}
	for i, want := range expected {
		if tokens[i].Kind != want {
			t.Errorf("input %q: token[%d] = %s, want %s", input, i, tokens[i].Kind, want)
		}
	}
}

func TestLexer_SimpleObject(t *testing.T) {
	expectKinds(t, `{"a": 1}`, []token.Kind{
		token.OpenDelim,
		token.String,
		token.Punct,
		token.Whitespace,
		token.Number,
		token.CloseDelim,
		token.EOF,
	})
}

func TestLexer_Keywords(t *testing.T) {
	expectKinds(t, `[true, false, null]`, []token.Kind{
		token.OpenDelim,
		token.Keyword, token.Punct, token.Whitespace,
		token.Keyword, token.Punct, token.Whitespace,
		token.Keyword,
		token.CloseDelim,
		token.EOF,
	})
}

func TestLexer_Lossless(t *testing.T) {
	inputs := []string{
		`{"key": [1, -2.5, 1e10], "nested": {"x": null}}`,
		"  \t\n{\r\n}\n",
		`"unterminated`,
		"@#$%",
		"",
	}
	for _, input := range inputs {
		lx, _ := makeTestLexer(input)
		var rebuilt string
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			rebuilt += tok.Text
		}
		if rebuilt != input {
			t.Errorf("concat of token texts = %q, want %q", rebuilt, input)
		}
	}
}

func TestLexer_UnknownByte(t *testing.T) {
	lx, reporter := makeTestLexer("@")
	tokens := collectAllTokens(lx)

	if tokens[0].Kind != token.Unknown {
		t.Fatalf("token = %s, want Unknown", tokens[0].Kind)
	}
	if tokens[0].Span.Len() != 1 {
		t.Errorf("unknown token must be one byte, got %s", tokens[0].Span)
	}
	if reporter.ErrorCount() != 1 || reporter.diagnostics[0].Code != diag.LexUnknownByte {
		t.Errorf("diagnostics = %v", reporter.Messages())
	}
}

func TestLexer_UnknownByteDoesNotStall(t *testing.T) {
	lx, reporter := makeTestLexer("@@@1")
	tokens := collectAllTokens(lx)

	// 3 Unknown + Number + EOF
	if len(tokens) != 5 {
		t.Fatalf("got %d tokens: %v", len(tokens), tokens)
	}
	if tokens[3].Kind != token.Number {
		t.Errorf("token after garbage = %s, want Number", tokens[3].Kind)
	}
	if reporter.ErrorCount() != 3 {
		t.Errorf("ErrorCount = %d, want 3", reporter.ErrorCount())
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	lx, reporter := makeTestLexer(`{"a": "oops`)
	tokens := collectAllTokens(lx)

	last := tokens[len(tokens)-2]
	if last.Kind != token.String || !last.Unterminated() {
		t.Fatalf("last token = %s flags=%v, want unterminated String", last.Kind, last.Flags)
	}
	found := false
	for _, d := range reporter.diagnostics {
		if d.Code == diag.LexUnterminatedString {
			found = true
		}
	}
	if !found {
		t.Errorf("missing LexUnterminatedString diagnostic: %v", reporter.Messages())
	}
}

func TestLexer_UnterminatedStringStopsAtNewline(t *testing.T) {
	lx, _ := makeTestLexer("\"broken\n42")
	tokens := collectAllTokens(lx)

	if tokens[0].Kind != token.String || !tokens[0].Unterminated() {
		t.Fatalf("token[0] = %v", tokens[0])
	}
	if tokens[0].Text != `"broken` {
		t.Errorf("string text = %q, want %q", tokens[0].Text, `"broken`)
	}
	// Дальше лексер продолжает с newline.
	if tokens[1].Kind != token.Newline || tokens[2].Kind != token.Number {
		t.Errorf("stream after break: %v %v", tokens[1].Kind, tokens[2].Kind)
	}
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer(`[1]`)

	peeked := lx.Peek()
	next := lx.Next()
	if peeked != next {
		t.Errorf("Peek = %v, Next = %v", peeked, next)
	}
	if lx.Next().Kind != token.Number {
		t.Error("stream position broken after Peek")
	}
}

func TestLexer_EOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("")
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("Next #%d = %s, want EOF", i, tok.Kind)
		}
	}
	if !lx.Done() {
		t.Error("Done must be true after EOF")
	}
}

func TestLexer_ScopedWindow(t *testing.T) {
	src := []byte(`{"a": 1, "b": 2}`)
	// Окно покрывает только `"b": 2`.
	lx := lexer.NewScoped(src, jsonlang.New(), lexer.Options{PreserveComments: true}, 9, 15)

	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}

	if tokens[0].Text != `"b"` || tokens[0].Span.Start != 9 {
		t.Fatalf("first scoped token = %q at %s", tokens[0].Text, tokens[0].Span)
	}
	last := tokens[len(tokens)-1]
	if last.Span.End != 15 {
		t.Errorf("scoped stream must stop at limit, ended at %d", last.Span.End)
	}
}

func TestLexer_ScanFiltersComments(t *testing.T) {
	// JSON комментариев не знает, поэтому берём clike.
	input := "x = 1; // trailing\n/* block */ y"

	lx := lexer.New([]byte(input), clike.New(), lexer.Options{PreserveComments: false})
	for _, tok := range lx.Scan() {
		if tok.Kind.IsComment() {
			t.Errorf("comment token leaked through Scan: %v", tok)
		}
	}

	lx = lexer.New([]byte(input), clike.New(), lexer.Options{PreserveComments: true})
	comments := 0
	for _, tok := range lx.Scan() {
		if tok.Kind.IsComment() {
			comments++
		}
	}
	if comments != 2 {
		t.Errorf("PreserveComments kept %d comments, want 2", comments)
	}
}

func TestLexer_ScanEndsWithEOF(t *testing.T) {
	lx, _ := makeTestLexer(`{"a": 1}`)
	tokens := lx.Scan()
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatalf("Scan must end with EOF: %v", tokens)
	}
}
