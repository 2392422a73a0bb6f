package recovery_test

import (
	"testing"

	"strata/internal/recovery"
	"strata/internal/source"
	"strata/internal/token"
)

func tok(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text, Span: source.Span{Start: 0, End: uint32(len(text))}}
}

func TestSyncSet_Contains(t *testing.T) {
	set := recovery.SyncSet{
		Kinds: []token.Kind{token.CloseDelim},
		Texts: []string{",", ";"},
	}

	cases := []struct {
		tok  token.Token
		want bool
	}{
		{tok(token.CloseDelim, "}"), true},
		{tok(token.Punct, ","), true},
		{tok(token.Punct, ";"), true},
		{tok(token.Punct, ":"), false},
		{tok(token.Number, "1"), false},
	}
	for _, c := range cases {
		if got := set.Contains(c.tok); got != c.want {
			t.Errorf("Contains(%s %q) = %v, want %v", c.tok.Kind, c.tok.Text, got, c.want)
		}
	}
}

func TestBest_DeleteStrayPunct(t *testing.T) {
	// Лишняя запятая прямо перед закрывающей скобкой.
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Punct, ","),
			tok(token.CloseDelim, "}"),
			{Kind: token.EOF},
		},
	}
	a := recovery.Best(ctx)
	if a.Strategy != recovery.DeleteToken {
		t.Fatalf("strategy = %s, want delete_token", a.Strategy)
	}
	if n := recovery.Apply(ctx, a); n != 1 || ctx.Cursor != 1 {
		t.Errorf("Apply consumed %d, cursor %d", n, ctx.Cursor)
	}
}

func TestApply_DeleteSkipsLeadingTrivia(t *testing.T) {
	// Best принимает решение по значимому токену после trivia; Apply
	// обязан удалить именно его, а не пробел под курсором.
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Whitespace, " "),
			tok(token.Punct, ","),
			tok(token.Punct, ","),
			{Kind: token.EOF},
		},
	}
	a := recovery.Best(ctx)
	if a.Strategy != recovery.DeleteToken {
		t.Fatalf("strategy = %s, want delete_token", a.Strategy)
	}
	if n := recovery.Apply(ctx, a); n != 2 || ctx.Cursor != 2 {
		t.Errorf("Apply consumed %d, cursor %d; want the stray token gone", n, ctx.Cursor)
	}
}

func TestBest_InsertExpectedCloser(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Number, "1"),
			{Kind: token.EOF},
		},
		Expected:     "}",
		ExpectedKind: token.CloseDelim,
	}
	a := recovery.Best(ctx)
	if a.Strategy != recovery.InsertToken {
		t.Fatalf("strategy = %s, want insert_token", a.Strategy)
	}
	if a.InsertText != "}" || a.InsertKind != token.CloseDelim {
		t.Errorf("action = %+v", a)
	}
	// Вставка ничего не потребляет.
	if n := recovery.Apply(ctx, a); n != 0 || ctx.Cursor != 0 {
		t.Errorf("Apply consumed %d, cursor %d", n, ctx.Cursor)
	}
}

func TestBest_InsertOnlyOmissionProne(t *testing.T) {
	// Идентификатор не стоит синтезировать.
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Number, "1"),
			tok(token.Punct, ","),
			{Kind: token.EOF},
		},
		Expected:     "name",
		ExpectedKind: token.Ident,
	}
	if a := recovery.Best(ctx); a.Strategy == recovery.InsertToken {
		t.Errorf("must not insert an identifier: %+v", a)
	}
}

func TestBest_SkipUntilSync(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Ident, "garbage"),
			tok(token.Ident, "more"),
			tok(token.Punct, ","),
			tok(token.Number, "2"),
			{Kind: token.EOF},
		},
		Sync: recovery.SyncSet{Texts: []string{","}},
	}
	a := recovery.Best(ctx)
	if a.Strategy != recovery.SkipUntilSync {
		t.Fatalf("strategy = %s, want skip_until_sync", a.Strategy)
	}
	recovery.Apply(ctx, a)
	if ctx.Cursor != 2 || ctx.Tokens[ctx.Cursor].Text != "," {
		t.Errorf("cursor = %d, want to land on the separator", ctx.Cursor)
	}
}

func TestBest_SkipRespectsLookaheadBound(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Ident, "a"),
			tok(token.Ident, "b"),
			tok(token.Ident, "c"),
			tok(token.Punct, ","),
			{Kind: token.EOF},
		},
		Sync:      recovery.SyncSet{Texts: []string{","}},
		Lookahead: 2,
	}
	// Разделитель за пределами окна просмотра: остаётся только паника.
	if a := recovery.Best(ctx); a.Strategy != recovery.PanicMode {
		t.Errorf("strategy = %s, want panic_mode", a.Strategy)
	}
}

func TestApply_PanicModeStopsAtDelim(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Ident, "junk"),
			tok(token.Ident, "junk2"),
			tok(token.OpenDelim, "{"),
			{Kind: token.EOF},
		},
	}
	n := recovery.Apply(ctx, recovery.Action{Strategy: recovery.PanicMode})
	if n != 2 || ctx.Tokens[ctx.Cursor].Kind != token.OpenDelim {
		t.Errorf("consumed %d, cursor on %s", n, ctx.Tokens[ctx.Cursor].Kind)
	}
}

func TestApply_PanicModeReachesEOF(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{
			tok(token.Ident, "junk"),
			tok(token.Ident, "junk2"),
			{Kind: token.EOF},
		},
	}
	recovery.Apply(ctx, recovery.Action{Strategy: recovery.PanicMode})
	if ctx.Tokens[ctx.Cursor].Kind != token.EOF {
		t.Errorf("cursor must land on EOF, got %s", ctx.Tokens[ctx.Cursor].Kind)
	}
}

func TestBest_AtEOF(t *testing.T) {
	ctx := &recovery.Context{
		Tokens: []token.Token{{Kind: token.EOF}},
	}
	if a := recovery.Best(ctx); a.Strategy != recovery.None {
		t.Errorf("strategy at EOF = %s, want none", a.Strategy)
	}
}

func TestApply_AlwaysAdvances(t *testing.T) {
	strategies := []recovery.Strategy{
		recovery.DeleteToken,
		recovery.SkipUntilSync,
		recovery.PanicMode,
	}
	for _, s := range strategies {
		ctx := &recovery.Context{
			Tokens: []token.Token{
				tok(token.Ident, "x"),
				tok(token.Ident, "y"),
				{Kind: token.EOF},
			},
		}
		if n := recovery.Apply(ctx, recovery.Action{Strategy: s}); n < 1 {
			t.Errorf("%s consumed %d, must advance", s, n)
		}
	}
}
