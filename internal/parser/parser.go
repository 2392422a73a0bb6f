// Package parser is the detailed layer: recursive descent over the
// language-supplied productions, producing an arena-backed tree plus
// diagnostics. A production mismatch escalates to the recovery package and
// parsing continues; failure is represented as error nodes in the tree, not
// as an aborted call.
package parser

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/recovery"
	"strata/internal/source"
	"strata/internal/structure"
	"strata/internal/token"
)

// Result is the outcome of one parse call.
type Result struct {
	Tree *ast.Tree
	Root ast.NodeID
	// Errors counts error-severity diagnostics emitted.
	Errors uint
	// Failed is true when FailFast stopped the parse early.
	Failed bool
}

// Parser — состояние парсера на один вызов.
type Parser struct {
	tokens   []token.Token
	cur      int
	end      int // exclusive token bound for boundary-scoped parses
	tree     *ast.Tree
	prods    lang.Productions
	pairs    []lang.Pair
	sync     recovery.SyncSet
	opts     Options
	errors   uint
	stopped  bool
	clamp    source.Span // spans never exceed this when bounded
	bounded  bool
	lastSpan source.Span
}

// Parse runs the detailed layer over the whole token stream.
func Parse(tokens []token.Token, language lang.Language, opts Options) Result {
	p := newParser(tokens, language, opts)
	p.end = len(tokens)
	root := p.parseDocument()
	p.tree.SetRoot(root)
	return Result{Tree: p.tree, Root: root, Errors: p.errors, Failed: p.stopped}
}

// ParseBoundary scopes the parse to one detected boundary. The produced
// subtree's span is guaranteed not to exceed the boundary span — this is
// what makes re-parsing a single invalidated region sound.
func ParseBoundary(tokens []token.Token, b structure.Boundary, language lang.Language, opts Options) Result {
	p := newParser(tokens, language, opts)
	p.clamp = b.Span
	p.bounded = true

	// Narrow the cursor window to tokens inside the boundary.
	p.cur = len(tokens)
	for i, tok := range tokens {
		if tok.Span.Start >= b.Span.Start {
			p.cur = i
			break
		}
	}
	p.end = p.cur
	for p.end < len(tokens) && tokens[p.end].Span.End <= b.Span.End {
		p.end++
	}

	root, _ := p.parseValue()
	p.clampSpans(root)
	p.tree.SetRoot(root)
	return Result{Tree: p.tree, Root: root, Errors: p.errors, Failed: p.stopped}
}

func newParser(tokens []token.Token, language lang.Language, opts Options) *Parser {
	prods := language.Productions()
	syncSet := defaultSync(prods)
	syncSet.Kinds = append(syncSet.Kinds, opts.Sync.Kinds...)
	for _, t := range opts.Sync.Texts {
		if !containsText(syncSet.Texts, t) {
			syncSet.Texts = append(syncSet.Texts, t)
		}
	}
	return &Parser{
		tokens: tokens,
		tree:   ast.NewTree(),
		prods:  prods,
		pairs:  language.Pairs(),
		sync:   syncSet,
		opts:   opts,
	}
}

// defaultSync derives the sync set from the productions: separators,
// terminator, and closing delimiters.
func defaultSync(prods lang.Productions) recovery.SyncSet {
	s := recovery.SyncSet{Kinds: []token.Kind{token.CloseDelim}}
	for _, t := range []string{prods.ItemSep, prods.FieldSep, prods.Terminator} {
		if t != "" {
			s.Texts = append(s.Texts, t)
		}
	}
	return s
}

// parseDocument parses top-level items until EOF. A single item becomes the
// root directly; several are wrapped in an untagged container.
func (p *Parser) parseDocument() ast.NodeID {
	first := p.peek()
	startSpan := first.Span
	items := make([]ast.NodeID, 0, 4)

	for !p.atEOF() && !p.stopped {
		before := p.cur
		id, ok := p.parseValue()
		if id != ast.NoNodeID {
			items = append(items, id)
		}
		p.eatTerminator()
		if !ok && p.cur == before {
			// Recovery refused to move (EOF); bail rather than spin.
			break
		}
	}

	switch len(items) {
	case 0:
		return ast.NoNodeID
	case 1:
		return items[0]
	default:
		span := startSpan.Cover(p.lastSpan)
		return p.tree.NewContainer(span, lang.TagOther, items)
	}
}

// parseValue распознаёт один атом или контейнер. Возвращает узел и флаг
// успеха; при неудаче узел может быть error-вариантом.
func (p *Parser) parseValue() (ast.NodeID, bool) {
	for {
		tok := p.peek()

		switch {
		case tok.Kind == token.EOF:
			sp := p.diagSpan()
			p.report(diag.SynExpectValue, diag.SevError, sp, "expected value, found end of input", nil)
			return p.tree.NewError(sp, "expected value", nil), false

		case p.prods.IsAtom(tok.Kind):
			p.advance()
			return p.tree.NewValue(tok.Span, tok.Kind, tok.Text), true

		case tok.Kind == token.OpenDelim:
			return p.parseContainer()
		}

		// Unexpected token: escalate to recovery and keep going.
		id, retry := p.recover(tok)
		if !retry {
			return id, false
		}
		if p.stopped {
			return id, false
		}
	}
}

// recover handles one unexpected token. The bool result is true when the
// caller should retry the production after the cursor moved.
func (p *Parser) recover(tok token.Token) (ast.NodeID, bool) {
	ctx := &recovery.Context{
		Tokens:    p.tokens[:p.end],
		Cursor:    p.cur,
		Sync:      p.sync,
		Lookahead: p.opts.Lookahead,
	}
	act := recovery.Best(ctx)

	switch act.Strategy {
	case recovery.DeleteToken:
		p.report(diag.SynDeletedToken, diag.SevError, tok.Span,
			"unexpected "+tok.Kind.String()+" "+quoted(tok.Text)+" deleted",
			[]diag.Fix{{Title: "delete " + quoted(tok.Text), Edits: []diag.FixEdit{{Span: tok.Span}}}})
		recovery.Apply(ctx, act)
		p.cur = ctx.Cursor
		return ast.NoNodeID, true

	case recovery.SkipUntilSync:
		start := tok.Span
		p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span,
			"unexpected "+tok.Kind.String()+" "+quoted(tok.Text), nil)
		recovery.Apply(ctx, act)
		p.cur = ctx.Cursor
		sp := start.Cover(p.lastConsumedSpan())
		return p.tree.NewError(sp, "skipped to synchronization point", nil), false

	case recovery.PanicMode:
		start := tok.Span
		p.report(diag.SynPanicSkip, diag.SevError, tok.Span,
			"no synchronization point before end of input", nil)
		recovery.Apply(ctx, act)
		p.cur = ctx.Cursor
		sp := start.Cover(p.lastConsumedSpan())
		return p.tree.NewError(sp, "panic mode skip", nil), false
	}

	// EOF under recovery: nothing to do.
	sp := p.diagSpan()
	return p.tree.NewError(sp, "expected value", nil), false
}

// parseContainer распознаёт open ... close со списком значений/полей.
func (p *Parser) parseContainer() (ast.NodeID, bool) {
	open := p.advance()
	closer, tag, known := lang.CloserFor(p.pairs, open.Text[0])
	if !known {
		p.report(diag.SynUnexpectedToken, diag.SevError, open.Span,
			"unknown delimiter "+quoted(open.Text), nil)
		return p.tree.NewError(open.Span, "unknown delimiter", nil), false
	}
	closerText := string(closer)

	children := make([]ast.NodeID, 0, 4)
	sawSep := false

	for {
		tok := p.peek()

		switch {
		case tok.Kind == token.CloseDelim && tok.Text == closerText:
			closeTok := p.advance()
			if sawSep {
				p.checkTrailingSep(closeTok)
			}
			span := source.Span{Start: open.Span.Start, End: closeTok.Span.End}
			return p.tree.NewContainer(span, tag, children), true

		case tok.Kind == token.EOF, p.stopped:
			// Closer never arrived: close the open node via an error
			// variant so nothing dangles, and suggest the insertion.
			sp := source.Span{Start: open.Span.Start, End: p.diagSpan().End}
			insertAt := source.Span{Start: sp.End, End: sp.End}
			if !p.stopped {
				p.report(diag.SynMissingCloser, diag.SevError, insertAt,
					"missing "+quoted(closerText)+" to close "+tag.String(),
					[]diag.Fix{{Title: "insert " + quoted(closerText), Edits: []diag.FixEdit{{Span: insertAt, NewText: closerText}}}})
			}
			node := p.tree.NewError(sp, "unclosed "+tag.String(), children)
			return node, false
		}

		item, ok := p.parseItem()
		if item != ast.NoNodeID {
			children = append(children, item)
		}
		if !ok && p.stopped {
			sp := source.Span{Start: open.Span.Start, End: p.diagSpan().End}
			return p.tree.NewError(sp, "unclosed "+tag.String(), children), false
		}

		sawSep = p.eatItemSep(closerText)
	}
}

// parseItem распознаёт value или key:value внутри контейнера.
func (p *Parser) parseItem() (ast.NodeID, bool) {
	key, ok := p.parseValue()
	if !ok || p.prods.FieldSep == "" {
		return key, ok
	}

	tok := p.peek()
	if !isText(tok, p.prods.FieldSep) {
		return key, true
	}
	p.advance()

	value, vok := p.parseValue()
	keySpan := p.nodeSpan(key)
	valSpan := p.nodeSpan(value)
	return p.tree.NewField(keySpan.Cover(valSpan), key, value), vok
}

// eatItemSep consumes an item separator if present; a missing separator
// between items is reported with an insertion fix and parsing continues as
// though it were there (the parser performs the synthetic insertion).
func (p *Parser) eatItemSep(closerText string) bool {
	if p.prods.ItemSep == "" {
		p.eatTerminator()
		return false
	}
	tok := p.peek()
	if isText(tok, p.prods.ItemSep) {
		p.advance()
		return true
	}
	if tok.Kind == token.EOF || (tok.Kind == token.CloseDelim && tok.Text == closerText) {
		return false
	}

	ctx := &recovery.Context{
		Tokens:       p.tokens[:p.end],
		Cursor:       p.cur,
		Sync:         p.sync,
		Lookahead:    p.opts.Lookahead,
		Expected:     p.prods.ItemSep,
		ExpectedKind: token.Punct,
	}
	if act := recovery.Best(ctx); act.Strategy == recovery.InsertToken {
		insertAt := source.Span{Start: tok.Span.Start, End: tok.Span.Start}
		p.report(diag.SynInsertedToken, diag.SevError, insertAt,
			"missing "+quoted(p.prods.ItemSep)+" between items",
			[]diag.Fix{{Title: "insert " + quoted(p.prods.ItemSep), Edits: []diag.FixEdit{{Span: insertAt, NewText: p.prods.ItemSep}}}})
		// Synthetic separator: continue as if it were present.
		return true
	}

	p.report(diag.SynExpectItemSep, diag.SevError, tok.Span,
		"expected "+quoted(p.prods.ItemSep)+" between items", nil)
	return false
}

// checkTrailingSep reports a separator directly before the closer when the
// language disallows it or strict mode asks for it.
func (p *Parser) checkTrailingSep(closeTok token.Token) {
	switch {
	case !p.prods.AllowTrailingSep:
		p.report(diag.SynTrailingSep, diag.SevError, closeTok.Span,
			"trailing "+quoted(p.prods.ItemSep)+" before "+quoted(closeTok.Text), nil)
	case p.opts.Strict&StrictSeparators != 0:
		p.report(diag.SynTrailingSep, diag.SevWarning, closeTok.Span,
			"trailing separator", nil)
	}
}

func (p *Parser) eatTerminator() {
	if p.prods.Terminator == "" {
		return
	}
	for isText(p.peek(), p.prods.Terminator) {
		p.advance()
	}
}

func isText(tok token.Token, text string) bool {
	return (tok.Kind == token.Punct || tok.Kind == token.Operator) && tok.Text == text
}

func containsText(texts []string, t string) bool {
	for _, have := range texts {
		if have == t {
			return true
		}
	}
	return false
}
