package parser

import (
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/source"
	"strata/internal/token"
)

// peek возвращает следующий значимый токен, не потребляя его.
func (p *Parser) peek() token.Token {
	for i := p.cur; i < p.end; i++ {
		if p.tokens[i].IsTrivia() {
			continue
		}
		return p.tokens[i]
	}
	return token.Token{Kind: token.EOF, Span: p.eofSpan()}
}

// advance — съедает следующий значимый токен и обновляет lastSpan.
func (p *Parser) advance() token.Token {
	for p.cur < p.end {
		tok := p.tokens[p.cur]
		p.cur++
		if tok.IsTrivia() {
			continue
		}
		if tok.Kind != token.EOF && tok.Kind != token.Invalid {
			p.lastSpan = tok.Span
		}
		return tok
	}
	return token.Token{Kind: token.EOF, Span: p.eofSpan()}
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) eofSpan() source.Span {
	if p.bounded {
		return source.Span{Start: p.clamp.End, End: p.clamp.End}
	}
	if n := len(p.tokens); n > 0 {
		end := p.tokens[n-1].Span.End
		return source.Span{Start: end, End: end}
	}
	return source.Span{}
}

// diagSpan — лучший span для диагностики: позиция после последнего
// съеденного токена, когда peek даёт пустой EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) lastConsumedSpan() source.Span {
	if p.lastSpan.End > 0 {
		return p.lastSpan
	}
	return p.diagSpan()
}

func (p *Parser) nodeSpan(id ast.NodeID) source.Span {
	if n := p.tree.Get(id); n != nil {
		return n.Span
	}
	return p.diagSpan()
}

// report emits one diagnostic, honoring MaxErrors and FailFast.
func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, fixes []diag.Fix) {
	// MaxErrors ограничивает только ошибки; предупреждения не считаются.
	capped := false
	if sev >= diag.SevError {
		p.errors++
		capped = p.opts.enough(p.errors - 1)
		if p.opts.Mode == FailFast {
			p.stopped = true
		}
	}
	if p.opts.Reporter == nil || capped {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, fixes)
}

// clampSpans clips every span in the subtree to the boundary the parse was
// scoped to.
func (p *Parser) clampSpans(root ast.NodeID) {
	if !p.bounded {
		return
	}
	p.tree.Walk(root, func(_ ast.NodeID, n *ast.Node) bool {
		if n.Span.Start < p.clamp.Start {
			n.Span.Start = p.clamp.Start
		}
		if n.Span.End > p.clamp.End {
			n.Span.End = p.clamp.End
		}
		return true
	})
}

func quoted(s string) string {
	if s == "" {
		return "token"
	}
	return "'" + s + "'"
}
