// Package recovery picks resynchronization actions for the detailed parser
// when it meets an unexpected token. Strategies are plain data: the parser
// asks for the best one, applies it, and records a diagnostic — nothing
// here throws or aborts, and every applied step moves the cursor forward
// (or lands on EOF), so the parse loop cannot livelock.
package recovery

import (
	"strata/internal/token"
)

// Strategy is one of the fixed resynchronization actions.
type Strategy uint8

const (
	// None means no recovery is possible or needed.
	None Strategy = iota
	// DeleteToken skips one stray token.
	DeleteToken
	// InsertToken tells the parser to synthesize the expected token; the
	// parser performs the insertion, this layer only suggests it.
	InsertToken
	// SkipUntilSync advances to the next synchronization token.
	SkipUntilSync
	// PanicMode advances to the next hard delimiter or EOF.
	PanicMode
)

func (s Strategy) String() string {
	switch s {
	case DeleteToken:
		return "delete_token"
	case InsertToken:
		return "insert_token"
	case SkipUntilSync:
		return "skip_until_sync"
	case PanicMode:
		return "panic_mode"
	}
	return "none"
}

// SyncSet describes which tokens count as synchronization points. Kinds are
// matched on token class, Texts on exact token text (for separators the
// generic classes cannot distinguish).
type SyncSet struct {
	Kinds []token.Kind
	Texts []string
}

// Contains reports whether tok is a synchronization point.
func (s SyncSet) Contains(tok token.Token) bool {
	for _, k := range s.Kinds {
		if tok.Kind == k {
			return true
		}
	}
	for _, t := range s.Texts {
		if tok.Text == t {
			return true
		}
	}
	return false
}

// Context is the transient state for one recovery decision. It is scoped to
// a single parse attempt and never persisted.
type Context struct {
	Tokens []token.Token
	Cursor int
	Sync   SyncSet
	// Lookahead bounds how many tokens Best may examine past the cursor.
	Lookahead int
	// Expected describes the token the parser wanted, "" if it had no
	// single expectation. Drives the insert strategy.
	Expected string
	// ExpectedKind is the class of the expected token.
	ExpectedKind token.Kind
}

// Action is the outcome of a recovery decision.
type Action struct {
	Strategy   Strategy
	InsertKind token.Kind
	InsertText string
}

// Omission-prone tokens worth synthesizing: closers, terminators,
// separators. Anything else is not worth guessing.
func insertable(text string, kind token.Kind) bool {
	if kind == token.CloseDelim {
		return true
	}
	switch text {
	case ",", ";", ":":
		return true
	}
	return false
}

// Best returns the highest-priority applicable strategy:
//  1. delete a stray punct/operator immediately followed by more
//     punctuation or delimiters;
//  2. insert the expected token when it is omission-prone;
//  3. skip to the next sync token within the lookahead bound;
//  4. panic mode.
func Best(ctx *Context) Action {
	cur, ok := ctx.current()
	if !ok {
		return Action{Strategy: None}
	}

	if (cur.Kind == token.Punct || cur.Kind == token.Operator || cur.Kind == token.Unknown) && ctx.nextIsPunctOrDelim() {
		return Action{Strategy: DeleteToken}
	}

	if ctx.Expected != "" && insertable(ctx.Expected, ctx.ExpectedKind) {
		return Action{
			Strategy:   InsertToken,
			InsertKind: ctx.ExpectedKind,
			InsertText: ctx.Expected,
		}
	}

	if ctx.syncWithinBound() {
		return Action{Strategy: SkipUntilSync}
	}

	return Action{Strategy: PanicMode}
}

// Apply mutates the cursor according to the chosen action and returns the
// number of tokens consumed. InsertToken consumes nothing: the parser
// synthesizes the token and is responsible for progress after it. For every
// other strategy the cursor strictly advances or reaches EOF.
func Apply(ctx *Context, a Action) int {
	start := ctx.Cursor
	switch a.Strategy {
	case DeleteToken:
		// Best решает по значимому токену; trivia перед ним проходится,
		// удаляется именно он.
		for ctx.Cursor < len(ctx.Tokens) && ctx.Tokens[ctx.Cursor].IsTrivia() {
			ctx.Cursor++
		}
		ctx.Cursor++

	case SkipUntilSync:
		ctx.Cursor++
		for ctx.Cursor < len(ctx.Tokens) {
			tok := ctx.Tokens[ctx.Cursor]
			if tok.Kind == token.EOF || (!tok.IsTrivia() && ctx.Sync.Contains(tok)) {
				break
			}
			ctx.Cursor++
		}

	case PanicMode:
		ctx.Cursor++
		for ctx.Cursor < len(ctx.Tokens) {
			tok := ctx.Tokens[ctx.Cursor]
			if tok.Kind == token.EOF || tok.Kind.IsDelim() {
				break
			}
			ctx.Cursor++
		}
	}
	if ctx.Cursor > len(ctx.Tokens) {
		ctx.Cursor = len(ctx.Tokens)
	}
	return ctx.Cursor - start
}

// current returns the significant token at the cursor.
func (ctx *Context) current() (token.Token, bool) {
	for i := ctx.Cursor; i < len(ctx.Tokens); i++ {
		tok := ctx.Tokens[i]
		if tok.IsTrivia() {
			continue
		}
		return tok, tok.Kind != token.EOF
	}
	return token.Token{Kind: token.EOF}, false
}

// nextIsPunctOrDelim reports whether the next significant token after the
// cursor is punctuation or a delimiter.
func (ctx *Context) nextIsPunctOrDelim() bool {
	seen := false
	for i := ctx.Cursor; i < len(ctx.Tokens); i++ {
		tok := ctx.Tokens[i]
		if tok.IsTrivia() {
			continue
		}
		if !seen {
			seen = true // the offending token itself
			continue
		}
		return tok.IsPunctOrDelim()
	}
	return false
}

// syncWithinBound reports whether a sync token exists before EOF, within
// the lookahead bound when one is set.
func (ctx *Context) syncWithinBound() bool {
	examined := 0
	for i := ctx.Cursor + 1; i < len(ctx.Tokens); i++ {
		tok := ctx.Tokens[i]
		if tok.Kind == token.EOF {
			return false
		}
		if tok.IsTrivia() {
			continue
		}
		if ctx.Sync.Contains(tok) {
			return true
		}
		examined++
		if ctx.Lookahead > 0 && examined >= ctx.Lookahead {
			return false
		}
	}
	return false
}
