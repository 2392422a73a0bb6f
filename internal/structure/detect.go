package structure

import (
	"sort"

	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/token"
)

type openFrame struct {
	span   source.Span
	closer byte
	tag    lang.PairTag
	depth  uint16
}

// Detect runs one pass over the token stream with an explicit open-delimiter
// stack and returns every nested region it can prove. It needs no grammar:
// the pairing table is the only language input.
//
// Side effect: each token's Depth field is set to its nesting depth
// (delimiters carry the depth of the region they delimit).
//
// Mismatched closers are reported and skipped; unclosed openers produce
// Balanced=false boundaries spanning to EOF with confidence decreasing as
// nesting deepens. Detection never aborts.
func Detect(tokens []token.Token, pairs []lang.Pair, reporter diag.Reporter) []Boundary {
	boundaries := make([]Boundary, 0, 8)
	stack := make([]openFrame, 0, 8)

	eofOff := uint32(0)
	for i := range tokens {
		tok := &tokens[i]
		if tok.Span.End > eofOff {
			eofOff = tok.Span.End
		}

		switch tok.Kind {
		case token.OpenDelim:
			depth := uint16(len(stack))
			tok.Depth = depth
			closer, tag, ok := lang.CloserFor(pairs, tok.Text[0])
			if !ok {
				// Opener outside the pairing table: treat as plain punct.
				continue
			}
			stack = append(stack, openFrame{
				span:   tok.Span,
				closer: closer,
				tag:    tag,
				depth:  depth,
			})

		case token.CloseDelim:
			if len(stack) == 0 {
				tok.Depth = 0
				report(reporter, diag.StructStrayCloser, tok.Span,
					"closing '"+tok.Text+"' has no matching opener")
				continue
			}
			top := stack[len(stack)-1]
			if tok.Text[0] != top.closer {
				// Mismatch is a no-op: keep the stack, keep going.
				tok.Depth = uint16(len(stack))
				report(reporter, diag.StructMismatchedCloser, tok.Span,
					"expected '"+string(top.closer)+"' to close "+top.tag.String()+", found '"+tok.Text+"'")
				continue
			}
			stack = stack[:len(stack)-1]
			tok.Depth = top.depth
			boundaries = append(boundaries, Boundary{
				Span:       source.Span{Start: top.span.Start, End: tok.Span.End},
				Depth:      top.depth,
				Kind:       top.tag,
				Confidence: 1,
				Balanced:   true,
			})

		default:
			tok.Depth = uint16(len(stack))
		}
	}

	// Unclosed openers run to EOF; deeper nesting means less certainty
	// about where the region was meant to end.
	for _, frame := range stack {
		boundaries = append(boundaries, Boundary{
			Span:       source.Span{Start: frame.span.Start, End: eofOff},
			Depth:      frame.depth,
			Kind:       frame.tag,
			Confidence: 1 / float64(1+frame.depth),
			Balanced:   false,
		})
		report(reporter, diag.StructUnclosedOpener, frame.span,
			"unclosed "+frame.tag.String()+" runs to end of input")
	}

	// Source order: by start, outermost first at equal starts.
	sort.SliceStable(boundaries, func(i, j int) bool {
		if boundaries[i].Span.Start != boundaries[j].Span.Start {
			return boundaries[i].Span.Start < boundaries[j].Span.Start
		}
		return boundaries[i].Span.End > boundaries[j].Span.End
	})
	return boundaries
}

func report(r diag.Reporter, code diag.Code, sp source.Span, msg string) {
	if r != nil {
		sev := diag.SevError
		if code == diag.StructUnclosedOpener {
			sev = diag.SevWarning
		}
		r.Report(code, sev, sp, msg, nil, nil)
	}
}
