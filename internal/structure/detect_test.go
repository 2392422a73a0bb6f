package structure_test

import (
	"testing"

	"strata/internal/diag"
	"strata/internal/lang/jsonlang"
	"strata/internal/lexer"
	"strata/internal/source"
	"strata/internal/structure"
	"strata/internal/token"
)

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	lx := lexer.New([]byte(input), jsonlang.New(), lexer.Options{PreserveComments: true})
	return lx.Scan()
}

func detect(t *testing.T, input string) ([]token.Token, []structure.Boundary, *diag.Bag) {
	t.Helper()
	tokens := lexAll(t, input)
	bag := diag.NewBag(100)
	boundaries := structure.Detect(tokens, jsonlang.New().Pairs(), diag.BagReporter{Bag: bag})
	return tokens, boundaries, bag
}

func TestDetect_NestedRegions(t *testing.T) {
	//       0123456789012345
	input := `{"a": [1, 2]}`
	_, boundaries, bag := detect(t, input)

	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2: %v", len(boundaries), boundaries)
	}

	// Sort order is outermost first.
	outer, inner := boundaries[0], boundaries[1]
	if outer.Span != (source.Span{Start: 0, End: 13}) || outer.Depth != 0 {
		t.Errorf("outer = %v", outer)
	}
	if inner.Span != (source.Span{Start: 6, End: 12}) || inner.Depth != 1 {
		t.Errorf("inner = %v", inner)
	}
	for _, b := range boundaries {
		if !b.Balanced || b.Confidence != 1 {
			t.Errorf("balanced region must have confidence 1: %v", b)
		}
	}
}

func TestDetect_TokenDepthSideEffect(t *testing.T) {
	input := `{"a": [1]}`
	tokens, _, _ := detect(t, input)

	wantDepth := map[string]uint16{
		`{`:   0, // delimiters carry the depth of their own region
		`"a"`: 1,
		`[`:   1,
		`1`:   2,
		`]`:   1,
		`}`:   0,
	}
	for _, tok := range tokens {
		want, ok := wantDepth[tok.Text]
		if !ok {
			continue
		}
		if tok.Depth != want {
			t.Errorf("token %q depth = %d, want %d", tok.Text, tok.Depth, want)
		}
	}
}

func TestDetect_MismatchedCloser(t *testing.T) {
	// `}` при открытой `[` — несовпадение; обе скобки остаются незакрытыми.
	input := `{"a":1,"b":[1,2,}`
	_, boundaries, bag := detect(t, input)

	mismatches, unclosed := 0, 0
	for _, d := range bag.Items() {
		switch d.Code {
		case diag.StructMismatchedCloser:
			mismatches++
			if d.Severity != diag.SevError {
				t.Errorf("mismatch severity = %v, want error", d.Severity)
			}
		case diag.StructUnclosedOpener:
			unclosed++
			if d.Severity != diag.SevWarning {
				t.Errorf("unclosed severity = %v, want warning", d.Severity)
			}
		}
	}
	if mismatches != 1 {
		t.Errorf("mismatch count = %d, want 1", mismatches)
	}
	if unclosed != 2 {
		t.Errorf("unclosed count = %d, want 2", unclosed)
	}

	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries: %v", len(boundaries), boundaries)
	}
	eof := uint32(len(input))
	for _, b := range boundaries {
		if b.Balanced {
			t.Errorf("boundary must be unclosed: %v", b)
		}
		if b.Span.End != eof {
			t.Errorf("unclosed boundary must run to EOF %d: %v", eof, b)
		}
	}
	// Глубина понижает уверенность: 1/(1+depth).
	if boundaries[0].Confidence != 1.0 {
		t.Errorf("outer confidence = %v, want 1", boundaries[0].Confidence)
	}
	if boundaries[1].Confidence != 0.5 {
		t.Errorf("inner confidence = %v, want 0.5", boundaries[1].Confidence)
	}
}

func TestDetect_StrayCloser(t *testing.T) {
	_, boundaries, bag := detect(t, `} [1]`)

	if len(boundaries) != 1 || !boundaries[0].Balanced {
		t.Fatalf("boundaries = %v", boundaries)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.StructStrayCloser && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Error("missing StructStrayCloser diagnostic")
	}
}

func TestDetect_DeepUnclosedConfidence(t *testing.T) {
	_, boundaries, _ := detect(t, `[[[[`)

	if len(boundaries) != 4 {
		t.Fatalf("got %d boundaries", len(boundaries))
	}
	for i, b := range boundaries {
		want := 1 / float64(1+i)
		if b.Depth != uint16(i) || b.Confidence != want {
			t.Errorf("boundary[%d] depth=%d conf=%v, want depth=%d conf=%v",
				i, b.Depth, b.Confidence, i, want)
		}
	}
}

func TestDetect_SourceOrder(t *testing.T) {
	// Братья и вложенность вперемешку.
	_, boundaries, _ := detect(t, `[{"a":[1]},{"b":2}]`)

	for i := 1; i < len(boundaries); i++ {
		prev, cur := boundaries[i-1], boundaries[i]
		if prev.Span.Start > cur.Span.Start {
			t.Fatalf("boundaries out of order: %v before %v", prev, cur)
		}
		if prev.Span.Start == cur.Span.Start && prev.Span.End < cur.Span.End {
			t.Fatalf("outermost must come first at equal starts: %v before %v", prev, cur)
		}
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	_, boundaries, bag := detect(t, "")
	if len(boundaries) != 0 || bag.Len() != 0 {
		t.Errorf("boundaries=%v diags=%v", boundaries, bag.Items())
	}
}
