package fix_test

import (
	"errors"
	"strings"
	"testing"

	"strata/internal/diag"
	"strata/internal/fix"
	"strata/internal/source"
)

func insertFix(title string, at uint32, text string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: source.Span{Start: at, End: at}, NewText: text}},
	}
}

func deleteFix(title string, start, end uint32) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: source.Span{Start: start, End: end}}},
	}
}

func withFix(span source.Span, f diag.Fix) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynMissingCloser,
		Message:  "test diagnostic",
		Primary:  span,
		Fixes:    []diag.Fix{f},
	}
}

func TestApply_InsertCloser(t *testing.T) {
	src := []byte(`{"a": 1`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 7, End: 7}, insertFix("insert '}'", 7, "}")),
	}

	result, err := fix.Apply(src, diags, fix.ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if string(result.Output) != `{"a": 1}` {
		t.Fatalf("output = %q", result.Output)
	}
	if len(result.Applied) != 1 || result.Applied[0].Title != "insert '}'" {
		t.Errorf("applied = %+v", result.Applied)
	}
	// Исходный буфер не мутируется.
	if string(src) != `{"a": 1` {
		t.Errorf("src mutated: %q", src)
	}
}

func TestApply_OnceStopsAfterFirst(t *testing.T) {
	src := []byte(`[1 2 3]`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 2, End: 2}, insertFix("insert ',' #1", 2, ",")),
		withFix(source.Span{Start: 4, End: 4}, insertFix("insert ',' #2", 4, ",")),
	}

	result, err := fix.Apply(src, diags, fix.ApplyOptions{Mode: fix.ApplyModeOnce})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("applied = %+v", result.Applied)
	}
	if string(result.Output) != `[1, 2 3]` {
		t.Errorf("output = %q", result.Output)
	}
}

func TestApply_AllRebasesLaterEdits(t *testing.T) {
	src := []byte(`[1 2 3]`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 2, End: 2}, insertFix("insert ',' #1", 2, ",")),
		withFix(source.Span{Start: 4, End: 4}, insertFix("insert ',' #2", 4, ",")),
	}

	result, err := fix.Apply(src, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("applied = %+v, skipped = %+v", result.Applied, result.Skipped)
	}
	// Вторая вставка пересчитана с учётом первой.
	if string(result.Output) != `[1, 2, 3]` {
		t.Errorf("output = %q", result.Output)
	}
}

func TestApply_ConflictSkipped(t *testing.T) {
	src := []byte(`[1,, 2]`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 2, End: 4}, deleteFix("delete first", 2, 4)),
		withFix(source.Span{Start: 3, End: 4}, deleteFix("delete second", 3, 4)),
	}

	result, err := fix.Apply(src, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("applied = %+v, skipped = %+v", result.Applied, result.Skipped)
	}
	if result.Skipped[0].Title != "delete second" {
		t.Errorf("skipped = %+v", result.Skipped)
	}
}

func TestApply_ZeroLengthPairNeverConflicts(t *testing.T) {
	src := []byte(`ab`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 1, End: 1}, insertFix("insert x", 1, "x")),
		withFix(source.Span{Start: 1, End: 1}, insertFix("insert y", 1, "y")),
	}

	result, err := fix.Apply(src, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("applied = %+v, skipped = %+v", result.Applied, result.Skipped)
	}
}

func TestApply_NoFixes(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SevError, Code: diag.SynUnexpectedToken, Primary: source.Span{Start: 0, End: 1}},
	}
	result, err := fix.Apply([]byte(`x`), diags, fix.ApplyOptions{})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if string(result.Output) != `x` {
		t.Errorf("output = %q", result.Output)
	}
}

func TestApply_OutOfRangeSkipped(t *testing.T) {
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 0, End: 1}, diag.Fix{
			Title: "broken",
			Edits: []diag.FixEdit{{Span: source.Span{Start: 5, End: 9}}},
		}),
	}
	result, err := fix.Apply([]byte(`ab`), diags, fix.ApplyOptions{})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "edit span out of range" {
		t.Errorf("skipped = %+v", result.Skipped)
	}
}

func TestResult_Summary(t *testing.T) {
	src := []byte(`{`)
	diags := []diag.Diagnostic{
		withFix(source.Span{Start: 1, End: 1}, insertFix("insert '}'", 1, "}")),
	}
	result, err := fix.Apply(src, diags, fix.ApplyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	summary := result.Summary()
	if !strings.Contains(summary, "applied 1 fix(es)") || !strings.Contains(summary, "insert '}'") {
		t.Errorf("summary = %q", summary)
	}
}
