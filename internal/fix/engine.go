package fix

import (
	"errors"
	"fmt"
	"sort"

	"strata/internal/diag"
	"strata/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies only the first candidate fix.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every candidate that does not conflict with an
	// already applied one.
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	EditCount int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// Result aggregates applied fixes, skipped ones, and the rewritten buffer.
type Result struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Output  []byte
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them to src. src is not mutated; the rewritten buffer is
// returned in Result.Output even when some fixes were skipped.
func Apply(src []byte, diagnostics []diag.Diagnostic, opts ApplyOptions) (*Result, error) {
	result := &Result{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
		Output:  append([]byte(nil), src...),
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	if opts.Mode == ApplyModeOnce {
		candidates = candidates[:1]
	}

	// Edits already committed to the buffer, kept sorted by start. Later
	// candidates are rebased over them via cumulative deltas.
	committed := make([]diag.FixEdit, 0)

	for _, cand := range candidates {
		if conflictsWithExisting(committed, cand.fix.Edits) {
			result.Skipped = append(result.Skipped, SkippedFix{
				Title:  cand.fix.Title,
				Reason: "conflicts with previously applied edits",
			})
			continue
		}

		edits := append([]diag.FixEdit(nil), cand.fix.Edits...)
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Span.Start == edits[j].Span.Start {
				return edits[i].Span.End > edits[j].Span.End
			}
			return edits[i].Span.Start > edits[j].Span.Start
		})

		working := append([]byte(nil), result.Output...)
		staged := append([]diag.FixEdit(nil), committed...)
		var skipReason string
		for _, edit := range edits {
			start := int(edit.Span.Start) + cumulativeDelta(staged, int(edit.Span.Start))
			end := int(edit.Span.End) + cumulativeDelta(staged, int(edit.Span.End))
			if start < 0 || end < start || end > len(working) {
				skipReason = "edit span out of range"
				break
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
			staged = insertEditSorted(staged, edit)
		}
		if skipReason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Title:  cand.fix.Title,
				Reason: skipReason,
			})
			continue
		}

		result.Output = working
		committed = staged
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			EditCount: len(edits),
		})
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0)
	order := 0
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands
}

// sortCandidates орудует стабильной сортировкой: позиция, порядок вставки,
// код, заголовок. Результат детерминирован между запусками.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func conflictsWithExisting(existing []diag.FixEdit, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev.Span, cand.Span) {
				return true
			}
		}
	}
	return false
}

// spansConflict treats spans as half-open intervals. Two zero-length edits
// never conflict; a zero-length edit conflicts with a span that contains
// its position.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Overlaps(b)
}

// cumulativeDelta sums the length changes of all committed edits that end
// at or before pos, rebasing an original-buffer offset onto the current
// buffer.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

// Summary возвращает человекочитаемый отчёт о применённых фиксах.
func (r *Result) Summary() string {
	if len(r.Applied) == 0 {
		return "no fixes applied"
	}
	out := fmt.Sprintf("applied %d fix(es):\n", len(r.Applied))
	for _, a := range r.Applied {
		out += fmt.Sprintf("  [%s] %s (%d edit(s))\n", a.Code.ID(), a.Title, a.EditCount)
	}
	for _, s := range r.Skipped {
		out += fmt.Sprintf("  skipped: %s (%s)\n", s.Title, s.Reason)
	}
	return out
}
