package incremental

import (
	"strata/internal/source"
)

// Edit is one textual replacement: OldSpan in pre-edit coordinates is
// replaced by NewText. Insertions have an empty OldSpan; deletions an empty
// NewText.
type Edit struct {
	OldSpan source.Span
	NewText []byte
}

// Delta returns the signed size change the edit causes.
func (e Edit) Delta() int64 {
	return int64(len(e.NewText)) - int64(e.OldSpan.Len())
}

// NewSpan returns the byte range the replacement text occupies after the
// edit is applied.
func (e Edit) NewSpan() source.Span {
	return source.Span{
		Start: e.OldSpan.Start,
		End:   e.OldSpan.Start + uint32(len(e.NewText)),
	}
}

// TokenDelta names the exact token range a re-lex changed.
type TokenDelta struct {
	// Range is the byte span that was re-lexed, in post-edit coordinates.
	Range source.Span
	// FirstToken indexes the first replaced token in the session stream.
	FirstToken int
	// OldCount and NewCount are the replaced and replacement token counts.
	OldCount int
	NewCount int
	// Confidence is 1 when the re-lex stayed within the minimal region and
	// halves for every expansion step past it (floor 0.1).
	Confidence float64
	// Expanded is true when resynchronization forced the region wider than
	// the minimal bound (e.g. the edit opened a string).
	Expanded bool
}
