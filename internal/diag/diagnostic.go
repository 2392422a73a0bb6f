package diag

import (
	"strata/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single textual replacement suggested by a diagnostic.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is an applicable repair attached to a diagnostic, e.g. the closer a
// recovery step would insert.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
