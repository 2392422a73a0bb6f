package diag

import (
	"fmt"
)

// Code identifies a diagnostic rule. The numeric space is partitioned by
// phase: 1000 lexical, 1500 structural, 2000 syntactic.
type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownByte              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Структурные (detector, без грамматики)
	StructInfo             Code = 1500
	StructMismatchedCloser Code = 1501
	StructUnclosedOpener   Code = 1502
	StructStrayCloser      Code = 1503

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectValue       Code = 2003
	SynExpectFieldSep    Code = 2004
	SynExpectItemSep     Code = 2005
	SynTrailingSep       Code = 2006
	SynMissingCloser     Code = 2007
	SynDeletedToken      Code = 2008
	SynInsertedToken     Code = 2009
	SynPanicSkip         Code = 2010
	SynLimitReached      Code = 2011
)

// Phase names the producing stage for a code.
func (c Code) Phase() string {
	switch {
	case c >= 2000:
		return "syntax"
	case c >= 1500:
		return "structure"
	case c >= 1000:
		return "lex"
	default:
		return "unknown"
	}
}

// ID returns the stable machine-readable form, e.g. "STR1501".
func (c Code) ID() string {
	switch {
	case c >= 2000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 1500:
		return fmt.Sprintf("STR%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	default:
		return fmt.Sprintf("UNK%04d", uint16(c))
	}
}

func (c Code) String() string {
	return c.ID()
}
