package token

// Kind represents the language-generic class of a source token. Concrete
// languages map their own token tables onto this closed set; the engine
// never branches on anything finer.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Unknown represents one unclassifiable byte; the lexer never aborts.
	Unknown

	// Whitespace represents a run of spaces and tabs.
	Whitespace
	// Newline represents a run of line breaks.
	Newline
	// LineComment represents a comment terminated by end of line.
	LineComment
	// BlockComment represents a delimited comment.
	BlockComment

	// Ident represents an identifier or keyword-shaped word.
	Ident
	// Keyword represents a word the language classifier marked as reserved.
	Keyword
	// Number represents a numeric literal.
	Number
	// String represents a quoted literal.
	String

	// OpenDelim represents an opening delimiter: ( [ { ...
	OpenDelim
	// CloseDelim represents a closing delimiter: ) ] } ...
	CloseDelim
	// Punct represents separators and terminators: , ; : ...
	Punct
	// Operator represents operator characters.
	Operator
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Unknown:      "Unknown",
	Whitespace:   "Whitespace",
	Newline:      "Newline",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	Ident:        "Ident",
	Keyword:      "Keyword",
	Number:       "Number",
	String:       "String",
	OpenDelim:    "OpenDelim",
	CloseDelim:   "CloseDelim",
	Punct:        "Punct",
	Operator:     "Operator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether the kind carries no syntactic weight.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, LineComment, BlockComment:
		return true
	default:
		return false
	}
}

// IsComment reports whether the kind is a comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IsDelim reports whether the kind opens or closes a delimited region.
func (k Kind) IsDelim() bool {
	return k == OpenDelim || k == CloseDelim
}
