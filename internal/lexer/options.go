package lexer

import (
	"strata/internal/diag"
	"strata/internal/source"
)

type Options struct {
	// Reporter может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	Reporter diag.Reporter
	// PreserveComments controls whether Scan keeps comment tokens. The lazy
	// Next stream always emits them: concatenating every token's text must
	// reproduce the input byte-for-byte.
	PreserveComments bool
}

// DefaultOptions keeps comments, matching what formatters expect.
func DefaultOptions() Options {
	return Options{PreserveComments: true}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
