// Package driver wires the pipeline stages together behind simple entry
// points used by the CLI and by tests.
package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/lexer"
	"strata/internal/observ"
	"strata/internal/source"
	"strata/internal/token"
)

type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Language lang.Language
	Tokens   []token.Token
	Bag      *diag.Bag
	Timer    *observ.Timer
}

// Options управляет общими настройками запуска пайплайна.
type Options struct {
	MaxDiagnostics int
	// Language pins the language; empty means detect by file extension.
	Language string
	// LangOverrides maps file extensions (with dot) to registered language
	// names, consulted before the built-in detection table.
	LangOverrides    map[string]string
	PreserveComments bool
	// Cache, when set, lets Structure reuse on-disk results for files
	// whose content hash matches a clean previous run.
	Cache *DiskCache
}

func DefaultOptions() Options {
	return Options{MaxDiagnostics: 100, PreserveComments: true}
}

func detectLanguage(path string, opts Options) (lang.Language, error) {
	if opts.Language != "" {
		l := lang.ByName(opts.Language)
		if l == nil {
			return nil, fmt.Errorf("unknown language %q", opts.Language)
		}
		return l, nil
	}
	if name, ok := opts.LangOverrides[strings.ToLower(filepath.Ext(path))]; ok {
		l := lang.ByName(name)
		if l == nil {
			return nil, fmt.Errorf("unknown language %q configured for %q", name, filepath.Ext(path))
		}
		return l, nil
	}
	l := lang.Detect(path)
	if l == nil {
		return nil, fmt.Errorf("no language registered for %q", filepath.Ext(path))
	}
	return l, nil
}

// Tokenize загружает файл и выдаёт полный поток токенов.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	language, err := detectLanguage(path, opts)
	if err != nil {
		return nil, err
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	timer := observ.NewTimer()

	phase := timer.Begin("tokenize")
	lx := lexer.New(file.Content, language, lexer.Options{
		Reporter:         diag.BagReporter{Bag: bag},
		PreserveComments: opts.PreserveComments,
	})
	tokens := lx.Scan()
	timer.End(phase, fmt.Sprintf("%d tokens", len(tokens)))

	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Language: language,
		Tokens:   tokens,
		Bag:      bag,
		Timer:    timer,
	}, nil
}
