package driver

import (
	"fmt"

	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/observ"
	"strata/internal/parser"
	"strata/internal/source"
	"strata/internal/structure"
)

type StructureResult struct {
	*TokenizeResult
	Boundaries []structure.Boundary
}

type ParseResult struct {
	*StructureResult
	Tree   *ast.Tree
	Root   ast.NodeID
	Failed bool
}

// Structure токенизирует файл и находит границы балансом разделителей.
// При включённом дисковом кэше чистые неизменённые файлы читаются с диска.
func Structure(path string, opts Options) (*StructureResult, error) {
	if opts.Cache != nil {
		if res, ok, err := structureFromCache(path, opts); err == nil && ok {
			return res, nil
		}
	}

	tr, err := Tokenize(path, opts)
	if err != nil {
		return nil, err
	}

	phase := tr.Timer.Begin("structure")
	boundaries := structure.Detect(tr.Tokens, tr.Language.Pairs(), diag.BagReporter{Bag: tr.Bag})
	tr.Timer.End(phase, fmt.Sprintf("%d boundaries", len(boundaries)))

	// Кэшируются только чистые результаты: диагностики на диск не
	// сериализуются.
	if opts.Cache != nil && !tr.Bag.HasErrors() && !tr.Bag.HasWarnings() {
		key := HashContent(tr.File.Content)
		_ = opts.Cache.Put(key, PackPayload(tr.Language.Name(), tr.Tokens, boundaries))
	}

	return &StructureResult{TokenizeResult: tr, Boundaries: boundaries}, nil
}

func structureFromCache(path string, opts Options) (*StructureResult, bool, error) {
	language, err := detectLanguage(path, opts)
	if err != nil {
		return nil, false, err
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	file := fs.Get(fileID)

	var payload DiskPayload
	hit, err := opts.Cache.Get(HashContent(file.Content), &payload)
	if err != nil || !hit || payload.Language != language.Name() {
		return nil, false, err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("structure")
	tokens, boundaries := UnpackPayload(&payload, file.Content)
	timer.End(phase, "disk cache hit")

	return &StructureResult{
		TokenizeResult: &TokenizeResult{
			FileSet:  fs,
			File:     file,
			Language: language,
			Tokens:   tokens,
			Bag:      diag.NewBag(opts.MaxDiagnostics),
			Timer:    timer,
		},
		Boundaries: boundaries,
	}, true, nil
}

// Parse прогоняет весь пайплайн до детального дерева.
func Parse(path string, opts Options, popts parser.Options) (*ParseResult, error) {
	sr, err := Structure(path, opts)
	if err != nil {
		return nil, err
	}
	if popts.Reporter == nil {
		popts.Reporter = diag.BagReporter{Bag: sr.Bag}
	}

	phase := sr.Timer.Begin("parse")
	res := parser.Parse(sr.Tokens, sr.Language, popts)
	sr.Timer.End(phase, fmt.Sprintf("%d nodes", res.Tree.Len()))

	return &ParseResult{
		StructureResult: sr,
		Tree:            res.Tree,
		Root:            res.Root,
		Failed:          res.Failed,
	}, nil
}
