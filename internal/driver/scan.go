package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"strata/internal/lang"
)

// ScanEvent is emitted once per file during ScanDir, for progress UIs.
type ScanEvent struct {
	Path  string
	Index int
	Total int
	Err   error
}

// ScanObserver receives scan events. It is called from worker goroutines.
type ScanObserver func(ScanEvent)

// ScanDirResult содержит результат разбора одного файла.
type ScanDirResult struct {
	Path   string
	Result *StructureResult
	Err    error
}

// ListSourceFiles возвращает отсортированный список файлов с
// зарегистрированным языком.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && lang.Detect(path) != nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ScanDir прогоняет токенизацию и детектор границ по всем распознанным
// файлам каталога параллельно. Порядок результатов детерминирован.
func ScanDir(ctx context.Context, dir string, opts Options, jobs int, observer ScanObserver) ([]ScanDirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]ScanDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := Structure(path, opts)
			results[i] = ScanDirResult{Path: path, Result: res, Err: err}
			if observer != nil {
				observer(ScanEvent{Path: path, Index: i, Total: len(files), Err: err})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
