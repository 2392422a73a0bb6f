package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"strata/internal/diagfmt"
	"strata/internal/incremental"
	"strata/internal/lang"
	"strata/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] file",
	Short: "Watch a file and reparse incrementally on each change",
	Long:  `Watch keeps an incremental session for the file and applies each saved change as an edit, reparsing only the invalidated region`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts, cfg, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	var language lang.Language
	if opts.Language != "" {
		language = lang.ByName(opts.Language)
	} else {
		language = lang.Detect(path)
	}
	if language == nil {
		return fmt.Errorf("no language registered for %q", filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sessOpts := incremental.DefaultOptions()
	sessOpts.MaxEntries = cfg.Cache.MaxEntries
	sessOpts.MaxDiagnostics = opts.MaxDiagnostics
	sessOpts.Parser = parserOptions(cfg, opts.MaxDiagnostics)
	session := incremental.NewSession(content, language, sessOpts)

	reportState(cmd, path, session)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Редакторы часто заменяют файл целиком, следим за каталогом.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fmt.Printf("watching %s (ctrl-c to stop)\n", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			next, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
				continue
			}
			edit, changed := diffEdit(session.Source(), next)
			if !changed {
				continue
			}
			delta, err := session.ApplyEdit(edit)
			if err != nil {
				fmt.Fprintf(os.Stderr, "edit failed: %v\n", err)
				continue
			}
			fmt.Printf("relexed bytes %d-%d: %d token(s) out, %d in (confidence %.2f)\n",
				delta.Range.Start, delta.Range.End, delta.OldCount, delta.NewCount, delta.Confidence)
			reportState(cmd, path, session)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// diffEdit derives a single edit from two buffer snapshots by trimming the
// common prefix and suffix.
func diffEdit(old, next []byte) (incremental.Edit, bool) {
	prefix := 0
	for prefix < len(old) && prefix < len(next) && old[prefix] == next[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(next)-prefix &&
		old[len(old)-1-suffix] == next[len(next)-1-suffix] {
		suffix++
	}
	if prefix == len(old) && prefix == len(next) {
		return incremental.Edit{}, false
	}
	return incremental.Edit{
		OldSpan: source.Span{Start: uint32(prefix), End: uint32(len(old) - suffix)},
		NewText: next[prefix : len(next)-suffix],
	}, true
}

func reportState(cmd *cobra.Command, path string, session *incremental.Session) {
	balanced := 0
	for _, b := range session.Boundaries() {
		if b.Balanced {
			balanced++
		}
	}
	stats := session.Cache().Stats()
	fmt.Printf("%s: %d token(s), %d boundar(ies) (%d balanced), cache %d hit / %d miss\n",
		path, len(session.Tokens()), len(session.Boundaries()), balanced, stats.Hits, stats.Misses)

	bag := session.Diagnostics()
	if bag.HasErrors() || bag.HasWarnings() {
		bag.Sort()
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual(path, session.Source()))
		diagfmt.Pretty(os.Stderr, bag, file, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
}
