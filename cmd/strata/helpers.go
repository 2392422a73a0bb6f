package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strata/internal/diagfmt"
	"strata/internal/driver"
	"strata/internal/observ"
	"strata/internal/parser"
	"strata/internal/project"
	"strata/internal/recovery"
)

// driverOptions собирает driver.Options из глобальных флагов и strata.toml.
func driverOptions(cmd *cobra.Command) (driver.Options, project.Config, error) {
	cfg, _, err := project.Discover(".")
	if err != nil {
		return driver.Options{}, project.Config{}, err
	}

	opts := driver.DefaultOptions()
	opts.PreserveComments = cfg.PreserveComments()

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, project.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	langFlag, err := cmd.Root().PersistentFlags().GetString("lang")
	if err != nil {
		return driver.Options{}, project.Config{}, fmt.Errorf("failed to get lang flag: %w", err)
	}
	opts.Language = langFlag
	opts.LangOverrides = cfg.Languages

	return opts, cfg, nil
}

func parserOptions(cfg project.Config, maxDiagnostics int) parser.Options {
	maxErrors := cfg.Parser.MaxErrors
	if maxErrors <= 0 {
		maxErrors = maxDiagnostics
	}
	popts := parser.Options{MaxErrors: uint(maxErrors)}
	if cfg.FailFast() {
		popts.Mode = parser.FailFast
	}
	if cfg.Parser.StrictSeparators {
		popts.Strict |= parser.StrictSeparators
	}
	popts.Sync = recovery.SyncSet{Texts: cfg.Parser.SyncTokens}
	return popts
}

// printDiagnostics выводит содержимое bag в stderr.
func printDiagnostics(cmd *cobra.Command, res *driver.TokenizeResult) {
	if !res.Bag.HasErrors() && !res.Bag.HasWarnings() {
		return
	}
	res.Bag.Sort()
	diagfmt.Pretty(os.Stderr, res.Bag, res.File, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		ShowNotes: true,
		ShowFixes: true,
	})
}

// printTimings выводит сводку таймера, если запрошен --timings.
func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if timings && timer != nil {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
}
