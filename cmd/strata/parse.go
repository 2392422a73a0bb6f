package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strata/internal/diagfmt"
	"strata/internal/driver"
	"strata/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file",
	Short: "Parse a source file into a detailed tree",
	Long:  `Parse builds a full tree with error recovery; broken input yields a partial tree plus diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("fail-fast", false, "stop at the first syntax error")
	parseCmd.Flags().Bool("strict", false, "warn on tolerated separator sloppiness")
}

func runParse(cmd *cobra.Command, args []string) error {
	opts, cfg, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	popts := parserOptions(cfg, opts.MaxDiagnostics)
	if failFast, _ := cmd.Flags().GetBool("fail-fast"); failFast {
		popts.Mode = parser.FailFast
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		popts.Strict |= parser.StrictSeparators
	}

	result, err := driver.Parse(args[0], opts, popts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	printDiagnostics(cmd, result.TokenizeResult)
	printTimings(cmd, result.Timer)

	if err := diagfmt.FormatTree(os.Stdout, result.Tree, result.File); err != nil {
		return err
	}
	if result.Failed {
		return fmt.Errorf("parse aborted after first error")
	}
	return nil
}
