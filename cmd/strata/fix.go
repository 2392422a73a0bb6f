package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strata/internal/driver"
	"strata/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] file",
	Short: "Apply suggested repairs to a source file",
	Long:  `Fix parses the file and applies the textual repairs attached to its diagnostics, such as inserting a missing closer`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix, not just the first")
	fixCmd.Flags().Bool("dry-run", false, "print the result instead of rewriting the file")
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]

	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	opts, cfg, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(path, opts, parserOptions(cfg, opts.MaxDiagnostics))
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	mode := fix.ApplyModeOnce
	if all {
		mode = fix.ApplyModeAll
	}
	applied, err := fix.Apply(result.File.Content, result.Bag.Items(), fix.ApplyOptions{Mode: mode})
	if errors.Is(err, fix.ErrNoFixes) {
		if !quiet {
			fmt.Println("no applicable fixes found")
		}
		return nil
	}
	if err != nil {
		return err
	}

	if dryRun {
		_, err = os.Stdout.Write(applied.Output)
		return err
	}

	mode644 := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode644 = info.Mode()
	}
	if err := os.WriteFile(path, applied.Output, mode644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !quiet {
		fmt.Print(applied.Summary())
	}
	return nil
}
