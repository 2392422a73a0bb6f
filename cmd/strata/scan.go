package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"strata/internal/driver"
	"strata/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] dir",
	Short: "Scan a directory and report structure diagnostics",
	Long:  `Scan tokenizes and outlines every recognized file under dir in parallel`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	scanCmd.Flags().Bool("no-ui", false, "disable interactive progress output")
	scanCmd.Flags().Bool("cache", false, "reuse on-disk scan results for unchanged files")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := args[0]

	jobs, _ := cmd.Flags().GetInt("jobs")
	noUI, _ := cmd.Flags().GetBool("no-ui")
	useCache, _ := cmd.Flags().GetBool("cache")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	opts, _, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	if useCache {
		opts.Cache, err = driver.OpenDiskCache("strata")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	interactive := !noUI && !quiet && isTerminal(os.Stdout)

	var observer driver.ScanObserver
	var events chan driver.ScanEvent
	var uiDone chan error
	if interactive {
		events = make(chan driver.ScanEvent, 64)
		observer = func(ev driver.ScanEvent) { events <- ev }
	}

	run := func() ([]driver.ScanDirResult, error) {
		results, err := driver.ScanDir(context.Background(), dir, opts, jobs, observer)
		if events != nil {
			close(events)
		}
		return results, err
	}

	var results []driver.ScanDirResult
	if interactive {
		files, listErr := driver.ListSourceFiles(dir)
		if listErr != nil {
			return listErr
		}
		program := tea.NewProgram(ui.NewProgressModel("scanning "+dir, files, events))
		uiDone = make(chan error, 1)
		go func() {
			_, uiErr := program.Run()
			uiDone <- uiErr
		}()
		results, err = run()
		<-uiDone
	} else {
		results, err = run()
	}
	if err != nil {
		return err
	}

	errorFiles := 0
	for _, r := range results {
		if r.Err != nil {
			errorFiles++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if r.Result.Bag.HasErrors() || r.Result.Bag.HasWarnings() {
			printDiagnostics(cmd, r.Result.TokenizeResult)
		}
	}

	if !quiet {
		fmt.Printf("scanned %d file(s), %d with load errors\n", len(results), errorFiles)
	}
	return nil
}
