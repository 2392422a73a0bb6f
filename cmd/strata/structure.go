package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strata/internal/diagfmt"
	"strata/internal/driver"
)

var structureCmd = &cobra.Command{
	Use:   "structure [flags] file",
	Short: "Show the delimiter structure of a source file",
	Long:  `Structure finds nested delimiter regions by balance alone, without parsing`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStructure,
}

func init() {
	structureCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runStructure(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	opts, _, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Structure(args[0], opts)
	if err != nil {
		return fmt.Errorf("structure detection failed: %w", err)
	}

	printDiagnostics(cmd, result.TokenizeResult)
	printTimings(cmd, result.Timer)

	switch format {
	case "pretty":
		return diagfmt.FormatBoundariesPretty(os.Stdout, result.Boundaries, result.File)
	case "json":
		return diagfmt.FormatBoundariesJSON(os.Stdout, result.Boundaries)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
