package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macrofront/internal/diagfmt"
	"macrofront/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.mf>",
	Short: "Parse a source file and print its items",
	Long:  `Parse reads one source file without running macro processors and prints its item tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), filePath, driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2, ShowNotes: true})
	}

	header := result.FileSet.Get(result.File).FormatPath("auto", result.FileSet.BaseDir())
	items := result.Module.Items
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatASTPretty(out, header, items, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(out, header, items, result.FileSet)
	case "tree":
		err = diagfmt.FormatASTTree(out, header, items, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
