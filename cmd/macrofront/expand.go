package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macrofront/internal/diagfmt"
	"macrofront/internal/driver"
	"macrofront/internal/format"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.mf>",
	Short: "Run the untyped macro phase on a file",
	Long: `Expand parses a file as the root of a lone crate, runs the untyped-AST
phase of every registered macro processor and prints the resulting functions.
Pass --stdlib to treat the file as the standard library crate.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().Bool("stdlib", false, "treat the file as the standard library")
	expandCmd.Flags().String("format", "signatures", "output format (signatures|source|pretty|json|tree)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	stdlib, err := cmd.Flags().GetBool("stdlib")
	if err != nil {
		return fmt.Errorf("failed to get stdlib flag: %w", err)
	}
	outFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	result, err := driver.Expand(cmd.Context(), args[0], stdlib, driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return fmt.Errorf("expand failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2, ShowNotes: true})
	}

	out := cmd.OutOrStdout()
	header := result.FileSet.Get(result.File).FormatPath("auto", result.FileSet.BaseDir())
	items := diagfmt.ModuleItems(result.Module)
	switch outFormat {
	case "signatures":
		for _, fn := range result.Module.Functions {
			if _, err := fmt.Fprintln(out, diagfmt.FnSignature(fn)); err != nil {
				return err
			}
		}
	case "source":
		_, err = out.Write(format.Module(result.Module, format.Options{}))
	case "pretty":
		err = diagfmt.FormatASTPretty(out, header, items, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(out, header, items, result.FileSet)
	case "tree":
		err = diagfmt.FormatASTTree(out, header, items, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", outFormat)
	}
	if err != nil {
		return err
	}
	if showTimings {
		printTimer(cmd.ErrOrStderr(), result.Timer)
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
