package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macrofront/internal/diag"
	"macrofront/internal/diagfmt"
	"macrofront/internal/source"
)

type diagOptions struct {
	format    string
	pathMode  diagfmt.PathMode
	withNotes bool
	max       int
}

func readDiagOptions(cmd *cobra.Command) (diagOptions, error) {
	var opts diagOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s (expected pretty|json|short)", opts.format)
	}
	pathStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(pathStr)
	if !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q", pathStr)
	}
	opts.pathMode = mode
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

func addDiagFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes")
}

// printDiagnostics renders bag; json goes to stdout, the rest to stderr.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, opts diagOptions) error {
	switch opts.format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			Max:              opts.max,
			IncludeNotes:     opts.withNotes,
		})
	case "short":
		return diagfmt.Short(cmd.ErrOrStderr(), bag, fs)
	}
	if bag.Len() == 0 {
		return nil
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:     color,
		Context:   2,
		PathMode:  opts.pathMode,
		ShowNotes: opts.withNotes,
	})
	return nil
}

// mergedBag folds diagnostics into one sorted bag for printing.
func mergedBag(max int, diags []diag.Diagnostic) *diag.Bag {
	bag := diag.NewBag(max)
	for _, d := range diags {
		if !bag.Add(d) {
			break
		}
	}
	bag.Sort()
	return bag
}
