package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"macrofront/internal/buildpipeline"
	"macrofront/internal/driver"
	"macrofront/internal/project"
)

const noManifestMessage = "no " + project.ManifestName + " found\nplease specify a workspace directory or a file, e.g.:\n  macrofront check path/to/main" + project.SourceExt

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir|manifest|file" + project.SourceExt + "]",
	Short: "Run the frontend pipeline over a workspace or a file",
	Long: `Check parses, expands, collects and resolves every crate of the workspace
found at or above the given directory (the current one by default). A source
file argument is checked as a lone crate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	addDiagFlags(checkCmd)
	checkCmd.Flags().Int("jobs", 0, "max crates compiled concurrently (0=auto)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse clean results of leaf crates across runs")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("stdlib", false, "treat a lone file as the standard library")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	dopts, err := readDiagOptions(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	stdlib, err := cmd.Flags().GetBool("stdlib")
	if err != nil {
		return fmt.Errorf("failed to get stdlib flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{MaxDiagnostics: dopts.max, Jobs: jobs}
	if diskCache {
		if opts.DiskCache, err = driver.OpenDiskCache("macrofront"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var ws *driver.WorkspaceResult
	if !st.IsDir() && strings.HasSuffix(target, project.SourceExt) {
		ws, err = driver.CheckFile(cmd.Context(), target, stdlib, opts)
	} else {
		manifestPath := target
		if st.IsDir() {
			var ok bool
			manifestPath, ok, err = project.FindManifest(target)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(noManifestMessage)
			}
		}
		if shouldUseTUI(mode, stdoutFile(cmd)) && dopts.format != "json" && !quiet {
			ws, err = checkWithUI(cmd, manifestPath, opts)
		} else {
			ws, err = driver.CheckWorkspace(cmd.Context(), manifestPath, opts)
		}
	}
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd, mergedBag(dopts.max, ws.Diagnostics()), ws.FileSet, dopts); err != nil {
		return err
	}
	if !quiet && dopts.format != "json" {
		printCheckSummary(cmd, ws)
	}
	if showTimings {
		printTimer(cmd.ErrOrStderr(), ws.Timer)
	}
	if ws.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func printCheckSummary(cmd *cobra.Command, ws *driver.WorkspaceResult) {
	cached := 0
	for _, c := range ws.Crates {
		if c.Cached {
			cached++
		}
	}
	out := cmd.ErrOrStderr()
	if len(ws.Skipped) > 0 {
		fmt.Fprintf(out, "skipped: %s\n", strings.Join(ws.Skipped, ", "))
	}
	msg := fmt.Sprintf("checked %d crate(s)", len(ws.Crates))
	if cached > 0 {
		msg += fmt.Sprintf(", %d from cache", cached)
	}
	fmt.Fprintln(out, msg)
}

// checkWithUI runs the workspace check while a progress UI consumes its events.
func checkWithUI(cmd *cobra.Command, manifestPath string, opts driver.Options) (*driver.WorkspaceResult, error) {
	m, err := project.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	crates := make([]string, 0, len(m.Config.Crates))
	for _, c := range m.Config.Crates {
		crates = append(crates, c.Name)
	}
	title := fmt.Sprintf("checking %s", m.Config.Workspace.Name)
	if rel, err := filepath.Rel(".", m.Root); err == nil && rel != "." {
		title += " (" + rel + ")"
	}
	return runWithUI(title, crates, func(sink buildpipeline.ProgressSink) (*driver.WorkspaceResult, error) {
		opts.Progress = sink
		return driver.CheckWorkspace(cmd.Context(), manifestPath, opts)
	})
}
