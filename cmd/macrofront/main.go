package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"macrofront/internal/macros"
	"macrofront/internal/version"
)

// exitICE is the status for internal compiler errors.
const exitICE = 101

var rootCmd = &cobra.Command{
	Use:           "macrofront",
	Short:         "Macro-processing compiler frontend",
	Long:          `macrofront parses, expands and resolves crates, running the registered macro processors between frontend phases`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return setupProfiling(cmd)
	},
}

// errDiagnostics is returned by commands that printed error diagnostics.
var errDiagnostics = errors.New("errors reported")

func main() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	os.Exit(run())
}

func run() (code int) {
	defer stopProfiling()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ice, ok := macros.AsInternal(r)
		if !ok {
			runTraceCleanup()
			panic(r)
		}
		code = reportICE(ice)
	}()

	err := rootCmd.Execute()
	var ice *macros.InternalError
	if errors.As(err, &ice) {
		return reportICE(ice)
	}
	runTraceCleanup()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errDiagnostics) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}

func reportICE(ice *macros.InternalError) int {
	fmt.Fprintf(os.Stderr, "internal compiler error: %v\n", ice)
	dumpTrace(os.Stderr)
	runTraceCleanup()
	return exitICE
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// stdoutFile returns the command's output when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}

// useColor resolves --color for output going to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}
