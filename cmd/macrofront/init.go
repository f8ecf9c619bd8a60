package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"macrofront/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new workspace",
	Long: `Initialize a new workspace by creating a manifest (macrofront.toml), a small
standard library crate and an application crate depending on it. If
[path|name] is omitted, initializes the current directory. A non-existing
name creates the directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// scaffold lists the files init creates next to the manifest.
var scaffold = []struct {
	path    string
	content string
}{
	{"std/lib.mf", "pub mod hash;\npub mod prelude;\n"},
	{"std/hash.mf", "pub fn hash(x: Field) -> Field {\n    x\n}\n"},
	{"std/prelude/mod.mf", "pub use crate::hash::hash;\n"},
	{"src/main.mf", `fn main(x: Field, expected: Field) {
    let h = hash(x);
    std::resolve_assert_message(h, h == expected);
}
`},
}

func runInit(cmd *cobra.Command, args []string) error {
	target, err := initTarget(args)
	if err != nil {
		return err
	}
	// вложенные workspace не поддерживаются: check нашёл бы внешний манифест
	root, inside, err := project.FindProjectRoot(target)
	if err != nil {
		return err
	}
	if inside && filepath.Clean(root) != filepath.Clean(target) {
		return fmt.Errorf("%q is inside the workspace at %q", target, root)
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if !project.IsValidCrateName(name) {
		name = "workspace"
	}
	cfg := project.Config{
		Workspace: project.WorkspaceConfig{Name: name},
		Crates: []project.CrateConfig{
			{Name: "std", Root: "std/lib.mf", Stdlib: true},
			{Name: "app", Root: "src/main.mf", Deps: []string{"std"}},
		},
	}
	if _, err := project.WriteManifest(target, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(out, "Initialized workspace %q in %s\n", name, rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	for _, f := range scaffold {
		path := filepath.Join(target, filepath.FromSlash(f.path))
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "  - %s (existing)\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintf(out, "  - %s\n", f.path)
	}
	return nil
}

func initTarget(args []string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if len(args) == 0 || args[0] == "." {
		return wd, nil
	}
	if filepath.IsAbs(args[0]) {
		return args[0], nil
	}
	return filepath.Join(wd, args[0]), nil
}
