package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors macrofront.toml.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Crates    []CrateConfig   `toml:"crate"`
}

type WorkspaceConfig struct {
	Name string `toml:"name"`
}

type CrateConfig struct {
	Name   string   `toml:"name"`
	Root   string   `toml:"root"`
	Stdlib bool     `toml:"stdlib,omitempty"`
	Deps   []string `toml:"deps,omitempty"`
}

// Manifest is a loaded and validated workspace manifest.
type Manifest struct {
	Path   string // absolute path of macrofront.toml
	Root   string // directory of the manifest
	Config Config
}

var ErrNoCrates = errors.New("manifest declares no crates")

// LoadManifest decodes and validates the manifest at path. Dependency graph
// problems (unknown deps, cycles) are left to the dag package, which reports
// them as diagnostics.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	var cfg Config
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", abs, undecoded[0].String())
	}
	if !meta.IsDefined("workspace") {
		return nil, fmt.Errorf("%s: missing [workspace]", abs)
	}
	if !meta.IsDefined("workspace", "name") || strings.TrimSpace(cfg.Workspace.Name) == "" {
		return nil, fmt.Errorf("%s: missing [workspace].name", abs)
	}
	m := &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if len(m.Config.Crates) == 0 {
		return ErrNoCrates
	}
	stdlib := ""
	for i, c := range m.Config.Crates {
		if !IsValidCrateName(c.Name) {
			return fmt.Errorf("[[crate]] #%d: invalid name %q", i+1, c.Name)
		}
		if strings.TrimSpace(c.Root) == "" {
			return fmt.Errorf("crate %q: missing root", c.Name)
		}
		if filepath.Ext(c.Root) != SourceExt {
			return fmt.Errorf("crate %q: root must be a %s file", c.Name, SourceExt)
		}
		info, err := os.Stat(m.CrateRoot(c))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("crate %q: root does not exist: %s", c.Name, c.Root)
			}
			return fmt.Errorf("crate %q: failed to stat root: %w", c.Name, err)
		}
		if info.IsDir() {
			return fmt.Errorf("crate %q: root is a directory", c.Name)
		}
		if c.Stdlib {
			if stdlib != "" {
				return fmt.Errorf("crates %q and %q are both marked stdlib", stdlib, c.Name)
			}
			stdlib = c.Name
		}
	}
	return nil
}

// CrateRoot returns the absolute root file of c.
func (m *Manifest) CrateRoot(c CrateConfig) string {
	return filepath.Join(m.Root, filepath.FromSlash(c.Root))
}

// Stdlib returns the crate marked stdlib, if any.
func (m *Manifest) Stdlib() (CrateConfig, bool) {
	for _, c := range m.Config.Crates {
		if c.Stdlib {
			return c, true
		}
	}
	return CrateConfig{}, false
}

// EncodeConfig renders cfg as TOML.
func EncodeConfig(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteManifest writes cfg to dir/macrofront.toml; it refuses to overwrite.
func WriteManifest(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %q: %w", path, err)
	}
	data, err := EncodeConfig(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	return path, nil
}
