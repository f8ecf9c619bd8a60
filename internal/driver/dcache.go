package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"macrofront/internal/diag"
	"macrofront/internal/macros"
	"macrofront/internal/project"
	"macrofront/internal/source"
)

// Current schema version - increment when CrateSummary format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores crate summaries keyed by input digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CrateSummary is what a clean compilation of a crate leaves on disk.
type CrateSummary struct {
	Schema uint16

	Name   string
	Stdlib bool

	// все файлы крейта: корень и `mod`-файлы
	FilePaths  []string
	FileHashes []project.Digest

	Key    project.Digest // входной ключ: корень + зависимости + процессоры
	Digest project.Digest // ключ + содержимое всех файлов

	Functions []string // функции корневого модуля после фазы 1
	Oracles   []string

	Errors   int
	Warnings int
	Broken   bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "crates", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a summary; the file is replaced atomically.
func (c *DiskCache) Put(key project.Digest, sum *CrateSummary) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(sum); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a summary. A missing entry is (false, nil); an entry written by
// another schema version is treated as missing.
func (c *DiskCache) Get(key project.Digest, out *CrateSummary) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key.Short(), err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог целиком, чтобы параллельный Get не увидел полуудалённое
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// processorsDigest changes whenever the registered processor list does.
func processorsDigest(procs []macros.Processor) project.Digest {
	names := make([]string, len(procs))
	for i, p := range procs {
		names[i] = p.Name()
	}
	return project.HashNames(names...)
}

// summarize builds the disk record of a compiled crate.
func summarize(fs *source.FileSet, res *CrateResult, key project.Digest) *CrateSummary {
	sum := &CrateSummary{
		Schema: diskCacheSchemaVersion,
		Name:   res.Name,
		Stdlib: res.Crate.IsStdlib(),
		Key:    key,
		Broken: res.Broken(),
	}
	for _, id := range res.Files {
		f := fs.Get(id)
		if f == nil {
			continue
		}
		sum.FilePaths = append(sum.FilePaths, f.Path)
		sum.FileHashes = append(sum.FileHashes, project.Digest(f.Hash))
	}
	sum.Digest = project.Combine(key, sum.FileHashes...)
	if res.Module != nil {
		sum.Functions = res.Module.FunctionNames()
	}
	if res.Context != nil {
		sum.Oracles = res.Context.Oracles()
	}
	for _, d := range res.Bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			sum.Errors++
		case d.Severity == diag.SevWarning:
			sum.Warnings++
		}
	}
	return sum
}

// fresh reports whether every file recorded in sum still has its hash.
func (sum *CrateSummary) fresh() bool {
	if len(sum.FilePaths) == 0 || len(sum.FilePaths) != len(sum.FileHashes) {
		return false
	}
	for i, path := range sum.FilePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		if project.Digest(source.HashContent(content)) != sum.FileHashes[i] {
			return false
		}
	}
	return true
}
