package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/parser"
	"macrofront/internal/project"
	"macrofront/internal/source"
)

// fileLoader resolves `mod name;` to <dir>/name.mf or <dir>/name/mod.mf
// next to the parent file. Sub-files are parsed without macro processing.
type fileLoader struct {
	fs       *source.FileSet
	reporter diag.Reporter
	maxErrs  uint

	mu     sync.Mutex
	loaded []source.FileID
}

func (l *fileLoader) LoadSubmodule(ctx context.Context, parent source.FileID, name string) (*ast.Module, source.FileID, error) {
	pf := l.fs.Get(parent)
	if pf == nil {
		return nil, 0, fmt.Errorf("parent file %d is not loaded", parent)
	}
	dir := filepath.Dir(pf.Path)
	candidates := []string{
		filepath.Join(dir, name+project.SourceExt),
		filepath.Join(dir, name, "mod"+project.SourceExt),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, 0, err
		}
		// один и тот же путь: тот же FileID, чтобы Collect заметил повторную загрузку
		id, ok := l.fs.GetLatest(path)
		if !ok {
			var err error
			if id, err = l.fs.Load(path); err != nil {
				return nil, 0, err
			}
		}
		l.record(id)
		res := parser.ParseFile(ctx, l.fs, id, parser.Options{Reporter: l.reporter, MaxErrors: l.maxErrs})
		return res.Module.IntoSorted(), id, nil
	}
	return nil, 0, fmt.Errorf("neither %s nor %s exists", candidates[0], candidates[1])
}

func (l *fileLoader) record(id source.FileID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, seen := range l.loaded {
		if seen == id {
			return
		}
	}
	l.loaded = append(l.loaded, id)
}

func (l *fileLoader) files() []source.FileID {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]source.FileID, len(l.loaded))
	copy(out, l.loaded)
	return out
}
