package project

import (
	"bytes"
	"strconv"
	"unicode"

	"fortio.org/safecast"

	"macrofront/internal/source"
)

// SourceExt is the extension of source files.
const SourceExt = ".mf"

type DepMeta struct {
	Name string
	Span source.Span
}

// CrateMeta is what the scheduler needs to know about a crate.
type CrateMeta struct {
	Name   string
	Root   string // absolute path of the root file
	Stdlib bool
	Span   source.Span // `name = "..."` in the manifest
	Deps   []DepMeta
}

func IsValidCrateName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CrateMetas lists the manifest's crates with spans into the manifest file,
// which must be loaded as file id in a FileSet with the given content.
func (m *Manifest) CrateMetas(file source.FileID, content []byte) []CrateMeta {
	out := make([]CrateMeta, 0, len(m.Config.Crates))
	from := 0
	for _, c := range m.Config.Crates {
		meta := CrateMeta{Name: c.Name, Root: m.CrateRoot(c), Stdlib: c.Stdlib}
		meta.Span, from = quotedSpan(file, content, c.Name, from)
		depFrom := from
		for _, d := range c.Deps {
			var sp source.Span
			sp, depFrom = quotedSpan(file, content, d, depFrom)
			meta.Deps = append(meta.Deps, DepMeta{Name: d, Span: sp})
		}
		out = append(out, meta)
	}
	return out
}

// quotedSpan ищет "needle" начиная с from; не нашли: span на весь файл.
func quotedSpan(file source.FileID, content []byte, needle string, from int) (source.Span, int) {
	q := []byte(strconv.Quote(needle))
	if from > len(content) {
		from = len(content)
	}
	i := bytes.Index(content[from:], q)
	if i < 0 {
		return source.Span{File: file}, from
	}
	start := from + i
	end := start + len(q)
	s, err1 := safecast.Conv[uint32](start)
	e, err2 := safecast.Conv[uint32](end)
	if err1 != nil || err2 != nil {
		return source.Span{File: file}, from
	}
	return source.Span{File: file, Start: s, End: e}, end
}
