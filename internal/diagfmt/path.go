package diagfmt

import "macrofront/internal/source"

const snippetPath = "<snippet>"

// displayPath renders the file of span per mode; spans outside fs (macro
// snippets) get a placeholder.
func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil {
		return snippetPath
	}
	f := fs.Get(id)
	if f == nil {
		return snippetPath
	}
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeAbsolute, PathModeBasename, PathModeAuto:
		return f.FormatPath(mode.String(), "")
	}
	return f.Path
}
