package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"macrofront/internal/macros/assertmsg"
	"macrofront/internal/project"
)

const maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса

var languageSeeds = []string{
	"",
	"fn main() {}\n",
	"pub fn hash(x: Field) -> Field { x }\n",
	"use dep::std::hash::{pedersen, poseidon as p2, field::*};\npub use crate::util::helper;\n",
	"pub struct Pair<T> { pub a: T, b: Field }\nglobal LIMIT: u32 = 1 << 4;\npub mod hash;\n",
	"fn f(xs: [Field; 3]) -> (Field, bool) {\n    let mut acc = 0;\n    for i in 0..3 { acc = acc + xs[i]; }\n    (acc, acc == 0)\n}\n",
	"#[oracle(print)]\nunconstrained fn print_oracle<T>(_x: T) {}\n",
	"fn g(c: bool) -> Field { if c { 1 } else { 2 } }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	f.Add([]byte(assertmsg.Source))
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != project.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
