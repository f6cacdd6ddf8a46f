package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// languageSeeds covers every statement and expression form plus the
// classic broken inputs (unclosed delimiters, stray characters).
var languageSeeds = []string{
	"",
	"let x = 1;",
	"let s = \"tab\\t\\u{1F600}\";",
	"fn fib(n) { if n < 2 { return n; } return fib(n - 1) + fib(n - 2); }",
	"for i in 0..10 { while true { break; } continue; }",
	"xs[0].name(a, b,) = -!y;",
	"let f = fn(a, b) { return [a, b]; };",
	"x += 1; x -= 2; x *= 3; x /= 4; x %= 5;",
	"/* block */ // line\nnil;",
	"(1 + 2",
	"[1, (2)",
	"f(1, 2",
	"{ let a = 1;",
	"1 $ 2 @ 3",
	"\"unterminated",
	"/* open comment",
	"let = ;",
	"1..2..3;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.ql файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ql" {
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
