package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quill/internal/diagfmt"
)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnEvent(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func sampleTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"a.ql":          "let a = 1;",
		"b.ql":          "let b = 1 $ 2;",
		"sub/c.ql":      "fn c(x) { return x",
		"notes.txt":     "not quill",
		".hidden/d.ql":  "$$$",
		"sub/deep/e.ql": "while true { break; }",
	})
}

func shortOf(t *testing.T, res *CheckResult) string {
	t.Helper()
	var buf bytes.Buffer
	for _, fr := range res.Files {
		require.NoError(t, diagfmt.Short(&buf, fr.Bag, res.FileSet))
	}
	return buf.String()
}

func TestCheckDirSortedResults(t *testing.T) {
	root := sampleTree(t)
	log := &eventLog{}

	res, err := CheckDir(context.Background(), root, Options{Jobs: 2, Progress: log})
	require.NoError(t, err)
	require.Len(t, res.Files, 4)

	var rel []string
	for _, fr := range res.Files {
		r, relErr := filepath.Rel(root, fr.Path)
		require.NoError(t, relErr)
		rel = append(rel, filepath.ToSlash(r))
		require.NoError(t, fr.Err)
	}
	require.Equal(t, []string{"a.ql", "b.ql", "sub/c.ql", "sub/deep/e.ql"}, rel)

	require.Equal(t, StatusParsed, res.Files[0].Status)
	require.Equal(t, StatusLexFailed, res.Files[1].Status)
	require.Equal(t, StatusParseFailed, res.Files[2].Status)
	require.Equal(t, StatusParsed, res.Files[3].Status)
	require.Equal(t, 2, res.Failed())

	require.Equal(t, 1, res.Files[1].Bag.Len())
	require.NotEmpty(t, res.Files[0].Timing.Phases)
	require.NotEmpty(t, res.Timings().Phases)

	final := 0
	for _, e := range log.events {
		if e.Status == ProgressDone || e.Status == ProgressError {
			final++
		}
	}
	require.Equal(t, 4, final)
}

func TestCheckDirMatchesSequentialRun(t *testing.T) {
	root := sampleTree(t)
	parallel, err := CheckDir(context.Background(), root, Options{Jobs: 4})
	require.NoError(t, err)
	serial, err := CheckDir(context.Background(), root, Options{Jobs: 1})
	require.NoError(t, err)
	require.Equal(t, shortOf(t, serial), shortOf(t, parallel))
}

func TestCheckDirSingleFileAndExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.script": "let x = [1, 2];",
		"other.ql":    "let y = 2;",
	})

	res, err := CheckDir(context.Background(), filepath.Join(root, "main.script"), Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, StatusParsed, res.Files[0].Status)

	res, err = CheckDir(context.Background(), root, Options{Extensions: []string{".script"}})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "main.script", filepath.Base(res.Files[0].Path))
}

func TestCheckDirLoadErrorIsPerFile(t *testing.T) {
	root := writeTree(t, map[string]string{"good.ql": "let a = 1;"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.ql"), []byte{0xff}, 0o600))

	res, err := CheckDir(context.Background(), root, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	require.Error(t, res.Files[0].Err)
	require.NoError(t, res.Files[1].Err)
	require.Equal(t, 1, res.Failed())
}

func TestCheckDirMissingRoot(t *testing.T) {
	_, err := CheckDir(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckDirCanceled(t *testing.T) {
	root := sampleTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckDir(ctx, root, Options{Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckDirCacheReplay(t *testing.T) {
	root := sampleTree(t)
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := Options{Cache: cache, CacheSalt: "test"}

	first, err := CheckDir(context.Background(), root, opts)
	require.NoError(t, err)
	for _, fr := range first.Files {
		require.False(t, fr.Cached)
	}

	second, err := CheckDir(context.Background(), root, opts)
	require.NoError(t, err)
	for i, fr := range second.Files {
		require.True(t, fr.Cached, fr.Path)
		require.Equal(t, first.Files[i].Status, fr.Status)
	}
	require.Equal(t, shortOf(t, first), shortOf(t, second))

	opts.CacheSalt = "other"
	third, err := CheckDir(context.Background(), root, opts)
	require.NoError(t, err)
	require.False(t, third.Files[0].Cached)

	require.NoError(t, cache.DropAll())
	fourth, err := CheckDir(context.Background(), root, Options{Cache: cache, CacheSalt: "test"})
	require.NoError(t, err)
	require.False(t, fourth.Files[0].Cached)
}

func TestCheckDirRepositoryTestdata(t *testing.T) {
	res, err := CheckDir(context.Background(), filepath.Join("..", "..", "testdata"), Options{Jobs: 2})
	require.NoError(t, err)

	got := map[string]Status{}
	for _, fr := range res.Files {
		require.NoError(t, fr.Err)
		got[filepath.ToSlash(fr.Path)] = fr.Status
	}
	want := map[string]Status{
		"ok/closures.ql":     StatusParsed,
		"ok/fib.ql":          StatusParsed,
		"broken/lex.ql":      StatusLexFailed,
		"broken/unclosed.ql": StatusParseFailed,
	}
	require.Len(t, got, len(want))
	for suffix, status := range want {
		found := false
		for path, st := range got {
			if strings.HasSuffix(path, suffix) {
				require.Equal(t, status, st, path)
				found = true
			}
		}
		require.True(t, found, suffix)
	}
}
