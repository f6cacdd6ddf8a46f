package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"quill/internal/diag"
	"quill/internal/observ"
	"quill/internal/source"
	"quill/internal/trace"
)

// DefaultExtension is the source file extension CheckDir looks for.
const DefaultExtension = ".ql"

// FileResult is the check outcome of a single file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Status Status
	Bag    *diag.Bag
	// Err is a fatal load error; Status and Bag are meaningless when set.
	Err    error
	Cached bool
	Timing observ.Report
}

// CheckResult aggregates a CheckDir run. Files are sorted by path.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed counts files that did not parse or failed to load.
func (r *CheckResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil || r.Files[i].Status.Failed() {
			n++
		}
	}
	return n
}

// Timings sums per-file phase timings.
func (r *CheckResult) Timings() observ.Report {
	var total observ.Report
	for i := range r.Files {
		total.Add(r.Files[i].Timing)
	}
	return total
}

// Discover возвращает отсортированный список исходников в каталоге (скрытые каталоги пропускаются).
// Если root — файл, возвращается он сам независимо от расширения.
func Discover(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range exts {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir runs the pipeline on every source file under root in parallel.
// Each file gets its own bag, tokens and tree; the FileSet is filled before
// workers start and is only read afterwards. Diagnostics are not forwarded to
// opts.Reporter: callers render the per-file bags in path order.
func CheckDir(ctx context.Context, root string, opts Options) (*CheckResult, error) {
	files, err := Discover(root, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", root, err)
	}

	base := root
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}
	fileSet := source.NewFileSetWithBase(base)
	result := &CheckResult{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	tracer := trace.FromContext(ctx)
	dirSpan := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)
	defer dirSpan.End(fmt.Sprintf("%d files", len(files)))

	// FileSet не потокобезопасен: загружаем последовательно
	for i, path := range files {
		result.Files[i].Path = path
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			result.Files[i].Err = fmt.Errorf("load %s: %w", path, loadErr)
			continue
		}
		result.Files[i].FileID = id
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: ProgressQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range result.Files {
		if result.Files[i].Err != nil {
			emit(opts.Progress, Event{File: files[i], Stage: StageLoad, Status: ProgressError, Err: result.Files[i].Err})
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			checkOne(gctx, fileSet, &result.Files[i], dirSpan.ID(), opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func checkOne(ctx context.Context, fileSet *source.FileSet, fr *FileResult, parent uint64, opts Options) {
	start := time.Now()
	file := fileSet.Get(fr.FileID)
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+fr.Path, parent)

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor(file, opts.MaxDiagnostics, opts.CacheSalt)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			fr.Status, fr.Bag = replay(&payload, file, opts.MaxDiagnostics)
			fr.Cached = true
			fileSpan.End("cached")
			emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: finalProgress(fr.Status), Elapsed: time.Since(start)})
			return
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageLex, Status: ProgressWorking})
	timer := observ.NewTimer()
	fileOpts := opts
	fileOpts.Reporter = nil
	fileOpts.Timer = timer
	res := Run(trace.WithSpanContext(ctx, trace.SpanContext{SpanID: fileSpan.ID()}), file, fileOpts)

	fr.Status = res.Status
	fr.Bag = res.Bag
	fr.Timing = timer.Report()
	fileSpan.End(res.Status.String())

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, payloadFor(res)); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache-put", err.Error(), fileSpan.ID())
		}
	}

	stage := StageParse
	if res.Status == StatusLexFailed {
		stage = StageLex
	}
	emit(opts.Progress, Event{File: fr.Path, Stage: stage, Status: finalProgress(res.Status), Elapsed: time.Since(start)})
}

func finalProgress(s Status) Progress {
	if s.Failed() {
		return ProgressError
	}
	return ProgressDone
}
