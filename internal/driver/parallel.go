package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"waldo/internal/source"
	"waldo/internal/universe"
)

// Ext is the file extension of composition documents.
const Ext = ".wld"

// ListDocuments возвращает отсортированный список всех *.wld файлов в директории
func ListDocuments(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
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

// CheckDir checks every document under dir in parallel. Results are
// sorted by path.
func CheckDir(ctx context.Context, u universe.Universe, dir string, opts CheckOptions) ([]*CheckResult, error) {
	files, err := ListDocuments(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return CheckFiles(ctx, u, dir, files, opts)
}

// CheckFiles checks files in parallel, reporting paths relative to
// baseDir. Every document gets its own resolver state; u is shared and
// only read. Results keep the order of files.
func CheckFiles(ctx context.Context, u universe.Universe, baseDir string, files []string, opts CheckOptions) ([]*CheckResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Предзагружаем все файлы: FileSet не потокобезопасен на запись
	fileSet := source.NewFileSetWithBase(baseDir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	Logger().Debug("checking documents",
		zap.String("dir", baseDir),
		zap.Int("files", len(files)),
		zap.Int("jobs", jobs))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				results[i] = &CheckResult{Path: path, Err: fmt.Errorf("failed to load file: %w", loadErr)}
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: results[i].Err})
				return nil
			}

			start := time.Now()
			res, err := checkFile(gctx, u, fileSet, fileSet.Get(fileIDs[path]), opts)
			if err != nil {
				return err
			}
			results[i] = res

			evt := Event{File: path, Stage: StageResolve, Status: StatusDone, Elapsed: time.Since(start)}
			if res.Err != nil {
				evt.Status = StatusError
				evt.Err = res.Err
			}
			emit(opts.Progress, evt)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary counts failed and cached results.
func Summary(results []*CheckResult) (failed, cached int) {
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Failed() {
			failed++
		}
		if r.Cached {
			cached++
		}
	}
	return failed, cached
}
