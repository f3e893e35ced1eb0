package driver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/observ"
	"waldo/internal/project"
	"waldo/internal/resolve"
	"waldo/internal/source"
	"waldo/internal/universe"
)

type CheckOptions struct {
	// Cache is consulted before parsing and updated afterwards. Nil
	// disables caching.
	Cache *DiskCache
	// Jobs limits CheckDir's parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Progress receives CheckDir events. May be nil.
	Progress ProgressSink
}

// CheckResult is the outcome of checking one document. Err is the
// rewritten pipeline error, if any; Document is nil when Err is set.
type CheckResult struct {
	Path     string
	Document *document.Document
	Err      error
	Cached   bool
	Timing   observ.Report
	// FileSet holds the document's source, for rendering Err.
	FileSet *source.FileSet
}

// Failed reports whether the document has an error.
func (r *CheckResult) Failed() bool {
	return r != nil && r.Err != nil
}

// Check lexes, parses and resolves the document at path. Pipeline errors
// land in CheckResult.Err; the returned error is for I/O failures and
// cancellation.
func Check(ctx context.Context, u universe.Universe, path string, opts CheckOptions) (*CheckResult, error) {
	if u == nil {
		return nil, errors.New("check: no universe")
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}
	return checkFile(ctx, u, fs, fs.Get(fileID), opts)
}

func checkFile(ctx context.Context, u universe.Universe, fs *source.FileSet, file *source.File, opts CheckOptions) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := Logger().With(zap.String("path", file.Path))
	timer := observ.NewTimer()
	res := &CheckResult{Path: file.Path, FileSet: fs}

	key, cacheable := cacheKey(file, u)
	cacheable = cacheable && opts.Cache != nil
	if cacheable {
		idx := timer.Begin("cache")
		hit, err := loadCached(opts.Cache, key, fs, file, res)
		timer.End(idx, hitNote(hit))
		if err != nil {
			log.Warn("cache read failed", zap.Error(err))
		}
		if hit {
			log.Debug("cache hit", zap.Stringer("key", key))
			res.Cached = true
			res.Timing = timer.Report()
			return res, nil
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	idx := timer.Begin("lex+parse")
	parsed := parseFile(fs, file)
	timer.End(idx, "")

	if parsed.Err != nil {
		res.Err = parsed.Err
	} else {
		emit(opts.Progress, Event{File: file.Path, Stage: StageResolve, Status: StatusWorking})
		idx = timer.Begin("resolve")
		doc, err := resolve.Resolve(parsed.Builder, parsed.FileID, u)
		timer.End(idx, "")
		if err != nil {
			res.Err = diag.Rewrite(err, fs)
		} else {
			res.Document = doc
		}
	}
	res.Timing = timer.Report()

	if res.Err != nil {
		log.Debug("check failed", zap.Error(res.Err))
	}
	if cacheable {
		if err := storeCached(opts.Cache, key, res); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	return res, nil
}

func loadCached(c *DiskCache, key project.Digest, fs *source.FileSet, file *source.File, res *CheckResult) (bool, error) {
	var payload DiskPayload
	hit, err := c.Get(key, &payload)
	if err != nil || !hit {
		return false, err
	}
	if payload.Broken {
		if payload.Error == nil {
			return false, errCorruptPayload
		}
		res.Err = diag.Rewrite(diskPayloadToError(&payload, file.ID), fs)
		return true, nil
	}
	doc, err := diskPayloadToDocument(&payload)
	if err != nil {
		return false, err
	}
	res.Document = doc
	return true, nil
}

func storeCached(c *DiskCache, key project.Digest, res *CheckResult) error {
	if res.Document != nil {
		return c.Put(key, documentToDiskPayload(res.Path, res.Document))
	}
	var e *diag.Error
	if !errors.As(res.Err, &e) {
		return nil
	}
	return c.Put(key, errorToDiskPayload(res.Path, e))
}

func hitNote(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
