package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hush/internal/logx"
	"hush/internal/observ"
	"hush/internal/project"
	"hush/internal/source"
	"hush/internal/storage"
	"hush/internal/strip"
)

// StripOptions configures StripPaths.
type StripOptions struct {
	Mode strip.Mode
	// Jobs <= 1 processes files one after another in list order.
	Jobs   int
	Store  storage.Store
	Sink   ProgressSink
	Cache  *CleanCache
	Logger *logx.Logger
}

// StripResult captures the outcome for a single file.
type StripResult struct {
	Path        string
	Changed     bool
	Skipped     bool
	Stats       strip.Stats
	LinesBefore int
	LinesAfter  int
	Err         error
	Timing      observ.Report
}

// StripPaths strips every path and rewrites the files that changed.
//
// With Jobs <= 1 the first failing file ends the run: the returned results
// cover the files processed so far, the failed one included. With Jobs > 1
// files run concurrently and a failure cancels the files not yet started;
// results always follow the order of paths. The returned error is the first
// file error, or the context error.
func StripPaths(ctx context.Context, paths []string, opts StripOptions) ([]StripResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("strip: no target files")
	}
	if opts.Store == nil {
		opts.Store = storage.NewAFS()
	}
	if opts.Logger == nil {
		opts.Logger = logx.Discard()
	}

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Status: StatusQueued})
	}

	fileSet := source.NewFileSet()
	if opts.Jobs <= 1 {
		results := make([]StripResult, 0, len(paths))
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res := stripOne(ctx, fileSet, path, &opts)
			results = append(results, res)
			if res.Err != nil {
				return results, res.Err
			}
		}
		return results, nil
	}

	results := make([]StripResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = StripResult{Path: path, Err: err}
				return nil
			}
			results[i] = stripOne(gctx, fileSet, path, &opts)
			return results[i].Err
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

func stripOne(ctx context.Context, fileSet *source.FileSet, path string, opts *StripOptions) StripResult {
	res := StripResult{Path: path}
	log := opts.Logger.With("path", path)
	timer := observ.NewTimer()
	started := time.Now()

	fail := func(stage Stage, err error) StripResult {
		res.Err = err
		res.Timing = timer.Report()
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		log.Debug("strip failed", "stage", stage, "err", err)
		return res
	}

	emit(opts.Sink, Event{File: path, Stage: StageRead, Status: StatusWorking})
	idx := timer.Begin(string(StageRead))
	raw, err := opts.Store.Read(ctx, path)
	timer.End(idx, "")
	if err != nil {
		return fail(StageRead, err)
	}
	file := fileSet.Get(fileSet.Decode(path, raw))
	res.LinesBefore = file.LineCount()
	res.LinesAfter = res.LinesBefore

	key := CacheKey(path, opts.Mode.String())
	if opts.Cache != nil {
		clean, cacheErr := opts.Cache.IsClean(key, project.Digest(file.Hash))
		if cacheErr != nil {
			log.Warn("clean cache lookup failed", "err", cacheErr)
		} else if clean {
			res.Skipped = true
			res.Timing = timer.Report()
			emit(opts.Sink, Event{File: path, Stage: StageRead, Status: StatusSkipped, Elapsed: time.Since(started)})
			log.Debug("already clean, skipping")
			return res
		}
	}

	emit(opts.Sink, Event{File: path, Stage: StageStrip, Status: StatusWorking})
	idx = timer.Begin(string(StageStrip))
	out, stats := strip.Apply(opts.Mode, string(file.Content))
	timer.End(idx, fmt.Sprintf("%d removed", stats.Removed()))
	res.Stats = stats

	stripped := file
	if out != string(file.Content) {
		// Encode may rewrite line endings the stripper never touched, so
		// only a changed text reaches storage.
		stripped = fileSet.Get(fileSet.Add(path, []byte(out), file.Flags))
		emit(opts.Sink, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		idx = timer.Begin(string(StageWrite))
		err = opts.Store.Write(ctx, path, file.Encode(stripped.Content))
		timer.End(idx, "")
		if err != nil {
			return fail(StageWrite, err)
		}
		res.Changed = true
	}
	res.LinesAfter = stripped.LineCount()

	if opts.Cache != nil {
		entry := &CleanEntry{Path: path, Mode: opts.Mode.String(), Hash: project.Digest(stripped.Hash)}
		if err := opts.Cache.Put(key, entry); err != nil {
			log.Warn("clean cache update failed", "err", err)
		}
	}

	res.Timing = timer.Report()
	emit(opts.Sink, Event{File: path, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(started)})
	log.Debug("stripped",
		"changed", res.Changed,
		"hash", stripped.HashHex(),
		"standalone", stats.Standalone,
		"inline", stats.Inline,
		"catch", stats.Catch,
		"collapsed", stats.Collapsed,
	)
	return res
}

// Totals sums stats over results.
func Totals(results []StripResult) (total strip.Stats, changed, skipped, failed int) {
	for _, r := range results {
		total.Add(r.Stats)
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		case r.Changed:
			changed++
		}
	}
	return total, changed, skipped, failed
}

func isURL(path string) bool {
	return strings.Contains(path, "://")
}
