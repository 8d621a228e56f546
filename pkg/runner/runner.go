package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/fsutil"
	"github.com/yaklabco/rsfmt/pkg/rewrite"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// Runner formats sets of files in one session.
type Runner struct {
	stdout io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout sets the writer used by the display write mode. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{stdout: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// loaded is a file read from disk and, once its turn comes, parsed.
type loaded struct {
	snap   *fsutil.Snapshot
	source *syntax.SourceFile
	file   *syntax.File
}

// Run discovers files under opts.Paths and formats them.
//
// The runner:
//   - Reads the discovered files concurrently, skipping generated ones
//   - Loads them into one source map in path order and parses them concurrently
//   - Formats every parsed file with a single visitor session
//   - Applies opts.Mode to the formatted files
//
// Per-file failures are recorded in the outcome and do not stop the run.
// A failure to write output ends the run with an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, len(files))}
	result.Stats.FilesDiscovered = len(files)
	for i, path := range files {
		result.Files[i].Path = path
	}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	state := make([]loaded, len(files))
	if err := r.read(ctx, result, state, jobs, opts.IncludeVendored); err != nil {
		return result, err
	}

	sm := syntax.NewSourceMap()
	for i := range state {
		if result.Files[i].Error != nil || result.Files[i].Skipped {
			continue
		}
		state[i].source = sm.AddFile(files[i], result.Files[i].Source)
	}
	if err := parseAll(ctx, result, state, jobs); err != nil {
		return result, err
	}

	cs := changes.FromSourceMap(sm,
		changes.WithNewlineStyle(cfg.NewlineStyle),
		changes.WithStdout(r.stdout))
	visitor := rewrite.NewVisitor(cfg, sm, cs, rewrite.WithLogger(logger))

	var formatted []int
	for i := range state {
		if state[i].file == nil {
			continue
		}
		outcome := &result.Files[i]
		if err := visitor.FormatFile(state[i].file); err != nil {
			outcome.Error = err
			logger.Error("format failed", logging.FieldPath, outcome.Path, logging.FieldError, err)
			continue
		}
		out, err := cs.Finalize(ctx, outcome.Path, changes.WriteMode{Kind: changes.Return})
		if err != nil {
			outcome.Error = err
			continue
		}
		outcome.Output = out
		outcome.Changed = out != outcome.Source
		formatted = append(formatted, i)
	}

	err = r.apply(ctx, cs, result, state, formatted, opts.Mode, jobs)
	result.tally()

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesFormatted,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFilesFailed, result.Stats.FilesErrored)

	return result, err
}

// read loads every file concurrently. Read failures are recorded per file.
func (r *Runner) read(ctx context.Context, result *Result, state []loaded, jobs int, includeGenerated bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range result.Files {
		g.Go(func() error {
			outcome := &result.Files[i]
			src, snap, err := fsutil.ReadFile(gctx, outcome.Path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outcome.Error = err
				return nil
			}
			outcome.Source = src
			state[i].snap = snap
			if !includeGenerated && enry.IsGenerated(outcome.Path, []byte(src)) {
				outcome.Skipped = true
				outcome.SkipReason = SkipGenerated
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return nil
}

// parseAll parses every loaded file concurrently. Syntax errors are recorded per file.
func parseAll(ctx context.Context, result *Result, state []loaded, jobs int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range state {
		if state[i].source == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := syntax.Parse(state[i].source)
			if err != nil {
				result.Files[i].Error = err
				return nil
			}
			state[i].file = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return nil
}

// apply sends the formatted files to their destination. Overwrite only
// touches changed files and skips any file modified since it was read.
// NewFile writes every formatted file so each input has an output.
func (r *Runner) apply(
	ctx context.Context,
	cs *changes.ChangeSet,
	result *Result,
	state []loaded,
	formatted []int,
	mode changes.WriteMode,
	jobs int,
) error {
	if mode.Kind == changes.Return {
		return nil
	}

	logger := logging.FromContext(ctx)
	targets := make([]int, 0, len(formatted))
	for _, i := range formatted {
		outcome := &result.Files[i]
		if mode.Kind != changes.Overwrite {
			targets = append(targets, i)
			continue
		}
		if !outcome.Changed {
			continue
		}
		modified, err := state[i].snap.Changed(ctx)
		if err != nil {
			outcome.Error = err
			continue
		}
		if modified {
			outcome.Skipped = true
			outcome.SkipReason = SkipModified
			logger.Warn("skipping file modified during run", logging.FieldPath, outcome.Path)
			continue
		}
		targets = append(targets, i)
	}

	names := make([]string, len(targets))
	for n, i := range targets {
		names[n] = result.Files[i].Path
	}
	logger.Debug("writing output",
		logging.FieldMode, mode.String(),
		logging.FieldFiles, len(names),
		logging.FieldJobs, jobs)

	if _, err := cs.FinalizeEach(ctx, names, mode, jobs); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if mode.Kind == changes.Display {
		return nil
	}
	for _, i := range targets {
		result.Files[i].Written = true
	}
	return nil
}
