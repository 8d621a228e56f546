package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
)

// cacheDirTag marks build output directories, e.g. Cargo's target/.
const cacheDirTag = "CACHEDIR.TAG"

// discoverer collects the files of one Discover call.
type discoverer struct {
	opts       Options
	workDir    string
	extensions []string
	seen       map[string]struct{}
	files      []string
}

// Discover finds source files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
//
// Hidden entries are never visited. Unless opts.IncludeVendored is set,
// vendored directories (as classified by go-enry) and build output
// directories carrying a CACHEDIR.TAG file are skipped too. A file named
// explicitly in opts.Paths is still subject to the extension and glob
// filters.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			d.consider(path)
			continue
		}
		if err := d.walk(ctx, path); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// rel returns path relative to the working directory in slash form.
func (d *discoverer) rel(path string) string {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// consider adds path when it passes the extension and glob filters.
func (d *discoverer) consider(path string) {
	if !hasMatchingExtension(path, d.extensions) {
		return
	}

	relPath := d.rel(path)
	if matchesExcludePattern(relPath, d.opts.ExcludeGlobs) {
		return
	}
	if len(d.opts.IncludeGlobs) > 0 && !matchesAnyPattern(relPath, d.opts.IncludeGlobs) {
		return
	}

	if _, dup := d.seen[path]; dup {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// walk visits root recursively. Unreadable directories are skipped.
func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if path != root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case entry.IsDir():
			if path != root && d.skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return d.symlink(ctx, path)
		default:
			d.consider(path)
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// skipDir reports whether a directory below a walk root is left out.
func (d *discoverer) skipDir(path string) bool {
	relPath := d.rel(path)
	if matchesExcludePattern(relPath, d.opts.ExcludeGlobs) {
		return true
	}
	if d.opts.IncludeVendored {
		return false
	}
	if enry.IsVendor(relPath + "/") {
		return true
	}
	_, err := os.Stat(filepath.Join(path, cacheDirTag))
	return err == nil
}

// symlink handles a link found while walking. Links to files are treated as
// files; links to directories are walked through their target only when
// FollowSymlinks is set. Walking the target rather than the link keeps
// WalkDir, which does not follow links, from looping. Broken links are
// ignored.
func (d *discoverer) symlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // inaccessible targets are skipped
	}

	if !info.IsDir() {
		d.consider(path)
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	return d.walk(ctx, target)
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// matchesExcludePattern checks if the path or one of its parent directories
// matches any exclude pattern, so "target" excludes everything below it.
func matchesExcludePattern(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for p := relPath; p != "." && p != ""; p = parentDir(p) {
		if matchesAnyPattern(p, patterns) {
			return true
		}
	}
	return false
}

func parentDir(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// matchesAnyPattern checks if the path matches any of the patterns.
func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a doublestar
// pattern such as "src/**/*.rs" or "target/**". A pattern without a slash
// also matches the base name, so "*_gen.rs" works at any depth.
func matchGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err := doublestar.Match(pattern, filepath.Base(path))
		return err == nil && ok
	}
	return false
}
