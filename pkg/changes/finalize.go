package changes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/rsfmt/pkg/fsutil"
)

// Finalize renders the named file's buffer to the destination chosen by
// mode. The rendered text is returned only in Return mode.
func (cs *ChangeSet) Finalize(ctx context.Context, name string, mode WriteMode) (string, error) {
	buf, err := cs.buffer(name)
	if err != nil {
		return "", err
	}
	text := buf.String()
	write := func(w io.Writer) error {
		return writeText(w, text, cs.newline)
	}

	switch mode.Kind {
	case Overwrite:
		if err := fsutil.ReplaceWithBackup(ctx, name, filePerm(name), write); err != nil {
			return "", fmt.Errorf("overwrite %s: %w", name, err)
		}
		return "", nil

	case NewFile:
		ext := mode.Extension
		if ext == "" {
			ext = DefaultExtension
		}
		path := name + "." + ext
		if err := fsutil.WriteAtomicFunc(ctx, path, filePerm(name), write); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return "", nil

	case Display:
		out := bufio.NewWriter(cs.stdout)
		_, _ = out.WriteString(name + ":\n\n")
		if err := write(out); err != nil {
			return "", fmt.Errorf("display %s: %w", name, err)
		}
		if err := out.Flush(); err != nil {
			return "", fmt.Errorf("display %s: %w", name, err)
		}
		return "", nil

	case Return:
		var b strings.Builder
		b.Grow(len(text))
		if err := write(&b); err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

// filePerm returns the permission bits of an existing file, or 0 to select
// the default mode.
func filePerm(name string) os.FileMode {
	stat, err := os.Stat(name)
	if err != nil {
		return 0
	}
	return stat.Mode().Perm()
}

// FinalizeAll finalizes every file in sorted name order and stops at the
// first error. Files finalized before the error stay written. In Return
// mode the result maps each file name to its rendered text; otherwise it
// is nil.
func (cs *ChangeSet) FinalizeAll(ctx context.Context, mode WriteMode) (map[string]string, error) {
	return cs.FinalizeEach(ctx, cs.Files(), mode, 1)
}

// FinalizeEach finalizes the named files using up to jobs concurrent
// writers. Display and Return modes always run sequentially in the given
// order. The first error cancels the files not yet started.
func (cs *ChangeSet) FinalizeEach(
	ctx context.Context, names []string, mode WriteMode, jobs int,
) (map[string]string, error) {
	var results map[string]string
	if mode.Kind == Return {
		results = make(map[string]string, len(names))
	}

	if mode.Sequential() || jobs <= 1 {
		for _, name := range names {
			text, err := cs.Finalize(ctx, name, mode)
			if err != nil {
				return results, err
			}
			if results != nil {
				results[name] = text
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, name := range names {
		g.Go(func() error {
			_, err := cs.Finalize(gctx, name, mode)
			return err
		})
	}
	return nil, g.Wait()
}
