package fsutil_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/fsutil"
)

func writeString(s string) fsutil.WriteFunc {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestBackupPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/lib.rs.bk", fsutil.BackupPath("src/lib.rs"))
	assert.Equal(t, "src/lib.rs.tmp", fsutil.TempPath("src/lib.rs"))
}

func TestReplaceWithBackup(t *testing.T) {
	t.Parallel()

	t.Run("replaces content and keeps one backup", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("fn a(){}"), 0o600))

		err := fsutil.ReplaceWithBackup(context.Background(), path, 0o600, writeString("fn a() {}\n"))
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fn a() {}\n", string(got))

		backup, err := os.ReadFile(fsutil.BackupPath(path))
		require.NoError(t, err)
		assert.Equal(t, "fn a(){}", string(backup))

		assert.NoFileExists(t, fsutil.TempPath(path))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("second overwrite replaces the backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

		ctx := context.Background()
		require.NoError(t, fsutil.ReplaceWithBackup(ctx, path, 0, writeString("v2")))
		require.NoError(t, fsutil.ReplaceWithBackup(ctx, path, 0, writeString("v3")))

		backup, err := os.ReadFile(fsutil.BackupPath(path))
		require.NoError(t, err)
		assert.Equal(t, "v2", string(backup))
	})

	t.Run("write failure leaves original untouched", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

		errBoom := errors.New("boom")
		err := fsutil.ReplaceWithBackup(context.Background(), path, 0, func(io.Writer) error { return errBoom })
		require.ErrorIs(t, err, errBoom)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
		assert.NoFileExists(t, fsutil.TempPath(path))
		assert.NoFileExists(t, fsutil.BackupPath(path))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lib.rs")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fsutil.ReplaceWithBackup(ctx, path, 0, writeString("x"))
		require.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, fsutil.TempPath(path))
	})
}

// Rename failures swap a package-level seam, so these tests do not run in parallel.
func TestReplaceWithBackupRenameFailures(t *testing.T) {
	errRename := errors.New("rename refused")

	t.Run("backup rename fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

		restore := fsutil.SetRenameFile(func(string, string) error { return errRename })
		defer restore()

		err := fsutil.ReplaceWithBackup(context.Background(), path, 0, writeString("new"))
		require.ErrorIs(t, err, errRename)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
		assert.NoFileExists(t, fsutil.TempPath(path))
	})

	t.Run("final rename fails and backup is restored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

		calls := 0
		restore := fsutil.SetRenameFile(func(oldpath, newpath string) error {
			calls++
			if calls == 2 {
				return errRename
			}
			return os.Rename(oldpath, newpath)
		})
		defer restore()

		err := fsutil.ReplaceWithBackup(context.Background(), path, 0, writeString("new"))
		require.ErrorIs(t, err, errRename)
		require.NotErrorIs(t, err, fsutil.ErrReplaceIncomplete)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
	})

	t.Run("final rename and restore both fail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lib.rs")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

		calls := 0
		restore := fsutil.SetRenameFile(func(oldpath, newpath string) error {
			calls++
			if calls >= 2 {
				return errRename
			}
			return os.Rename(oldpath, newpath)
		})
		defer restore()

		err := fsutil.ReplaceWithBackup(context.Background(), path, 0, writeString("new"))
		require.ErrorIs(t, err, fsutil.ErrReplaceIncomplete)
		assert.Contains(t, err.Error(), fsutil.BackupPath(path))

		backup, err := os.ReadFile(fsutil.BackupPath(path))
		require.NoError(t, err)
		assert.Equal(t, "original", string(backup))
	})
}
