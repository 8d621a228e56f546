package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	// TempSuffix names the staging file written next to an overwritten file.
	TempSuffix = ".tmp"

	// BackupSuffix names the file that keeps the previous content after an overwrite.
	BackupSuffix = ".bk"
)

// ErrReplaceIncomplete indicates the original was moved to its backup but the
// new content could not be moved into place.
var ErrReplaceIncomplete = errors.New("replacement incomplete")

// renameFile is swapped out by tests to inject rename failures.
//
//nolint:gochecknoglobals // Test seam for failure injection
var renameFile = os.Rename

// TempPath returns the staging path used when overwriting path.
func TempPath(path string) string {
	return path + TempSuffix
}

// BackupPath returns the backup path kept after overwriting path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// ReplaceWithBackup overwrites path with content produced by write:
//  1. Stream the content into path.tmp.
//  2. Rename path to path.bk, replacing any earlier backup.
//  3. Rename path.tmp to path.
//
// A failure in step 1 or 2 removes the staging file and leaves path untouched.
// A failure in step 3 tries to move the backup back into place; if that also
// fails the error wraps ErrReplaceIncomplete and names both files.
func ReplaceWithBackup(ctx context.Context, path string, mode os.FileMode, write WriteFunc) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("replace %s: %w", path, ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath := TempPath(path)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}

	if err := fillAndClose(tmp, mode, write); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	backupPath := BackupPath(path)
	if err := renameFile(path, backupPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("back up %s: %w", path, err)
	}

	if err := renameFile(tmpPath, path); err != nil {
		if restoreErr := renameFile(backupPath, path); restoreErr != nil {
			return fmt.Errorf("%w: original kept at %s, new content at %s: %w",
				ErrReplaceIncomplete, backupPath, tmpPath, err)
		}
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move %s into place: %w", tmpPath, err)
	}

	return nil
}
