package fsutil

// SetRenameFile replaces the rename primitive and returns a restore func.
func SetRenameFile(fn func(oldpath, newpath string) error) func() {
	saved := renameFile
	renameFile = fn
	return func() { renameFile = saved }
}
