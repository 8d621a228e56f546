package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths holds the config file found at each level. Empty means none.
type ConfigPaths struct {
	// System is /etc/rsfmt/<name>, or %ProgramData%\rsfmt\<name> on Windows.
	System string

	// User is $XDG_CONFIG_HOME/rsfmt/<name>.
	User string

	// Project is the nearest rsfmt.toml (or dotfile variant) above the
	// working directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

//nolint:gochecknoglobals // read-only lookup tables
var (
	// projectConfigFiles in order of preference.
	projectConfigFiles = []string{"rsfmt.toml", ".rsfmt.toml", ".rsfmt.yml", ".rsfmt.yaml"}

	// dirConfigFiles are looked up in the system and user directories.
	dirConfigFiles = []string{"rsfmt.toml", "config.toml", "config.yaml", "config.yml"}

	// vcsRootMarkers end the upward project search.
	vcsRootMarkers = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user and project config files for
// workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirConfigFiles),
		Project: project,
	}
	if dir, err := userConfigDir(); err == nil {
		paths.User = firstFile(dir, dirConfigFiles)
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/rsfmt"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "rsfmt")
}

func userConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rsfmt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rsfmt"), nil
}

// FindProjectConfig walks up from startDir (default: the current directory)
// and returns the first project config file it sees. The walk stops after
// the first directory that is a VCS root or the home directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir() //nolint:errcheck // no home means no home stop

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if path := firstFile(dir, projectConfigFiles); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc(vcsRootMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// IsYAMLConfig reports whether path names a YAML config file.
func IsYAMLConfig(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
