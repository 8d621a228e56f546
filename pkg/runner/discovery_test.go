package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

// tree creates the given files under a fresh temp directory and returns it.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func abs(dir string, names ...string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, filepath.FromSlash(name))
	}
	return paths
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"main.rs": "fn main() {}\n"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"main.rs"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "main.rs"), files)
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"src/main.rs":       "",
		"src/lib.rs":        "",
		"src/net/tcp.rs":    "",
		"README.md":         "",
		"Cargo.toml":        "",
		"build.RS":          "",
		".hidden/secret.rs": "",
		"src/.cache.rs":     "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "build.RS", "src/lib.rs", "src/main.rs", "src/net/tcp.rs"), files)
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"a.rs":     "",
		"b.rs.in":  "",
		"c.inc.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".in"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "b.rs.in"), files)
}

func TestDiscover_Globs(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"src/main.rs":          "",
		"src/gen/schema.rs":    "",
		"src/api_gen.rs":       "",
		"target/debug/out.rs":  "",
		"benches/bench.rs":     "",
		"src/deep/x/y/leaf.rs": "",
	})

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "exclude directory by name",
			exclude: []string{"target"},
			want:    []string{"benches/bench.rs", "src/api_gen.rs", "src/deep/x/y/leaf.rs", "src/gen/schema.rs", "src/main.rs"},
		},
		{
			name:    "exclude doublestar subtree",
			exclude: []string{"target/**", "src/gen/**"},
			want:    []string{"benches/bench.rs", "src/api_gen.rs", "src/deep/x/y/leaf.rs", "src/main.rs"},
		},
		{
			name:    "exclude base name at any depth",
			exclude: []string{"*_gen.rs", "target"},
			want:    []string{"benches/bench.rs", "src/deep/x/y/leaf.rs", "src/gen/schema.rs", "src/main.rs"},
		},
		{
			name:    "include only",
			include: []string{"src/**/*.rs"},
			exclude: []string{"src/deep/**"},
			want:    []string{"src/api_gen.rs", "src/gen/schema.rs", "src/main.rs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				IncludeGlobs: tt.include,
				ExcludeGlobs: tt.exclude,
			})
			require.NoError(t, err)
			assert.Equal(t, abs(dir, tt.want...), files)
		})
	}
}

func TestDiscover_Vendored(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"src/main.rs":              "",
		"vendor/serde/src/lib.rs":  "",
		"third_party/zlib/lib.rs":  "",
		"src/vendor/inner/mod.rs":  "",
		"crates/core/src/lib.rs":   "",
		"node_modules/pkg/wasm.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "crates/core/src/lib.rs", "src/main.rs"), files)

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:      dir,
		IncludeVendored: true,
	})
	require.NoError(t, err)
	assert.Len(t, files, 6)
}

func TestDiscover_SkipsBuildOutput(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"src/lib.rs":                    "",
		"target/CACHEDIR.TAG":           "Signature: 8a477f597d28d172789f06886806bc55\n",
		"target/debug/build/out/gen.rs": "",
		"crates/target/demo.rs":         "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "crates/target/demo.rs", "src/lib.rs"), files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, IncludeVendored: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscover_DeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"z.rs":     "",
		"a.rs":     "",
		"m/mod.rs": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"z.rs", ".", "m", "a.rs"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.rs", "m/mod.rs", "z.rs"), files)
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing.rs"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.rs")
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: tree(t, map[string]string{"a.rs": ""})})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"real/lib.rs": ""})
	external := tree(t, map[string]string{"external.rs": ""})
	if err := os.Symlink(external, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "real/lib.rs"), files)

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:     dir,
		FollowSymlinks: true,
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(external, "external.rs"))
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".rs"}, runner.DefaultExtensions())
}
