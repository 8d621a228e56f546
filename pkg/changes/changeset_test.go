package changes_test

import (
	"bytes"
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func newSession(t *testing.T, files map[string]string, opts ...changes.Option) (*syntax.SourceMap, *changes.ChangeSet) {
	t.Helper()

	sm := syntax.NewSourceMap()
	for _, name := range slices.Sorted(maps.Keys(files)) {
		sm.AddFile(name, files[name])
	}
	return sm, changes.FromSourceMap(sm, opts...)
}

func TestChangeSetAppend(t *testing.T) {
	t.Parallel()

	sm, cs := newSession(t, map[string]string{"a.rs": "fn a() {}", "b.rs": "fn b() {}"})

	require.NoError(t, cs.Append("a.rs", "fn a"))
	require.NoError(t, cs.Append("a.rs", "() {}"))

	b, ok := sm.File("b.rs")
	require.True(t, ok)
	require.NoError(t, cs.AppendAt(syntax.MkSpan(b.Start, b.Start+2), "fn b"))

	text, err := cs.Text("a.rs")
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}", text)

	text, err = cs.Text("b.rs")
	require.NoError(t, err)
	assert.Equal(t, "fn b", text)

	n, err := cs.Len("b.rs")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestChangeSetUnknownFile(t *testing.T) {
	t.Parallel()

	_, cs := newSession(t, map[string]string{"a.rs": ""})

	err := cs.Append("missing.rs", "x")
	require.ErrorIs(t, err, changes.ErrUnknownFile)

	var unknown *changes.UnknownFileError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing.rs", unknown.Name)

	_, err = cs.Len("missing.rs")
	require.ErrorIs(t, err, changes.ErrUnknownFile)

	_, err = cs.Finalize(context.Background(), "missing.rs", changes.WriteMode{Kind: changes.Return})
	require.ErrorIs(t, err, changes.ErrUnknownFile)

	err = cs.AppendAt(syntax.MkSpan(1000, 1001), "x")
	require.ErrorIs(t, err, syntax.ErrUnknownPos)
}

func TestChangeSetColumn(t *testing.T) {
	t.Parallel()

	_, cs := newSession(t, map[string]string{"a.rs": ""})

	col, err := cs.Column("a.rs")
	require.NoError(t, err)
	assert.Equal(t, 0, col)

	require.NoError(t, cs.Append("a.rs", "fn main() {\n    let s = \"日本\""))
	col, err = cs.Column("a.rs")
	require.NoError(t, err)
	assert.Equal(t, 18, col)

	require.NoError(t, cs.Append("a.rs", "\n"))
	col, err = cs.Column("a.rs")
	require.NoError(t, err)
	assert.Equal(t, 0, col)
}

func TestChangeSetAllText(t *testing.T) {
	t.Parallel()

	_, cs := newSession(t, map[string]string{"z.rs": "", "a.rs": "", "m.rs": ""})
	for _, name := range []string{"z.rs", "a.rs", "m.rs"} {
		require.NoError(t, cs.Append(name, strings.TrimSuffix(name, ".rs")))
	}

	var names, texts []string
	for name, text := range cs.AllText() {
		names = append(names, name)
		texts = append(texts, text)
	}
	assert.Equal(t, []string{"a.rs", "m.rs", "z.rs"}, names)
	assert.Equal(t, []string{"a", "m", "z"}, texts)

	// Restartable and stoppable.
	count := 0
	for range cs.AllText() {
		count++
		break
	}
	assert.Equal(t, 1, count)

	assert.Equal(t, "a.rs:\na\n\nm.rs:\nm\n\nz.rs:\nz\n\n", cs.String())
}

func TestFinalizeNewlineStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style config.NewlineStyle
		input string
		want  string
	}{
		{"unix untouched", config.NewlineUnix, "a\r\nb\n", "a\r\nb\n"},
		{"windows translates", config.NewlineWindows, "a\nb\n", "a\r\nb\r\n"},
		{"windows does not double", config.NewlineWindows, "a\r\nb\r\n", "a\r\nb\r\n"},
		{"windows drops bare carriage returns", config.NewlineWindows, "a\rb\n", "ab\r\n"},
		{"empty", config.NewlineWindows, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, cs := newSession(t, map[string]string{"a.rs": ""}, changes.WithNewlineStyle(tt.style))
			require.NoError(t, cs.Append("a.rs", tt.input))

			got, err := cs.Finalize(context.Background(), "a.rs", changes.WriteMode{Kind: changes.Return})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\r\r")
		})
	}
}

func TestFinalizeDisplay(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, cs := newSession(t, map[string]string{"b.rs": "", "a.rs": ""}, changes.WithStdout(&out))
	require.NoError(t, cs.Append("a.rs", "fn a() {}\n"))
	require.NoError(t, cs.Append("b.rs", "fn b() {}\n"))

	results, err := cs.FinalizeAll(context.Background(), changes.WriteMode{Kind: changes.Display})
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, "a.rs:\n\nfn a() {}\nb.rs:\n\nfn b() {}\n", out.String())
}

func TestFinalizeAllReturn(t *testing.T) {
	t.Parallel()

	_, cs := newSession(t, map[string]string{"a.rs": "x", "b.rs": "y"})
	require.NoError(t, cs.Append("a.rs", "A\n"))
	require.NoError(t, cs.Append("b.rs", "B\n"))

	results, err := cs.FinalizeAll(context.Background(), changes.WriteMode{Kind: changes.Return})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.rs": "A\n", "b.rs": "B\n"}, results)
}

func TestFinalizeOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn a(){}"), 0o600))

	_, cs := newSession(t, map[string]string{path: "fn a(){}"})
	require.NoError(t, cs.Append(path, "fn a() {}\n"))

	_, err := cs.Finalize(context.Background(), path, changes.WriteMode{Kind: changes.Overwrite})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}\n", string(got))

	backup, err := os.ReadFile(path + ".bk")
	require.NoError(t, err)
	assert.Equal(t, "fn a(){}", string(backup))
	assert.NoFileExists(t, path+".tmp")

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestFinalizeOverwriteMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.rs")
	_, cs := newSession(t, map[string]string{path: ""})

	_, err := cs.Finalize(context.Background(), path, changes.WriteMode{Kind: changes.Overwrite})
	require.Error(t, err)
	assert.NoFileExists(t, path+".tmp")
}

func TestFinalizeEachNewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"a.rs", "b.rs", "c.rs", "d.rs"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("orig"), 0o644))
		files[path] = "orig"
	}

	_, cs := newSession(t, files)
	for path := range files {
		require.NoError(t, cs.Append(path, "new "+filepath.Base(path)))
	}

	mode, err := changes.ParseWriteMode("new-file", ".fmt")
	require.NoError(t, err)

	results, err := cs.FinalizeEach(context.Background(), cs.Files(), mode, 3)
	require.NoError(t, err)
	assert.Nil(t, results)

	for path := range files {
		orig, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "orig", string(orig))

		out, err := os.ReadFile(path + ".fmt")
		require.NoError(t, err)
		assert.Equal(t, "new "+filepath.Base(path), string(out))
	}
}

func TestParseWriteMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		ext   string
		want  changes.WriteMode
		err   bool
	}{
		{"overwrite", "", changes.WriteMode{Kind: changes.Overwrite}, false},
		{"new-file", "", changes.WriteMode{Kind: changes.NewFile, Extension: "out"}, false},
		{"NewFile", "rs2", changes.WriteMode{Kind: changes.NewFile, Extension: "rs2"}, false},
		{"display", "", changes.WriteMode{Kind: changes.Display}, false},
		{"return", "", changes.WriteMode{Kind: changes.Return}, false},
		{"stdout", "", changes.WriteMode{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := changes.ParseWriteMode(tt.input, tt.ext)
			if tt.err {
				require.ErrorIs(t, err, changes.ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
