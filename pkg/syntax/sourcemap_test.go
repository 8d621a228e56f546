package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func TestSourceMapLayout(t *testing.T) {
	t.Parallel()

	sm := syntax.NewSourceMap()
	a := sm.AddFile("a.rs", "fn a() {}")
	b := sm.AddFile("b.rs", "")
	c := sm.AddFile("c.rs", "x\ny")

	assert.Equal(t, syntax.Pos(0), a.Start)
	assert.Equal(t, syntax.Pos(9), a.End())
	assert.Equal(t, syntax.Pos(10), b.Start, "files are separated by one position")
	assert.Equal(t, b.Start, b.End())
	assert.Equal(t, syntax.Pos(11), c.Start)
	assert.Equal(t, []*syntax.SourceFile{a, b, c}, sm.Files())

	got, ok := sm.File("c.rs")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = sm.File("missing.rs")
	assert.False(t, ok)
}

func TestSourceMapLookupFile(t *testing.T) {
	t.Parallel()

	sm := syntax.NewSourceMap()
	sm.AddFile("a.rs", "abc")
	sm.AddFile("b.rs", "def")

	tests := []struct {
		pos  syntax.Pos
		want string
		ok   bool
	}{
		{pos: 0, want: "a.rs", ok: true},
		{pos: 3, want: "a.rs", ok: true},
		{pos: 4, want: "b.rs", ok: true},
		{pos: 7, want: "b.rs", ok: true},
		{pos: 8, ok: false},
	}

	for _, tt := range tests {
		file, ok := sm.LookupFile(tt.pos)
		require.Equal(t, tt.ok, ok, "pos %d", tt.pos)
		if ok {
			assert.Equal(t, tt.want, file.Name, "pos %d", tt.pos)
		}
	}
}

func TestSourceMapSnippets(t *testing.T) {
	t.Parallel()

	sm := syntax.NewSourceMap()
	sm.AddFile("a.rs", "fn a() {}")
	b := sm.AddFile("b.rs", "struct B;")

	text, err := sm.SpanToSnippet(syntax.MkSpan(b.Start, b.Start+6))
	require.NoError(t, err)
	assert.Equal(t, "struct", text)

	name, err := sm.SpanToFilename(syntax.MkSpan(3, 4))
	require.NoError(t, err)
	assert.Equal(t, "a.rs", name)

	_, err = sm.SpanToSnippet(syntax.MkSpan(5, b.Start+1))
	require.ErrorIs(t, err, syntax.ErrCrossFileSpan)

	_, err = sm.SpanToSnippet(syntax.MkSpan(100, 101))
	require.ErrorIs(t, err, syntax.ErrUnknownPos)
}

func TestSourceMapLookup(t *testing.T) {
	t.Parallel()

	sm := syntax.NewSourceMap()
	sm.AddFile("a.rs", "x")
	b := sm.AddFile("b.rs", "one\ntwo\nthree")

	assert.Equal(t, syntax.Loc{File: "b.rs", Line: 1, Column: 1}, sm.Lookup(b.Start))
	assert.Equal(t, syntax.Loc{File: "b.rs", Line: 2, Column: 3}, sm.Lookup(b.Pos(6)))
	assert.Equal(t, syntax.Loc{File: "b.rs", Line: 3, Column: 6}, sm.Lookup(b.End()))
	assert.Equal(t, "b.rs:2:3", sm.Lookup(b.Pos(6)).String())
	assert.Equal(t, "<unknown>", sm.Lookup(1000).File)
}

func TestSpan(t *testing.T) {
	t.Parallel()

	s := syntax.MkSpan(3, 8)
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, syntax.MkSpan(4, 4).IsEmpty())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(8))
	assert.True(t, s.Covers(syntax.MkSpan(4, 8)))
	assert.False(t, s.Covers(syntax.MkSpan(2, 5)))
	assert.Equal(t, syntax.MkSpan(3, 12), s.To(syntax.MkSpan(10, 12)))
	assert.Equal(t, "[3, 8)", s.String())
}
