package syntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

type lexed struct {
	Kind syntax.TokenKind
	Text string
}

func lex(t *testing.T, src string) []lexed {
	t.Helper()

	toks, err := syntax.Lex(syntax.NewSourceMap().AddFile("test.rs", src))
	require.NoError(t, err)

	out := make([]lexed, 0, len(toks))
	for _, tok := range toks {
		out = append(out, lexed{Kind: tok.Kind, Text: tok.Text})
	}
	return out
}

func TestLex(t *testing.T) {
	t.Parallel()

	eof := lexed{Kind: syntax.EOF}
	tests := []struct {
		name string
		src  string
		want []lexed
	}{
		{
			name: "empty",
			src:  "",
			want: []lexed{eof},
		},
		{
			name: "function header",
			src:  "fn a(x: &mut u8) -> u8",
			want: []lexed{
				{syntax.Ident, "fn"}, {syntax.Ident, "a"}, {syntax.Punct, "("},
				{syntax.Ident, "x"}, {syntax.Punct, ":"}, {syntax.Punct, "&"},
				{syntax.Ident, "mut"}, {syntax.Ident, "u8"}, {syntax.Punct, ")"},
				{syntax.Punct, "->"}, {syntax.Ident, "u8"}, eof,
			},
		},
		{
			name: "comments",
			src:  "// plain\r\n/// outer\n//! inner\n//// plain\n/* a /* nested */ b */ /** doc */ /*! inner */",
			want: []lexed{
				{syntax.LineComment, "// plain"},
				{syntax.OuterDoc, "/// outer"},
				{syntax.InnerDoc, "//! inner"},
				{syntax.LineComment, "//// plain"},
				{syntax.BlockComment, "/* a /* nested */ b */"},
				{syntax.OuterDoc, "/** doc */"},
				{syntax.InnerDoc, "/*! inner */"},
				eof,
			},
		},
		{
			name: "literals",
			src:  `"a\"b" b"x" r#"raw "q""# 'c' '\n' b'z' 1_000u32 2.5e-3 0xFF`,
			want: []lexed{
				{syntax.Literal, `"a\"b"`}, {syntax.Literal, `b"x"`},
				{syntax.Literal, `r#"raw "q""#`}, {syntax.Literal, `'c'`},
				{syntax.Literal, `'\n'`}, {syntax.Literal, `b'z'`},
				{syntax.Literal, "1_000u32"}, {syntax.Literal, "2.5e-3"},
				{syntax.Literal, "0xFF"}, eof,
			},
		},
		{
			name: "lifetimes and ranges",
			src:  "'a: loop { 0..=n; x.0 }",
			want: []lexed{
				{syntax.Lifetime, "'a"}, {syntax.Punct, ":"}, {syntax.Ident, "loop"},
				{syntax.Punct, "{"}, {syntax.Literal, "0"}, {syntax.Punct, "..="},
				{syntax.Ident, "n"}, {syntax.Punct, ";"}, {syntax.Ident, "x"},
				{syntax.Punct, "."}, {syntax.Literal, "0"}, {syntax.Punct, "}"}, eof,
			},
		},
		{
			name: "shebang",
			src:  "#!/usr/bin/env run\nfn",
			want: []lexed{{syntax.LineComment, "#!/usr/bin/env run"}, {syntax.Ident, "fn"}, eof},
		},
		{
			name: "inner attribute is not a shebang",
			src:  "#![allow(x)]",
			want: []lexed{
				{syntax.Punct, "#"}, {syntax.Punct, "!"}, {syntax.Punct, "["},
				{syntax.Ident, "allow"}, {syntax.Punct, "("}, {syntax.Ident, "x"},
				{syntax.Punct, ")"}, {syntax.Punct, "]"}, eof,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, lex(t, tt.src)); diff != "" {
				t.Errorf("Lex() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexSpans(t *testing.T) {
	t.Parallel()

	sm := syntax.NewSourceMap()
	sm.AddFile("a.rs", "first")
	file := sm.AddFile("b.rs", "fn  x")

	toks, err := syntax.Lex(file)
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, syntax.MkSpan(file.Start, file.Start+2), toks[0].Span)
	assert.Equal(t, syntax.MkSpan(file.Start+4, file.Start+5), toks[1].Span)
	assert.Equal(t, syntax.MkSpan(file.End(), file.End()), toks[2].Span)
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "block comment", src: "/* open", msg: "unterminated block comment"},
		{name: "string", src: `"open`, msg: "unterminated string literal"},
		{name: "raw string", src: `r#"open"`, msg: "unterminated raw string literal"},
		{name: "character", src: "x\n  '\\n", msg: "unterminated character literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := syntax.Lex(syntax.NewSourceMap().AddFile("bad.rs", tt.src))
			require.ErrorIs(t, err, syntax.ErrSyntax)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Contains(t, err.Error(), "bad.rs:")
		})
	}
}
