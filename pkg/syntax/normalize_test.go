package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func TestJoinTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src         string
		tightBraces bool
		want        string
	}{
		{src: "Vec < Vec < u8 >>", want: "Vec<Vec<u8>>"},
		{src: "& 'a  mut T", want: "&'a mut T"},
		{src: "HashMap<K,V>", want: "HashMap<K, V>"},
		{src: "fn ( u8 ) -> bool", want: "fn(u8) -> bool"},
		{src: "T:Clone+Send", want: "T: Clone + Send"},
		{src: "dyn Fn ( ) ", want: "dyn Fn()"},
		{src: "impl <T>", want: "impl<T>"},
		{src: "[ u8 ; 4 ]", want: "[u8; 4]"},
		{src: "( a , b )", want: "(a, b)"},
		{src: "mut x", want: "mut x"},
		{src: "Some ( ref  y )", want: "Some(ref y)"},
		{src: "a::b :: c", want: "a::b::c"},
		{src: "x-1", want: "x - 1"},
		{src: "- 1", want: "-1"},
		{src: "{ a , b }", want: "{ a, b }"},
		{src: "{ a , b }", tightBraces: true, want: "{a, b}"},
		{src: "a::{ b ,c }", tightBraces: true, want: "a::{b, c}"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			toks, err := syntax.Lex(syntax.NewSourceMap().AddFile("t.rs", tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, syntax.JoinTokens(toks[:len(toks)-1], tt.tightBraces))
		})
	}
}

func TestIsKeyword(t *testing.T) {
	t.Parallel()

	assert.True(t, syntax.IsKeyword("fn"))
	assert.True(t, syntax.IsKeyword("Self"))
	assert.False(t, syntax.IsKeyword("macro_rules"))
	assert.False(t, syntax.IsKeyword("u8"))
}
