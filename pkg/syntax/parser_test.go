package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func parse(t *testing.T, src string) (*syntax.SourceMap, *syntax.File) {
	t.Helper()

	sm, file, err := syntax.ParseString("test.rs", src)
	require.NoError(t, err)
	return sm, file
}

func text(t *testing.T, sm *syntax.SourceMap, node syntax.Node) string {
	t.Helper()

	s, err := sm.SpanToSnippet(node.Span())
	require.NoError(t, err)
	return s
}

func TestParseFunction(t *testing.T) {
	t.Parallel()

	sm, file := parse(t, "/// Doc\npub(crate) const unsafe fn get<'a, T>(&'a self, #[cfg(x)] n: usize, ...) -> Option<&'a T> where T: Clone, { n }")
	require.Len(t, file.Items, 1)

	fn, ok := file.Items[0].(*syntax.FnItem)
	require.True(t, ok)
	assert.Equal(t, "pub(crate)", fn.Vis.Text)
	require.Len(t, fn.Attrs, 1)
	assert.True(t, fn.Attrs[0].Doc)

	sig := fn.Sig
	assert.Equal(t, []string{"const", "unsafe"}, sig.Qualifiers)
	assert.Equal(t, "get", sig.Name)
	assert.Equal(t, "<'a, T>", sig.Generics)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "&'a self", sig.Params[0].Pat)
	assert.Empty(t, sig.Params[0].Ty)
	assert.Equal(t, "n", sig.Params[1].Pat)
	assert.Equal(t, "usize", sig.Params[1].Ty)
	require.Len(t, sig.Params[1].Attrs, 1)
	assert.Equal(t, "cfg", sig.Params[1].Attrs[0].Path)
	assert.True(t, sig.Variadic)
	assert.Equal(t, "Option<&'a T>", sig.Ret)
	assert.Equal(t, "T: Clone,", sig.Where)

	require.NotNil(t, fn.Body)
	assert.Equal(t, "{ n }", text(t, sm, fn.Body))
	assert.Empty(t, fn.Body.Stmts)
	require.NotNil(t, fn.Body.Expr)
	assert.Equal(t, "n", text(t, sm, fn.Body.Expr))
}

func TestParseItems(t *testing.T) {
	t.Parallel()

	src := `#![allow(dead_code)]
use std::{io, fmt::Write as _};
use ::core::mem;
use a::*;
extern crate alloc as a;
mod inline { #![rustfmt::skip] fn f() {} }
mod outline;
struct Unit;
pub struct Tuple(pub u8, String);
struct Named<T> where T: Copy { a: T, #[serde(skip)] pub(crate) b: Vec<T> }
trait Tr: Sized { const N: usize; fn req(&self); type Out; }
trait Alias = Tr + Send;
unsafe impl<T> Tr for Named<T> { fn req(&self) {} }
static mut COUNT: u32 = 0;
enum E { A, B }
macro_rules! m { () => {}; }
`
	sm, file := parse(t, src)

	require.Len(t, file.InnerAttrs, 1)
	assert.Equal(t, syntax.AttrInner, file.InnerAttrs[0].Style)
	assert.Equal(t, "allow", file.InnerAttrs[0].Path)
	assert.False(t, file.InnerAttrs[0].Word)
	require.Len(t, file.Items, 15)

	use := file.Items[0].(*syntax.UseItem)
	assert.Equal(t, syntax.UseList, use.Kind)
	assert.Equal(t, []string{"std"}, use.Prefix)
	assert.Equal(t, []string{"io", "fmt::Write as _"}, use.List)

	rooted := file.Items[1].(*syntax.UseItem)
	assert.Equal(t, syntax.UseSimple, rooted.Kind)
	assert.Equal(t, []string{"", "core", "mem"}, rooted.Prefix)

	assert.Equal(t, syntax.UseGlob, file.Items[2].(*syntax.UseItem).Kind)
	assert.Equal(t, "alloc", file.Items[3].(*syntax.ExternCrateItem).Name)

	inline := file.Items[4].(*syntax.ModItem)
	assert.True(t, inline.Inline)
	require.Len(t, inline.InnerAttrs, 1)
	assert.Equal(t, "rustfmt::skip", inline.InnerAttrs[0].Path)
	assert.True(t, inline.InnerAttrs[0].Word)
	require.Len(t, inline.Items, 1)
	assert.Equal(t, " #![rustfmt::skip] fn f() {} ", sm.Files()[0].Text(inline.Inner))

	assert.False(t, file.Items[5].(*syntax.ModItem).Inline)

	assert.Equal(t, syntax.StructUnit, file.Items[6].(*syntax.StructItem).Kind)

	tuple := file.Items[7].(*syntax.StructItem)
	assert.Equal(t, syntax.StructTuple, tuple.Kind)
	require.Len(t, tuple.Fields, 2)
	assert.Equal(t, "pub", tuple.Fields[0].Vis.Text)
	assert.Equal(t, "u8", tuple.Fields[0].Ty)
	assert.Equal(t, "String", tuple.Fields[1].Ty)

	named := file.Items[8].(*syntax.StructItem)
	assert.Equal(t, syntax.StructNamed, named.Kind)
	assert.Equal(t, "<T>", named.Generics)
	assert.Equal(t, "T: Copy", named.Where)
	require.Len(t, named.Fields, 2)
	assert.Equal(t, "a", named.Fields[0].Name)
	assert.Equal(t, "a: T,", sm.Files()[0].Text(syntax.MkSpan(named.Fields[0].Span().Lo, named.Fields[0].End)))
	assert.Equal(t, "pub(crate)", named.Fields[1].Vis.Text)
	assert.Equal(t, "Vec<T>", named.Fields[1].Ty)
	assert.Equal(t, named.Fields[1].Span().Hi, named.Fields[1].End, "no trailing comma")
	require.Len(t, named.Fields[1].Attrs, 1)

	trait := file.Items[9].(*syntax.TraitItem)
	assert.Equal(t, "Tr", trait.Name)
	assert.Equal(t, "trait Tr: Sized", trait.Header)
	require.Len(t, trait.Members, 3)
	assert.IsType(t, &syntax.ConstItem{}, trait.Members[0])
	assert.Nil(t, trait.Members[0].(*syntax.ConstItem).Init)
	assert.Nil(t, trait.Members[1].(*syntax.FnItem).Body)
	assert.Equal(t, "type", trait.Members[2].(*syntax.OpaqueItem).Keyword)

	alias := file.Items[10].(*syntax.TraitItem)
	assert.Equal(t, alias.Open, alias.Close)
	assert.Empty(t, alias.Members)

	impl := file.Items[11].(*syntax.ImplItem)
	assert.Equal(t, "unsafe impl<T> Tr for Named<T>", impl.Header)
	require.Len(t, impl.Members, 1)

	static := file.Items[12].(*syntax.ConstItem)
	assert.True(t, static.Static)
	assert.True(t, static.Mut)
	assert.Equal(t, "COUNT", static.Name)
	assert.Equal(t, "u32", static.Ty)

	assert.Equal(t, "enum", file.Items[13].(*syntax.OpaqueItem).Keyword)
	macro := file.Items[14].(*syntax.OpaqueItem)
	assert.Equal(t, "macro_rules! m { () => {}; }", text(t, sm, macro))
}

func TestParseStatements(t *testing.T) {
	t.Parallel()

	sm, file := parse(t, `fn f() {
    let x: u8 = 1;
    let Some(y) = o else { return; };
    x += 1;
    if x > 0 { g() } else if y { h() } else { i() }
    'l: for i in 0..n { continue 'l; }
    while let Some(z) = it.next() {}
    unsafe { p() };
    ;
    fn inner() {}
    match x { _ => {} }
    x
}`)
	fn := file.Items[0].(*syntax.FnItem)
	stmts := fn.Body.Stmts
	require.Len(t, stmts, 10)

	let := stmts[0].(*syntax.LetStmt)
	assert.Equal(t, "x", let.Pat)
	assert.Equal(t, "u8", let.Ty)
	assert.Equal(t, "let x: u8 = 1;", text(t, sm, let))

	letElse := stmts[1].(*syntax.LetStmt)
	assert.Equal(t, "Some(y)", letElse.Pat)
	require.NotNil(t, letElse.Else)

	assign := stmts[2].(*syntax.ExprStmt)
	assert.True(t, assign.Semi)
	assert.Equal(t, "x += 1;", text(t, sm, assign))
	assert.Equal(t, "+=", assign.X.(*syntax.BinaryExpr).Op)

	ifStmt := stmts[3].(*syntax.ExprStmt)
	assert.False(t, ifStmt.Semi)
	ifx := ifStmt.X.(*syntax.IfExpr)
	elseIf := ifx.Else.(*syntax.IfExpr)
	assert.IsType(t, &syntax.BlockExpr{}, elseIf.Else)

	forx := stmts[4].(*syntax.ExprStmt).X.(*syntax.ForExpr)
	assert.Equal(t, "'l", forx.Label)
	assert.Equal(t, "i", forx.Pat)
	assert.Equal(t, "'l: for i in 0..n { continue 'l; }", text(t, sm, forx))

	while := stmts[5].(*syntax.ExprStmt).X.(*syntax.WhileExpr)
	letCond := while.Cond.(*syntax.LetExpr)
	assert.Equal(t, "Some(z)", letCond.Pat)
	assert.IsType(t, &syntax.MethodCallExpr{}, letCond.Init)

	unsafeBlock := stmts[6].(*syntax.ExprStmt)
	assert.True(t, unsafeBlock.Semi)
	assert.True(t, unsafeBlock.X.(*syntax.BlockExpr).Unsafe)

	assert.IsType(t, &syntax.EmptyStmt{}, stmts[7])
	assert.IsType(t, &syntax.ItemStmt{}, stmts[8])
	assert.Equal(t, "match", stmts[9].(*syntax.ExprStmt).X.(*syntax.OpaqueExpr).Kind)

	require.NotNil(t, fn.Body.Expr)
	assert.IsType(t, &syntax.PathExpr{}, fn.Body.Expr)
}

func TestParseExpressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want any
	}{
		{src: "a + b * c", want: &syntax.BinaryExpr{}},
		{src: "-x", want: &syntax.UnaryExpr{}},
		{src: "&mut v", want: &syntax.RefExpr{}},
		{src: "n as u64", want: &syntax.CastExpr{}},
		{src: "a..=b", want: &syntax.RangeExpr{}},
		{src: "f()?", want: &syntax.TryExpr{}},
		{src: "f(1, 2)", want: &syntax.CallExpr{}},
		{src: "v.iter::<u8>()", want: &syntax.MethodCallExpr{}},
		{src: "t.0", want: &syntax.FieldExpr{}},
		{src: "v[i]", want: &syntax.IndexExpr{}},
		{src: "(a)", want: &syntax.ParenExpr{}},
		{src: "(a,)", want: &syntax.TupleExpr{}},
		{src: "[1, 2]", want: &syntax.ArrayExpr{}},
		{src: "return 1", want: &syntax.JumpExpr{}},
		{src: "let Some(x) = y", want: &syntax.LetExpr{}},
		{src: "|x| x + 1", want: &syntax.OpaqueExpr{}},
		{src: "vec![1]", want: &syntax.OpaqueExpr{}},
		{src: "P { x: 1 }", want: &syntax.OpaqueExpr{}},
		{src: "[0; 4]", want: &syntax.OpaqueExpr{}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			sm, file := parse(t, "const X: T = "+tt.src+";")
			init := file.Items[0].(*syntax.ConstItem).Init
			assert.IsType(t, tt.want, init)
			assert.Equal(t, tt.src, text(t, sm, init))
		})
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	t.Parallel()

	_, file := parse(t, "const X: u8 = a + b * c - d;")
	sub := file.Items[0].(*syntax.ConstItem).Init.(*syntax.BinaryExpr)
	assert.Equal(t, "-", sub.Op)
	add := sub.X.(*syntax.BinaryExpr)
	assert.Equal(t, "+", add.Op)
	assert.Equal(t, "*", add.Y.(*syntax.BinaryExpr).Op)
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	sm, file := parse(t, "// one\nfn f() { /* two */ }\n/// doc\nstruct S;")
	require.Len(t, file.Comments, 2)
	assert.Equal(t, "// one", sm.Files()[0].Text(file.Comments[0]))
	assert.Equal(t, "/* two */", sm.Files()[0].Text(file.Comments[1]))

	assert.True(t, file.CommentsIn(file.Items[0].Span()))
	assert.False(t, file.CommentsIn(file.Items[1].Span()))
	require.Len(t, file.Items[1].Attributes(), 1)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "missing name", src: "fn () {}", msg: "expected identifier"},
		{name: "unclosed block", src: "fn f() {", msg: "unclosed block"},
		{name: "missing semicolon", src: "fn f() { a b }", msg: "expected `;`"},
		{name: "stray token", src: "}", msg: "expected item"},
		{name: "unclosed module", src: "mod m {", msg: "unclosed module m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := syntax.ParseString("bad.rs", tt.src)
			require.ErrorIs(t, err, syntax.ErrSyntax)
			assert.Contains(t, err.Error(), tt.msg)

			var serr *syntax.Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "bad.rs", serr.Loc.File)
			assert.Equal(t, 1, serr.Loc.Line)
		})
	}
}
