package rewrite

import (
	"fmt"
	"strings"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// visitItem writes one item, flushing the source before it first. Items
// whose attributes carry a skip marker are copied unchanged.
func (v *Visitor) visitItem(item syntax.Item) {
	span := item.Span()
	if v.skipped(item.Attributes(), span.Hi) {
		return
	}
	v.logger.Debug("visit item",
		logging.FieldNode, fmt.Sprintf("%T", item),
		logging.FieldFrom, v.sm.Lookup(span.Lo),
		logging.FieldTo, v.sm.Lookup(span.Hi))

	v.formatMissingWithIndent(span.Lo)
	switch it := item.(type) {
	case *syntax.UseItem:
		v.visitUse(it)
	case *syntax.ExternCrateItem:
		v.pushSnippet(span)
	case *syntax.FnItem:
		v.visitFn(it)
	case *syntax.StructItem:
		v.visitStruct(it)
	case *syntax.ModItem:
		v.visitMod(it)
	case *syntax.TraitItem:
		v.visitContainer(span, it.Vis, it.Header, it.Open, it.Close, it.Members)
	case *syntax.ImplItem:
		v.visitContainer(span, it.Vis, it.Header, it.Open, it.Close, it.Members)
	case *syntax.ConstItem:
		v.visitConst(it)
	case *syntax.OpaqueItem:
		v.pushSnippet(span)
	default:
		internalf("unexpected item %T", item)
	}
}

// visitBody writes the interior of a braced body whose opening brace has
// already been written, then the closing brace at inner.Hi. A body with
// nothing but whitespace inside collapses to {}.
func (v *Visitor) visitBody(inner syntax.Span, empty bool, visit func()) {
	closer := syntax.MkSpan(inner.Hi, inner.Hi+1)
	if empty && strings.TrimSpace(v.snippet(inner)) == "" {
		v.pushAt(closer, "}")
		v.lastPos = closer.Hi
		return
	}

	restore := v.indented()
	visit()
	restore()

	v.formatMissingBeforeClose(inner.Hi)
	v.pushAt(closer, "}")
	v.lastPos = closer.Hi
}

// Functions.

func (v *Visitor) visitFn(it *syntax.FnItem) {
	span := it.Span()
	sigEnd := span.Hi
	if it.Body != nil {
		sigEnd = it.Body.Open()
	}

	if v.hasComments(syntax.MkSpan(span.Lo, sigEnd)) {
		v.copyVerbatim(sigEnd)
	} else {
		text := v.rewriteFnSig(it.Vis, it.Sig, it.Body != nil)
		if it.Body == nil {
			text += ";"
		}
		v.pushAt(span, text)
		v.lastPos = sigEnd
	}

	if it.Body != nil {
		v.visitBlock(it.Body)
	}
}

// rewriteFnSig renders a signature at the current indent. Parameters stay
// on one line when the signature fits, otherwise each goes on its own line
// aligned after the opening parenthesis. With a body the result ends where
// the opening brace goes.
func (v *Visitor) rewriteFnSig(vis syntax.Visibility, sig *syntax.FnSig, hasBody bool) string {
	var b strings.Builder
	b.WriteString(visPrefix(vis))
	for _, q := range sig.Qualifiers {
		b.WriteString(q)
		b.WriteByte(' ')
	}
	b.WriteString("fn ")
	b.WriteString(sig.Name)
	b.WriteString(sig.Generics)
	b.WriteByte('(')
	head := b.String()

	params := make([]string, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		params = append(params, v.rewriteParam(p))
	}
	if sig.Variadic {
		params = append(params, "...")
	}

	ret := ")"
	if sig.Ret != "" {
		ret += " -> " + sig.Ret
	}

	// Width of what follows the signature on its last line.
	suffix := 1
	if hasBody && sig.Where == "" {
		suffix = 2
	}

	text := head + strings.Join(params, ", ") + ret
	if len(params) > 1 && v.blockIndent+textWidth(text)+suffix > v.cfg.MaxWidth {
		align := makeIndent(v.blockIndent + textWidth(head))
		text = head + strings.Join(params, ",\n"+align) + ret
	}

	switch {
	case sig.Where != "":
		text += whereClause(sig.Where, v.blockIndent, v.cfg.TabSpaces)
		if hasBody {
			text += "\n" + makeIndent(v.blockIndent)
		}
	case hasBody:
		text += " "
	}
	return text
}

func (v *Visitor) rewriteParam(p *syntax.Param) string {
	var b strings.Builder
	for _, a := range p.Attrs {
		b.WriteString(v.snippet(a.Span()))
		b.WriteByte(' ')
	}
	switch {
	case p.Pat != "" && p.Ty != "":
		b.WriteString(p.Pat)
		b.WriteString(": ")
		b.WriteString(p.Ty)
	case p.Pat != "":
		b.WriteString(p.Pat)
	default:
		b.WriteString(p.Ty)
	}
	return b.String()
}

// Structs.

func (v *Visitor) visitStruct(it *syntax.StructItem) {
	span := it.Span()
	head := visPrefix(it.Vis) + "struct " + it.Name + it.Generics

	if it.Kind != syntax.StructNamed {
		if v.hasComments(span) || fieldsHaveAttrs(it.Fields) {
			v.pushSnippet(span)
			return
		}
		if it.Kind == syntax.StructTuple {
			fields := make([]string, len(it.Fields))
			for i, f := range it.Fields {
				fields[i] = visPrefix(f.Vis) + f.Ty
			}
			head += "(" + strings.Join(fields, ", ") + ")"
		}
		if it.Where != "" {
			head += " where " + strings.TrimSuffix(strings.TrimSpace(it.Where), ",")
		}
		v.pushAt(span, head+";")
		v.lastPos = span.Hi
		return
	}

	if v.hasComments(syntax.MkSpan(span.Lo, it.Open)) {
		v.copyVerbatim(it.Open + 1)
	} else {
		if it.Where != "" {
			head += whereClause(it.Where, v.blockIndent, v.cfg.TabSpaces) + "\n" + makeIndent(v.blockIndent) + "{"
		} else {
			head += " {"
		}
		v.pushAt(span, head)
		v.lastPos = it.Open + 1
	}

	v.visitBody(syntax.MkSpan(it.Open+1, it.Close), len(it.Fields) == 0, func() {
		for i, f := range it.Fields {
			v.visitField(f, i == len(it.Fields)-1)
		}
	})
}

func fieldsHaveAttrs(fields []*syntax.FieldDef) bool {
	for _, f := range fields {
		if len(f.Attrs) > 0 {
			return true
		}
	}
	return false
}

// visitField writes one named field on its own line. Every field but the
// last gets a comma; the last one follows the trailing comma policy.
func (v *Visitor) visitField(f *syntax.FieldDef, last bool) {
	if v.skipped(f.Attrs, f.End) {
		return
	}
	v.formatMissingWithIndent(f.Span().Lo)
	if v.hasComments(syntax.MkSpan(f.Span().Lo, f.End)) {
		v.copyVerbatim(f.End)
		return
	}

	text := visPrefix(f.Vis) + f.Name + ": " + f.Ty
	if !last || v.cfg.StructTrailingComma.Allows(true) {
		text += ","
	}
	v.pushAt(f.Span(), text)
	v.lastPos = f.End
}

// Modules, traits and impls.

func (v *Visitor) visitMod(it *syntax.ModItem) {
	span := it.Span()
	head := visPrefix(it.Vis) + "mod " + it.Name

	if !it.Inline {
		if v.hasComments(span) {
			v.pushSnippet(span)
			return
		}
		v.pushAt(span, head+";")
		v.lastPos = span.Hi
		return
	}

	if hasSkip(it.InnerAttrs) {
		v.pushSnippet(span)
		return
	}

	if v.hasComments(syntax.MkSpan(span.Lo, it.Inner.Lo)) {
		v.copyVerbatim(it.Inner.Lo)
	} else {
		v.pushAt(span, head+" {")
		v.lastPos = it.Inner.Lo
	}

	v.visitBody(it.Inner, len(it.Items) == 0 && len(it.InnerAttrs) == 0, func() {
		v.visitAttrs(it.InnerAttrs)
		for _, item := range it.Items {
			v.visitItem(item)
		}
	})
}

// visitContainer writes a trait or impl: the normalized header, then its
// members one level deeper.
func (v *Visitor) visitContainer(
	span syntax.Span,
	vis syntax.Visibility,
	header string,
	open, closePos syntax.Pos,
	members []syntax.Item,
) {
	head := visPrefix(vis) + header

	if open == closePos {
		// Trait alias.
		if v.hasComments(span) {
			v.pushSnippet(span)
			return
		}
		v.pushAt(span, head+";")
		v.lastPos = span.Hi
		return
	}

	if v.hasComments(syntax.MkSpan(span.Lo, open)) {
		v.copyVerbatim(open + 1)
	} else {
		v.pushAt(span, head+" {")
		v.lastPos = open + 1
	}

	v.visitBody(syntax.MkSpan(open+1, closePos), len(members) == 0, func() {
		for _, m := range members {
			v.visitItem(m)
		}
	})
}

// Consts and statics.

func (v *Visitor) visitConst(it *syntax.ConstItem) {
	span := it.Span()
	head := visPrefix(it.Vis) + "const "
	if it.Static {
		head = visPrefix(it.Vis) + "static "
	}
	if it.Mut {
		head += "mut "
	}
	head += it.Name
	if it.Ty != "" {
		head += ": " + it.Ty
	}

	if it.Init == nil {
		if v.hasComments(span) {
			v.pushSnippet(span)
			return
		}
		v.pushAt(span, head+";")
		v.lastPos = span.Hi
		return
	}

	initLo := it.Init.Span().Lo
	if v.hasComments(syntax.MkSpan(span.Lo, initLo)) {
		v.copyVerbatim(initLo)
	} else {
		v.pushAt(span, head+" = ")
		v.lastPos = initLo
	}
	v.visitExpr(it.Init)
	v.finishWith(";", span.Hi)
}

// finishWith writes text and moves the cursor to end, unless comments sit
// in between, in which case the source up to end is kept.
func (v *Visitor) finishWith(text string, end syntax.Pos) {
	if v.hasComments(syntax.MkSpan(v.lastPos, end)) {
		v.formatMissing(end)
		return
	}
	v.push(text)
	v.lastPos = end
}
