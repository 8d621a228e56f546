package rewrite

import (
	"strings"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// visitExpr writes an expression at the cursor. Control flow expressions
// are walked so their blocks get formatted; everything else is rewritten
// as a whole, falling back to the source text when it holds comments or
// cannot be laid out.
func (v *Visitor) visitExpr(e syntax.Expr) {
	span := e.Span()
	v.logger.Debug("visit expr",
		logging.FieldFrom, v.sm.Lookup(span.Lo),
		logging.FieldTo, v.sm.Lookup(span.Hi))

	v.formatMissing(span.Lo)
	switch x := e.(type) {
	case *syntax.BlockExpr:
		prefix := labelPrefix(x.Label)
		if x.Unsafe {
			prefix += "unsafe "
		}
		v.visitHeader(prefix, nil, x.Block)
	case *syntax.IfExpr:
		v.visitIf(x)
	case *syntax.WhileExpr:
		v.visitHeader(labelPrefix(x.Label)+"while ", x.Cond, x.Body)
	case *syntax.LoopExpr:
		v.visitHeader(labelPrefix(x.Label)+"loop ", nil, x.Body)
	case *syntax.ForExpr:
		v.visitHeader(labelPrefix(x.Label)+"for "+x.Pat+" in ", x.Iter, x.Body)
	case *syntax.OpaqueExpr:
		v.pushSnippet(span)
	default:
		if v.hasComments(span) {
			v.pushSnippet(span)
			return
		}
		col := v.column()
		text, ok := v.rewriteExpr(e, v.cfg.MaxWidth-col, col)
		if !ok {
			v.pushSnippet(span)
			return
		}
		v.pushAt(span, text)
		v.lastPos = span.Hi
	}
}

// visitHeader writes prefix and the optional condition up to body, then
// the body itself.
func (v *Visitor) visitHeader(prefix string, cond syntax.Expr, body *syntax.Block) {
	if v.hasComments(syntax.MkSpan(v.lastPos, body.Open())) {
		v.copyVerbatim(body.Open())
		v.visitBlock(body)
		return
	}

	text := prefix
	if cond != nil {
		col := v.column() + textWidth(prefix)
		rewritten, ok := v.rewriteExpr(cond, v.cfg.MaxWidth-col, col)
		if !ok {
			rewritten = v.snippet(cond.Span())
		}
		text += rewritten + " "
	}
	v.push(text)
	v.lastPos = body.Open()
	v.visitBlock(body)
}

func (v *Visitor) visitIf(x *syntax.IfExpr) {
	v.visitHeader("if ", x.Cond, x.Then)
	if x.Else == nil {
		return
	}

	v.visitElse(x.Else.Span().Lo)
	switch els := x.Else.(type) {
	case *syntax.IfExpr:
		v.visitIf(els)
	case *syntax.BlockExpr:
		v.visitBlock(els.Block)
	default:
		v.visitExpr(els)
	}
}

// rewriteExpr renders e within width columns, starting at column offset.
// It reports false when e holds something it cannot lay out, such as a
// multi-line block.
func (v *Visitor) rewriteExpr(e syntax.Expr, width, offset int) (string, bool) {
	switch x := e.(type) {
	case *syntax.LitExpr:
		return x.Text, true
	case *syntax.PathExpr:
		return x.Text, true
	case *syntax.UnaryExpr:
		return v.rewritePrefixed(x.Op, x.X, width, offset)
	case *syntax.RefExpr:
		op := "&"
		if x.Mut {
			op = "&mut "
		}
		return v.rewritePrefixed(op, x.X, width, offset)
	case *syntax.CastExpr:
		return v.rewriteSuffixed(x.X, " as "+x.Ty, width, offset)
	case *syntax.TryExpr:
		return v.rewriteSuffixed(x.X, "?", width, offset)
	case *syntax.FieldExpr:
		return v.rewriteSuffixed(x.X, "."+x.Name, width, offset)
	case *syntax.ParenExpr:
		inner, ok := v.rewriteExpr(x.X, width-2, offset+1)
		return "(" + inner + ")", ok
	case *syntax.LetExpr:
		head := "let " + x.Pat + " = "
		init, ok := v.rewriteExpr(x.Init, width-textWidth(head), offset+textWidth(head))
		return head + init, ok
	case *syntax.IndexExpr:
		base, ok := v.rewriteExpr(x.X, width, offset)
		if !ok {
			return "", false
		}
		col := endColumn(offset, base) + 1
		index, ok := v.rewriteExpr(x.Index, v.cfg.MaxWidth-col-1, col)
		return base + "[" + index + "]", ok
	case *syntax.RangeExpr:
		return v.rewriteRange(x, width, offset)
	case *syntax.BinaryExpr:
		return v.rewriteBinary(x, width, offset)
	case *syntax.JumpExpr:
		return v.rewriteJump(x, width, offset)
	case *syntax.CallExpr:
		fun, ok := v.rewriteExpr(x.Fun, width, offset)
		if !ok {
			return "", false
		}
		return v.rewriteList(fun+"(", x.Args, ")", width, offset)
	case *syntax.MethodCallExpr:
		recv, ok := v.rewriteExpr(x.Recv, width, offset)
		if !ok {
			return "", false
		}
		return v.rewriteList(recv+"."+x.Name+"(", x.Args, ")", width, offset)
	case *syntax.TupleExpr:
		closer := ")"
		if len(x.Elems) == 1 {
			closer = ",)"
		}
		return v.rewriteList("(", x.Elems, closer, width, offset)
	case *syntax.ArrayExpr:
		return v.rewriteList("[", x.Elems, "]", width, offset)
	}

	// Blocks, control flow and opaque expressions are only inlined when
	// they already fit on one line.
	text := v.snippet(e.Span())
	if strings.Contains(text, "\n") || v.hasComments(e.Span()) {
		return "", false
	}
	return text, true
}

func (v *Visitor) rewritePrefixed(op string, x syntax.Expr, width, offset int) (string, bool) {
	inner, ok := v.rewriteExpr(x, width-len(op), offset+len(op))
	return op + inner, ok
}

func (v *Visitor) rewriteSuffixed(x syntax.Expr, suffix string, width, offset int) (string, bool) {
	inner, ok := v.rewriteExpr(x, width-textWidth(suffix), offset)
	return inner + suffix, ok
}

func (v *Visitor) rewriteRange(x *syntax.RangeExpr, width, offset int) (string, bool) {
	var text string
	if x.X != nil {
		lhs, ok := v.rewriteExpr(x.X, width, offset)
		if !ok {
			return "", false
		}
		text = lhs
	}
	text += x.Op
	if x.Y != nil {
		col := endColumn(offset, text)
		rhs, ok := v.rewriteExpr(x.Y, width-(col-offset), col)
		if !ok {
			return "", false
		}
		text += rhs
	}
	return text, true
}

// rewriteBinary keeps a binary operation on one line when it fits and
// otherwise breaks after the operator, continuing one level deeper than
// the enclosing block.
func (v *Visitor) rewriteBinary(x *syntax.BinaryExpr, width, offset int) (string, bool) {
	lhs, ok := v.rewriteExpr(x.X, width, offset)
	if !ok {
		return "", false
	}
	head := lhs + " " + x.Op

	col := endColumn(offset, head) + 1
	if rhs, ok := v.rewriteExpr(x.Y, width-(col-offset), col); ok {
		if line := head + " " + rhs; fits(line, width) {
			return line, true
		}
	}

	cont := v.blockIndent + v.cfg.TabSpaces
	rhs, ok := v.rewriteExpr(x.Y, v.cfg.MaxWidth-cont, cont)
	if !ok {
		return "", false
	}
	return head + "\n" + makeIndent(cont) + rhs, true
}

func (v *Visitor) rewriteJump(x *syntax.JumpExpr, width, offset int) (string, bool) {
	text := x.Keyword
	if x.Label != "" {
		text += " " + x.Label
	}
	if x.X == nil {
		return text, true
	}
	text += " "
	inner, ok := v.rewriteExpr(x.X, width-textWidth(text), offset+textWidth(text))
	return text + inner, ok
}

// rewriteList renders a delimited, comma separated list. The items stay on
// the line of open when everything fits; otherwise each item goes on its
// own line aligned after open.
func (v *Visitor) rewriteList(open string, items []syntax.Expr, closer string, width, offset int) (string, bool) {
	col := endColumn(offset, open)
	parts := make([]string, len(items))
	for i, item := range items {
		text, ok := v.rewriteExpr(item, v.cfg.MaxWidth-col, col)
		if !ok {
			return "", false
		}
		parts[i] = text
	}

	line := open + strings.Join(parts, ", ") + closer
	if len(items) < 2 || fits(line, width) {
		return line, true
	}
	return open + strings.Join(parts, ",\n"+makeIndent(col)) + closer, true
}
