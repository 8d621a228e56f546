package rewrite

import (
	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// visitBlock writes a block starting at its opening brace. Statements go on
// their own lines one level deeper; an empty block becomes {}.
func (v *Visitor) visitBlock(b *syntax.Block) {
	v.logger.Debug("visit block",
		logging.FieldFrom, v.sm.Lookup(b.Open()),
		logging.FieldIndent, v.blockIndent)

	v.formatMissing(b.Open())
	v.pushAt(b.Span(), "{")
	v.lastPos = b.Open() + 1

	inner := syntax.MkSpan(b.Open()+1, b.Close())
	v.visitBody(inner, len(b.Stmts) == 0 && b.Expr == nil, func() {
		for _, stmt := range b.Stmts {
			v.visitStmt(stmt)
		}
		if b.Expr != nil {
			v.formatMissingWithIndent(b.Expr.Span().Lo)
			v.visitExpr(b.Expr)
		}
	})
}

func (v *Visitor) visitStmt(stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.ItemStmt:
		v.visitItem(s.Item)
	case *syntax.LetStmt:
		if v.skipped(s.Attrs, s.Span().Hi) {
			return
		}
		v.formatMissingWithIndent(s.Span().Lo)
		v.visitLet(s)
	case *syntax.ExprStmt:
		if v.skipped(s.Attrs, s.Span().Hi) {
			return
		}
		v.formatMissingWithIndent(s.Span().Lo)
		v.visitExpr(s.X)
		if s.Semi {
			v.finishWith(";", s.Span().Hi)
		}
	case *syntax.EmptyStmt:
		v.formatMissingWithIndent(s.Span().Lo)
		v.pushSnippet(s.Span())
	default:
		internalf("unexpected statement %T", stmt)
	}
}

func (v *Visitor) visitLet(s *syntax.LetStmt) {
	span := s.Span()
	head := "let " + s.Pat
	if s.Ty != "" {
		head += ": " + s.Ty
	}

	if s.Init == nil {
		if v.hasComments(span) {
			v.pushSnippet(span)
			return
		}
		v.pushAt(span, head+";")
		v.lastPos = span.Hi
		return
	}

	initLo := s.Init.Span().Lo
	if v.hasComments(syntax.MkSpan(span.Lo, initLo)) {
		v.copyVerbatim(initLo)
	} else {
		v.pushAt(span, head+" = ")
		v.lastPos = initLo
	}
	v.visitExpr(s.Init)

	if s.Else != nil {
		v.visitElse(s.Else.Open())
		v.visitBlock(s.Else)
	}
	v.finishWith(";", span.Hi)
}

// visitElse writes the else keyword between the cursor and lo.
func (v *Visitor) visitElse(lo syntax.Pos) {
	if v.hasComments(syntax.MkSpan(v.lastPos, lo)) {
		v.formatMissing(lo)
		return
	}
	v.push(" else ")
	v.lastPos = lo
}
