package syntax

//nolint:gochecknoglobals // Static operator tables
var (
	binaryPrec = map[string]int{
		"||": 1,
		"&&": 2,
		"==": 3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
		"|":  4,
		"^":  5,
		"&":  6,
		"<<": 7, ">>": 7,
		"+": 8, "-": 8,
		"*": 9, "/": 9, "%": 9,
	}

	assignOps = map[string]bool{
		"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
		"^=": true, "&=": true, "|=": true, "<<=": true, ">>=": true,
	}
)

// castPrec binds tighter than every binary operator.
const castPrec = 10

func (p *parser) parseExpr() Expr {
	return p.parseAssign()
}

func (p *parser) parseExprNoStruct() Expr {
	var x Expr
	p.withStruct(false, func() { x = p.parseExpr() })
	return x
}

func (p *parser) parseExprWithStruct() Expr {
	var x Expr
	p.withStruct(true, func() { x = p.parseExpr() })
	return x
}

func (p *parser) parseAssign() Expr {
	lhs := p.parseRange()
	tok := p.tok()
	if tok.Kind == Punct && assignOps[tok.Text] {
		p.bump()
		rhs := p.parseAssign()
		x := &BinaryExpr{Op: tok.Text, X: lhs, Y: rhs}
		x.span = lhs.Span().To(rhs.Span())
		return x
	}
	return lhs
}

func (p *parser) atRangeOp() bool {
	return p.at("..") || p.at("..=")
}

func (p *parser) parseRange() Expr {
	if p.atRangeOp() {
		op := p.bump()
		x := &RangeExpr{Op: op.Text}
		x.span = op.Span
		if p.canStartExpr() {
			x.Y = p.parseBinary(1)
			x.span.Hi = x.Y.Span().Hi
		}
		return x
	}

	lhs := p.parseBinary(1)
	if !p.atRangeOp() {
		return lhs
	}
	op := p.bump()
	x := &RangeExpr{Op: op.Text, X: lhs}
	x.span = MkSpan(lhs.Span().Lo, op.Span.Hi)
	if p.canStartExpr() {
		x.Y = p.parseBinary(1)
		x.span.Hi = x.Y.Span().Hi
	}
	return x
}

func (p *parser) parseBinary(minPrec int) Expr {
	x := p.parseUnary()
	for {
		tok := p.tok()
		prec := 0
		switch {
		case tok.Is("as"):
			prec = castPrec
		case tok.Kind == Punct:
			prec = binaryPrec[tok.Text]
		}
		if prec == 0 || prec < minPrec {
			return x
		}
		p.bump()

		if prec == castPrec {
			start := p.pos
			p.parseCastType()
			cast := &CastExpr{X: x, Ty: p.textFrom(start, false)}
			cast.span = MkSpan(x.Span().Lo, p.prevEnd())
			x = cast
			continue
		}

		y := p.parseBinary(prec + 1)
		bin := &BinaryExpr{Op: tok.Text, X: x, Y: y}
		bin.span = x.Span().To(y.Span())
		x = bin
	}
}

// parseCastType consumes the type operand of an "as" cast.
func (p *parser) parseCastType() {
	for p.at("&") || p.at("&&") || p.at("*") || p.at("mut") || p.at("const") || p.tok().Kind == Lifetime {
		p.bump()
	}
	switch {
	case p.at("(") || p.at("["):
		p.skipGroup()
	default:
		p.eat("::")
		p.expectIdent()
		for {
			if p.at("<") {
				p.skipAngles()
			}
			if !p.eat("::") {
				return
			}
			p.expectIdent()
		}
	}
}

func (p *parser) parseUnary() Expr {
	tok := p.tok()
	switch {
	case tok.Is("-"), tok.Is("!"), tok.Is("*"):
		p.bump()
		operand := p.parseUnary()
		x := &UnaryExpr{Op: tok.Text, X: operand}
		x.span = MkSpan(tok.Span.Lo, operand.Span().Hi)
		return x
	case tok.Is("&"), tok.Is("&&"):
		p.bump()
		mut := p.eat("mut")
		operand := p.parseUnary()
		ref := &RefExpr{Mut: mut, X: operand}
		ref.span = MkSpan(tok.Span.Lo, operand.Span().Hi)
		if tok.Text == "&&" {
			ref.span.Lo++
			outer := &RefExpr{X: ref}
			outer.span = MkSpan(tok.Span.Lo, operand.Span().Hi)
			return outer
		}
		return ref
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *parser) parsePostfix(x Expr) Expr {
	for {
		switch {
		case p.at("?"):
			p.bump()
			try := &TryExpr{X: x}
			try.span = MkSpan(x.Span().Lo, p.prevEnd())
			x = try
		case p.at("."):
			p.bump()
			name := p.tok()
			if name.Kind != Ident && name.Kind != Literal {
				p.errorf("expected field or method name, found %s", p.describe())
			}
			start := p.pos
			p.bump()
			if p.at("::") && p.peekN(1).Is("<") {
				p.bump()
				p.skipAngles()
			}
			text := p.textFrom(start, false)
			if p.at("(") {
				args := p.parseArgs("(", ")")
				call := &MethodCallExpr{Recv: x, Name: text, Args: args}
				call.span = MkSpan(x.Span().Lo, p.prevEnd())
				x = call
				continue
			}
			field := &FieldExpr{X: x, Name: text}
			field.span = MkSpan(x.Span().Lo, p.prevEnd())
			x = field
		case p.at("("):
			args := p.parseArgs("(", ")")
			call := &CallExpr{Fun: x, Args: args}
			call.span = MkSpan(x.Span().Lo, p.prevEnd())
			x = call
		case p.at("["):
			p.bump()
			index := p.parseExprWithStruct()
			p.expect("]")
			idx := &IndexExpr{X: x, Index: index}
			idx.span = MkSpan(x.Span().Lo, p.prevEnd())
			x = idx
		default:
			return x
		}
	}
}

func (p *parser) parseArgs(open, closer string) []Expr {
	p.expect(open)
	var args []Expr
	p.withStruct(true, func() {
		for !p.at(closer) {
			args = append(args, p.parseExpr())
			if !p.eat(",") {
				break
			}
		}
	})
	p.expect(closer)
	return args
}

// canStartExpr reports whether the current token can begin an operand.
func (p *parser) canStartExpr() bool {
	tok := p.tok()
	switch tok.Kind {
	case Literal, Lifetime:
		return true
	case Ident:
		switch tok.Text {
		case "as", "else", "in", "where":
			return false
		}
		return true
	case Punct:
		switch tok.Text {
		case "{":
			return !p.noStruct
		case "(", "[", "-", "!", "*", "&", "&&", "|", "||", "..", "..=", "<", "::", "#":
			return true
		}
	}
	return false
}

func (p *parser) opaque(kind string, start Pos) *OpaqueExpr {
	x := &OpaqueExpr{Kind: kind}
	x.span = MkSpan(start, p.prevEnd())
	return x
}

func (p *parser) parsePrimary() Expr {
	tok := p.tok()
	start := tok.Span.Lo

	switch {
	case tok.Kind == Literal, tok.Is("true"), tok.Is("false"):
		p.bump()
		x := &LitExpr{Text: tok.Text}
		x.span = tok.Span
		return x
	case tok.Is("("):
		return p.parseParenOrTuple()
	case tok.Is("["):
		return p.parseArray()
	case tok.Is("{"):
		block := p.parseBlock()
		x := &BlockExpr{Block: block}
		x.span = block.span
		return x
	case tok.Kind == Lifetime && p.peekN(1).Is(":"):
		p.bump()
		p.bump()
		x := p.parsePrimary()
		switch labeled := x.(type) {
		case *BlockExpr:
			labeled.span.Lo, labeled.Label = start, tok.Text
		case *WhileExpr:
			labeled.span.Lo, labeled.Label = start, tok.Text
		case *LoopExpr:
			labeled.span.Lo, labeled.Label = start, tok.Text
		case *ForExpr:
			labeled.span.Lo, labeled.Label = start, tok.Text
		default:
			p.errorf("labels apply only to loops and blocks")
		}
		return x
	case tok.Is("unsafe") && p.peekN(1).Is("{"):
		p.bump()
		block := p.parseBlock()
		x := &BlockExpr{Unsafe: true, Block: block}
		x.span = MkSpan(start, block.span.Hi)
		return x
	case tok.Is("const") && p.peekN(1).Is("{"):
		p.bump()
		p.skipGroup()
		return p.opaque("const", start)
	case tok.Is("async"):
		p.bump()
		p.eat("move")
		if p.at("{") {
			p.skipGroup()
			return p.opaque("async", start)
		}
		return p.parseClosure(start)
	case tok.Is("|"), tok.Is("||"), tok.Is("move"), tok.Is("static") && (p.peekN(1).Is("|") || p.peekN(1).Is("||")):
		return p.parseClosure(start)
	case tok.Is("if"):
		return p.parseIf()
	case tok.Is("while"):
		p.bump()
		cond := p.parseExprNoStruct()
		body := p.parseBlock()
		x := &WhileExpr{Cond: cond, Body: body}
		x.span = MkSpan(start, body.span.Hi)
		return x
	case tok.Is("loop"):
		p.bump()
		body := p.parseBlock()
		x := &LoopExpr{Body: body}
		x.span = MkSpan(start, body.span.Hi)
		return x
	case tok.Is("for"):
		p.bump()
		pat := p.scanPattern("in")
		p.expect("in")
		iter := p.parseExprNoStruct()
		body := p.parseBlock()
		x := &ForExpr{Pat: pat, Iter: iter, Body: body}
		x.span = MkSpan(start, body.span.Hi)
		return x
	case tok.Is("match"):
		p.bump()
		p.parseExprNoStruct()
		if !p.at("{") {
			p.errorf("expected match arms, found %s", p.describe())
		}
		p.skipGroup()
		return p.opaque("match", start)
	case tok.Is("let"):
		p.bump()
		x := &LetExpr{Pat: p.scanPattern("=")}
		p.expect("=")
		x.Init = p.parseBinary(binaryPrec["=="])
		x.span = MkSpan(start, p.prevEnd())
		return x
	case tok.Is("return"), tok.Is("break"), tok.Is("continue"), tok.Is("yield"), tok.Is("become"):
		return p.parseJump()
	case tok.Kind == Ident, tok.Is("<"), tok.Is("::"):
		return p.parsePathExpr()
	}
	p.errorf("expected expression, found %s", p.describe())
	return nil
}

func (p *parser) parseParenOrTuple() Expr {
	start := p.expect("(").Span.Lo
	var elems []Expr
	tuple := false
	p.withStruct(true, func() {
		for !p.at(")") {
			elems = append(elems, p.parseExpr())
			if !p.eat(",") {
				break
			}
			tuple = true
		}
	})
	p.expect(")")
	span := MkSpan(start, p.prevEnd())
	if len(elems) == 1 && !tuple {
		x := &ParenExpr{X: elems[0]}
		x.span = span
		return x
	}
	x := &TupleExpr{Elems: elems}
	x.span = span
	return x
}

func (p *parser) parseArray() Expr {
	start := p.expect("[").Span.Lo
	var elems []Expr
	repeat := false
	p.withStruct(true, func() {
		for !p.at("]") {
			elems = append(elems, p.parseExpr())
			if len(elems) == 1 && p.eat(";") {
				p.parseExpr()
				repeat = true
				break
			}
			if !p.eat(",") {
				break
			}
		}
	})
	p.expect("]")
	if repeat {
		return p.opaque("array_repeat", start)
	}
	x := &ArrayExpr{Elems: elems}
	x.span = MkSpan(start, p.prevEnd())
	return x
}

func (p *parser) parseClosure(start Pos) Expr {
	p.eat("static")
	p.eat("move")
	if !p.eat("||") {
		p.expect("|")
		p.scanPattern("|")
		p.expect("|")
	}
	if p.eat("->") {
		p.scanType("{")
		p.parseBlock()
	} else {
		p.parseExpr()
	}
	return p.opaque("closure", start)
}

func (p *parser) parseIf() *IfExpr {
	start := p.expect("if").Span.Lo
	x := &IfExpr{Cond: p.parseExprNoStruct(), Then: p.parseBlock()}
	if p.eat("else") {
		if p.at("if") {
			x.Else = p.parseIf()
		} else {
			block := p.parseBlock()
			els := &BlockExpr{Block: block}
			els.span = block.span
			x.Else = els
		}
	}
	x.span = MkSpan(start, p.prevEnd())
	return x
}

func (p *parser) parseJump() Expr {
	kw := p.bump()
	x := &JumpExpr{Keyword: kw.Text}
	if p.tok().Kind == Lifetime {
		x.Label = p.bump().Text
	}
	if kw.Text != "continue" && p.canStartExpr() {
		x.X = p.parseExpr()
	}
	x.span = MkSpan(kw.Span.Lo, p.prevEnd())
	return x
}

// looksLikeStructLit reports whether the brace after a path opens a struct literal.
func (p *parser) looksLikeStructLit() bool {
	if p.noStruct || !p.at("{") {
		return false
	}
	first, second := p.peekN(1), p.peekN(2)
	switch {
	case first.Is("}"), first.Is(".."):
		return true
	case first.Kind == Ident || first.Kind == Literal:
		return second.Is(":") || second.Is(",") || second.Is("}")
	}
	return false
}

func (p *parser) parsePathExpr() Expr {
	startTok := p.tok()
	start := p.pos
	switch {
	case p.at("<"):
		p.skipAngles()
	default:
		p.eat("::")
		p.expectIdent()
	}
	for p.at("::") {
		p.bump()
		switch {
		case p.at("<"):
			p.skipAngles()
		case p.tok().Kind == Ident:
			p.bump()
		default:
			p.errorf("expected path segment, found %s", p.describe())
		}
	}

	if p.at("!") && (p.peekN(1).Is("(") || p.peekN(1).Is("[") || p.peekN(1).Is("{")) {
		p.bump()
		kind := "macro"
		if p.at("{") {
			kind = "block_macro"
		}
		p.skipGroup()
		return p.opaque(kind, startTok.Span.Lo)
	}
	if p.looksLikeStructLit() {
		p.skipGroup()
		return p.opaque("struct", startTok.Span.Lo)
	}

	x := &PathExpr{Text: p.textFrom(start, false)}
	x.span = MkSpan(startTok.Span.Lo, p.prevEnd())
	return x
}
