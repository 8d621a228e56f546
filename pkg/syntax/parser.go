package syntax

import (
	"slices"
)

type parser struct {
	file     *SourceFile
	toks     []Token
	pos      int
	comments []Span

	// noStruct disables struct literals, as in if and while conditions.
	noStruct bool
}

// Parse lexes and parses a source file. Plain comments are dropped from the
// tree and recorded in File.Comments; doc comments become attributes.
func Parse(file *SourceFile) (result *File, err error) {
	all, err := Lex(file)
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, toks: make([]Token, 0, len(all))}
	for _, tok := range all {
		if tok.IsComment() {
			p.comments = append(p.comments, tok.Span)
			continue
		}
		p.toks = append(p.toks, tok)
	}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			result, err = nil, perr
		}
	}()

	return p.parseFile(), nil
}

// ParseString is a convenience for parsing a single in-memory file.
func ParseString(name, src string) (*SourceMap, *File, error) {
	sm := NewSourceMap()
	file := sm.AddFile(name, src)
	parsed, err := Parse(file)
	if err != nil {
		return nil, nil, err
	}
	return sm, parsed, nil
}

// Token cursor helpers.

func (p *parser) tok() Token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) Token {
	idx := min(p.pos+n, len(p.toks)-1)
	return p.toks[idx]
}

func (p *parser) at(text string) bool {
	return p.tok().Is(text)
}

func (p *parser) atEOF() bool {
	return p.tok().Kind == EOF
}

func (p *parser) bump() Token {
	tok := p.tok()
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) eat(text string) bool {
	if p.at(text) {
		p.bump()
		return true
	}
	return false
}

func (p *parser) expect(text string) Token {
	if !p.at(text) {
		p.errorf("expected %q, found %s", text, p.describe())
	}
	return p.bump()
}

func (p *parser) expectIdent() string {
	tok := p.tok()
	if tok.Kind != Ident {
		p.errorf("expected identifier, found %s", p.describe())
	}
	p.bump()
	return tok.Text
}

func (p *parser) describe() string {
	tok := p.tok()
	if tok.Kind == EOF {
		return "end of file"
	}
	return "`" + tok.Text + "`"
}

func (p *parser) errorf(format string, args ...any) {
	panic(errorAt(p.file, p.tok().Span.Lo, format, args...))
}

// prevEnd returns the end of the last consumed token.
func (p *parser) prevEnd() Pos {
	if p.pos == 0 {
		return p.file.Start
	}
	return p.toks[p.pos-1].Span.Hi
}

func (p *parser) textFrom(start int, tightBraces bool) string {
	return JoinTokens(p.toks[start:p.pos], tightBraces)
}

func (p *parser) withStruct(allowed bool, fn func()) {
	saved := p.noStruct
	p.noStruct = !allowed
	defer func() { p.noStruct = saved }()
	fn()
}

// skipGroup consumes a balanced delimited group starting at the opening token.
func (p *parser) skipGroup() {
	if !p.at("(") && !p.at("[") && !p.at("{") {
		p.errorf("expected delimiter, found %s", p.describe())
	}
	depth := 0
	for {
		tok := p.bump()
		if tok.Kind == EOF {
			p.errorf("unclosed delimiter")
		}
		if tok.Kind != Punct {
			continue
		}
		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// skipAngles consumes a balanced <...> run starting at "<".
func (p *parser) skipAngles() {
	p.expect("<")
	depth := 1
	for depth > 0 {
		tok := p.tok()
		if tok.Kind == EOF {
			p.errorf("unclosed generic argument list")
		}
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			p.skipGroup()
			continue
		case tok.Is("<") || tok.Is("<<"):
			depth += len(tok.Text)
		case tok.Is(">"):
			depth--
		case tok.Is(">>"):
			depth -= 2
		case tok.Is(">="):
			depth--
		case tok.Is(">>="):
			depth -= 2
		}
		p.bump()
	}
}

// scan consumes tokens up to the first stop token at nesting depth zero and
// returns their normalized text. An unbalanced closing delimiter also stops
// the scan. With angles set, <...> counts as nesting.
func (p *parser) scan(angles bool, stops ...string) string {
	start := p.pos
	depth := 0
loop:
	for {
		tok := p.tok()
		if tok.Kind == EOF {
			p.errorf("unexpected end of file")
		}
		if depth == 0 && (tok.Kind == Punct || tok.Kind == Ident) && slices.Contains(stops, tok.Text) {
			break
		}
		if tok.Kind == Punct {
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					break loop
				}
				depth--
			case "<":
				if angles {
					depth++
				}
			case ">":
				if angles && depth > 0 {
					depth--
				}
			case ">>":
				if angles {
					depth = max(depth-2, 0)
				}
			}
		}
		p.bump()
	}
	return p.textFrom(start, false)
}

func (p *parser) scanType(stops ...string) string {
	return p.scan(true, stops...)
}

func (p *parser) scanPattern(stops ...string) string {
	return p.scan(false, stops...)
}

// Files and items.

func (p *parser) parseFile() *File {
	f := &File{Source: p.file, Comments: p.comments}
	f.span = p.file.Span()
	f.InnerAttrs = p.parseInnerAttrs()
	for !p.atEOF() {
		f.Items = append(f.Items, p.parseItem())
	}
	return f
}

func (p *parser) atInnerAttr() bool {
	tok := p.tok()
	return tok.Kind == InnerDoc || (tok.Is("#") && p.peekN(1).Is("!") && p.peekN(2).Is("["))
}

func (p *parser) atOuterAttr() bool {
	tok := p.tok()
	return tok.Kind == OuterDoc || (tok.Is("#") && p.peekN(1).Is("["))
}

func (p *parser) parseInnerAttrs() []*Attribute {
	var attrs []*Attribute
	for p.atInnerAttr() {
		attrs = append(attrs, p.parseAttr())
	}
	return attrs
}

func (p *parser) parseOuterAttrs() []*Attribute {
	var attrs []*Attribute
	for p.atOuterAttr() {
		attrs = append(attrs, p.parseAttr())
	}
	return attrs
}

func (p *parser) parseAttr() *Attribute {
	tok := p.tok()
	if tok.IsDoc() {
		p.bump()
		attr := &Attribute{Doc: true, Style: AttrOuter}
		if tok.Kind == InnerDoc {
			attr.Style = AttrInner
		}
		attr.span = tok.Span
		return attr
	}

	attr := &Attribute{Style: AttrOuter}
	p.expect("#")
	if p.eat("!") {
		attr.Style = AttrInner
	}
	open := p.pos
	p.expect("[")
	for p.tok().Kind == Ident || p.at("::") {
		attr.Path += p.bump().Text
	}
	attr.Word = p.at("]")
	p.pos = open
	p.skipGroup()
	attr.span = MkSpan(tok.Span.Lo, p.prevEnd())
	return attr
}

func (p *parser) parseVis() Visibility {
	if !p.at("pub") {
		return Visibility{}
	}
	start := p.pos
	p.bump()
	if p.at("(") {
		next := p.peekN(1)
		if (next.Is("crate") || next.Is("self") || next.Is("super")) && p.peekN(2).Is(")") || next.Is("in") {
			p.skipGroup()
		}
	}
	return Visibility{Text: p.textFrom(start, false)}
}

// atQualifiedKeyword reports whether the upcoming tokens are zero or more of
// the given qualifiers followed by keyword.
func (p *parser) atQualifiedKeyword(keyword string, qualifiers ...string) bool {
	for i := 0; ; i++ {
		tok := p.peekN(i)
		switch {
		case tok.Is(keyword):
			return true
		case tok.Kind == Ident && slices.Contains(qualifiers, tok.Text):
		case tok.Kind == Literal && i > 0 && p.peekN(i-1).Is("extern"):
		default:
			return false
		}
	}
}

func (p *parser) atFnStart() bool {
	return p.atQualifiedKeyword("fn", "const", "async", "unsafe", "safe", "default", "extern")
}

func (p *parser) parseItem() Item {
	return p.parseItemWith(p.parseOuterAttrs())
}

func (p *parser) parseItemWith(attrs []*Attribute) Item {
	start := p.tok().Span.Lo
	base := itemBase{Attrs: attrs, Vis: p.parseVis()}

	switch {
	case p.at("use"):
		return p.parseUse(base, start)
	case p.at("extern") && p.peekN(1).Is("crate"):
		return p.parseExternCrate(base, start)
	case p.at("mod"):
		return p.parseMod(base, start)
	case p.at("struct"):
		return p.parseStruct(base, start)
	case p.atFnStart():
		return p.parseFn(base, start)
	case p.atQualifiedKeyword("trait", "unsafe", "auto"):
		return p.parseTrait(base, start)
	case p.atQualifiedKeyword("impl", "unsafe", "default"):
		return p.parseImpl(base, start)
	case p.at("const") || p.at("static"):
		return p.parseConst(base, start)
	case p.tok().Kind == Ident:
		return p.parseOpaqueItem(base, start)
	}
	p.errorf("expected item, found %s", p.describe())
	return nil
}

func (p *parser) parseUse(base itemBase, start Pos) *UseItem {
	p.expect("use")
	item := &UseItem{itemBase: base, Kind: UseSimple}
	if p.eat("::") {
		item.Prefix = append(item.Prefix, "")
	}
loop:
	for {
		switch {
		case p.at("{"):
			item.Kind = UseList
			item.List = p.parseUseGroup()
			break loop
		case p.at("*"):
			p.bump()
			item.Kind = UseGlob
			break loop
		case p.tok().Kind == Ident:
			item.Prefix = append(item.Prefix, p.bump().Text)
			if !p.eat("::") {
				if p.eat("as") {
					p.expectIdent()
				}
				break loop
			}
		default:
			p.errorf("malformed use declaration at %s", p.describe())
		}
	}
	p.expect(";")
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseUseGroup() []string {
	p.expect("{")
	var entries []string
	for !p.at("}") {
		start := p.pos
		p.scan(false, ",", "}")
		if p.pos == start {
			p.errorf("malformed use list at %s", p.describe())
		}
		entries = append(entries, p.textFrom(start, true))
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return entries
}

func (p *parser) parseExternCrate(base itemBase, start Pos) *ExternCrateItem {
	p.expect("extern")
	p.expect("crate")
	item := &ExternCrateItem{itemBase: base, Name: p.expectIdent()}
	if p.eat("as") {
		p.expectIdent()
	}
	p.expect(";")
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseMod(base itemBase, start Pos) *ModItem {
	p.expect("mod")
	item := &ModItem{itemBase: base, Name: p.expectIdent()}
	if !p.eat(";") {
		open := p.expect("{")
		item.Inline = true
		item.InnerAttrs = p.parseInnerAttrs()
		for !p.at("}") {
			if p.atEOF() {
				p.errorf("unclosed module %s", item.Name)
			}
			item.Items = append(item.Items, p.parseItem())
		}
		closer := p.expect("}")
		item.Inner = MkSpan(open.Span.Hi, closer.Span.Lo)
	}
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseGenerics() string {
	if !p.at("<") {
		return ""
	}
	start := p.pos
	p.skipAngles()
	return p.textFrom(start, false)
}

func (p *parser) parseWhere(stops ...string) string {
	if !p.eat("where") {
		return ""
	}
	return p.scanType(stops...)
}

func (p *parser) parseFnSig() *FnSig {
	sig := &FnSig{}
	sigStart := p.tok().Span.Lo
	for !p.at("fn") {
		tok := p.bump()
		qualifier := tok.Text
		if tok.Is("extern") && p.tok().Kind == Literal {
			qualifier += " " + p.bump().Text
		}
		sig.Qualifiers = append(sig.Qualifiers, qualifier)
	}
	p.expect("fn")
	sig.Name = p.expectIdent()
	sig.Generics = p.parseGenerics()

	p.expect("(")
	for !p.at(")") {
		if p.eat("...") {
			sig.Variadic = true
			break
		}
		sig.Params = append(sig.Params, p.parseParam())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")

	if p.eat("->") {
		sig.Ret = p.scanType("{", ";", "where")
	}
	sig.Where = p.parseWhere("{", ";")
	sig.span = MkSpan(sigStart, p.prevEnd())
	return sig
}

func (p *parser) atSelfParam() bool {
	for i := 0; ; i++ {
		tok := p.peekN(i)
		switch {
		case tok.Is("self"):
			return true
		case tok.Is("&") || tok.Is("mut") || tok.Kind == Lifetime:
		default:
			return false
		}
	}
}

func (p *parser) parseParam() *Param {
	param := &Param{Attrs: p.parseOuterAttrs()}
	startTok := p.tok()
	start := p.pos
	if p.atSelfParam() {
		for !p.at("self") {
			p.bump()
		}
		p.bump()
		param.Pat = p.textFrom(start, false)
		if p.eat(":") {
			param.Ty = p.scanType(",", ")")
		}
	} else {
		param.Pat = p.scanPattern(":", ",", ")")
		if p.eat(":") {
			param.Ty = p.scanType(",", ")")
		} else {
			param.Pat, param.Ty = "", param.Pat
		}
	}
	param.span = MkSpan(startTok.Span.Lo, p.prevEnd())
	return param
}

func (p *parser) parseFn(base itemBase, start Pos) *FnItem {
	item := &FnItem{itemBase: base, Sig: p.parseFnSig()}
	if p.at("{") {
		item.Body = p.parseBlock()
	} else {
		p.expect(";")
	}
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseStruct(base itemBase, start Pos) *StructItem {
	p.expect("struct")
	item := &StructItem{itemBase: base, Name: p.expectIdent()}
	item.Generics = p.parseGenerics()
	item.Where = p.parseWhere("{", ";", "(")

	switch {
	case p.eat(";"):
		item.Kind = StructUnit
	case p.at("("):
		item.Kind = StructTuple
		item.Open = p.bump().Span.Lo
		item.Fields = p.parseFields(")", false)
		item.Close = p.expect(")").Span.Lo
		if item.Where == "" {
			item.Where = p.parseWhere(";")
		}
		p.expect(";")
	case p.at("{"):
		item.Kind = StructNamed
		item.Open = p.bump().Span.Lo
		item.Fields = p.parseFields("}", true)
		item.Close = p.expect("}").Span.Lo
	default:
		p.errorf("expected struct body, found %s", p.describe())
	}
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseFields(closer string, named bool) []*FieldDef {
	var fields []*FieldDef
	for !p.at(closer) {
		field := &FieldDef{Attrs: p.parseOuterAttrs()}
		lo := p.tok().Span.Lo
		field.Vis = p.parseVis()
		if named {
			field.Name = p.expectIdent()
			p.expect(":")
		}
		field.Ty = p.scanType(",", closer)
		field.span = MkSpan(lo, p.prevEnd())
		field.End = field.span.Hi
		fields = append(fields, field)
		if !p.eat(",") {
			break
		}
		field.End = p.prevEnd()
	}
	return fields
}

func (p *parser) parseMembers() ([]Item, Pos, Pos) {
	open := p.expect("{")
	p.parseInnerAttrs()
	var members []Item
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("unclosed item body")
		}
		attrs := p.parseOuterAttrs()
		start := p.tok().Span.Lo
		base := itemBase{Attrs: attrs, Vis: p.parseVis()}
		switch {
		case p.atFnStart():
			members = append(members, p.parseFn(base, start))
		case p.at("const"):
			members = append(members, p.parseConst(base, start))
		default:
			members = append(members, p.parseOpaqueItem(base, start))
		}
	}
	closer := p.expect("}")
	return members, open.Span.Lo, closer.Span.Lo
}

func (p *parser) parseTrait(base itemBase, start Pos) *TraitItem {
	from := p.pos
	for !p.at("trait") {
		p.bump()
	}
	p.bump()
	item := &TraitItem{itemBase: base, Name: p.expectIdent()}
	p.scanType("{", ";")
	item.Header = p.textFrom(from, false)
	if p.at(";") {
		// Trait alias.
		item.Open = p.bump().Span.Lo
		item.Close = item.Open
		item.span = MkSpan(start, p.prevEnd())
		return item
	}
	item.Members, item.Open, item.Close = p.parseMembers()
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseImpl(base itemBase, start Pos) *ImplItem {
	from := p.pos
	for !p.at("impl") {
		p.bump()
	}
	p.bump()
	item := &ImplItem{itemBase: base}
	if p.at("<") {
		p.skipAngles()
	}
	p.scanType("{")
	item.Header = p.textFrom(from, false)
	item.Members, item.Open, item.Close = p.parseMembers()
	item.span = MkSpan(start, p.prevEnd())
	return item
}

func (p *parser) parseConst(base itemBase, start Pos) *ConstItem {
	item := &ConstItem{itemBase: base, Static: p.at("static")}
	p.bump()
	item.Mut = p.eat("mut")
	item.Name = p.bump().Text
	if p.eat(":") {
		item.Ty = p.scanType("=", ";")
	}
	if p.eat("=") {
		item.Init = p.parseExpr()
	}
	p.expect(";")
	item.span = MkSpan(start, p.prevEnd())
	return item
}

// parseOpaqueItem consumes an item without a dedicated rule: up to and
// including a semicolon at depth zero, or through a braced body.
func (p *parser) parseOpaqueItem(base itemBase, start Pos) *OpaqueItem {
	item := &OpaqueItem{itemBase: base, Keyword: p.tok().Text}
	for {
		tok := p.tok()
		switch {
		case tok.Kind == EOF:
			p.errorf("unexpected end of file in %s item", item.Keyword)
		case tok.Is(";"):
			p.bump()
			item.span = MkSpan(start, p.prevEnd())
			return item
		case tok.Is("("), tok.Is("["):
			p.skipGroup()
		case tok.Is("{"):
			p.skipGroup()
			p.eat(";")
			item.span = MkSpan(start, p.prevEnd())
			return item
		case tok.Is("}"):
			p.errorf("unexpected `}` in %s item", item.Keyword)
		default:
			p.bump()
		}
	}
}

// Blocks and statements.

func (p *parser) parseBlock() *Block {
	open := p.expect("{")
	block := &Block{}
	p.withStruct(true, func() {
		p.parseInnerAttrs()
		for !p.at("}") {
			if p.atEOF() {
				p.errorf("unclosed block")
			}
			stmt, tail := p.parseStmt()
			if tail != nil {
				block.Expr = tail
				break
			}
			block.Stmts = append(block.Stmts, stmt)
		}
	})
	closer := p.expect("}")
	block.span = MkSpan(open.Span.Lo, closer.Span.Hi)
	return block
}

func (p *parser) atItemStart() bool {
	tok := p.tok()
	if tok.Kind != Ident {
		return false
	}
	switch tok.Text {
	case "fn", "struct", "enum", "use", "mod", "trait", "impl", "type", "static", "extern", "pub":
		return true
	case "const", "unsafe":
		return !p.peekN(1).Is("{")
	case "macro_rules":
		return p.peekN(1).Is("!")
	case "union", "auto":
		return p.peekN(1).Kind == Ident
	}
	return p.atFnStart()
}

// parseStmt returns either a statement or, when the block ends after an
// expression without a semicolon, the tail expression.
func (p *parser) parseStmt() (Stmt, Expr) {
	attrs := p.parseOuterAttrs()
	start := p.tok().Span.Lo

	switch {
	case p.at(";"):
		p.bump()
		stmt := &EmptyStmt{}
		stmt.span = MkSpan(start, p.prevEnd())
		return stmt, nil
	case p.at("let"):
		return p.parseLet(attrs), nil
	case p.atItemStart():
		return &ItemStmt{Item: p.parseItemWith(attrs)}, nil
	}

	var x Expr
	if p.atBlockLike() {
		x = p.parsePostfix(p.parsePrimary())
	} else {
		x = p.parseExpr()
	}

	stmt := &ExprStmt{Attrs: attrs, X: x}
	stmt.span = x.Span()
	switch {
	case p.eat(";"):
		stmt.Semi = true
		stmt.span.Hi = p.prevEnd()
	case p.at("}"):
		return nil, x
	case !isBlockLike(x):
		p.errorf("expected `;`, found %s", p.describe())
	}
	return stmt, nil
}

func (p *parser) parseLet(attrs []*Attribute) *LetStmt {
	start := p.expect("let").Span.Lo
	stmt := &LetStmt{Attrs: attrs}
	stmt.Pat = p.scanPattern(":", "=", ";")
	if p.eat(":") {
		stmt.Ty = p.scanType("=", ";")
	}
	if p.eat("=") {
		stmt.Init = p.parseExpr()
		if p.eat("else") {
			stmt.Else = p.parseBlock()
		}
	}
	p.expect(";")
	stmt.span = MkSpan(start, p.prevEnd())
	return stmt
}

func (p *parser) atBlockLike() bool {
	tok := p.tok()
	switch {
	case tok.Is("if"), tok.Is("while"), tok.Is("loop"), tok.Is("for"), tok.Is("match"), tok.Is("{"):
		return true
	case tok.Is("unsafe"):
		return p.peekN(1).Is("{")
	case tok.Kind == Lifetime:
		return p.peekN(1).Is(":")
	}
	return false
}

func isBlockLike(x Expr) bool {
	switch x := x.(type) {
	case *BlockExpr, *IfExpr, *WhileExpr, *LoopExpr, *ForExpr:
		return true
	case *OpaqueExpr:
		return x.Kind == "match" || x.Kind == "block_macro"
	}
	return false
}
