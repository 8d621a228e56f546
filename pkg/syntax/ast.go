package syntax

// Node is implemented by every syntax tree node.
type Node interface {
	Span() Span
}

type node struct {
	span Span
}

// Span returns the source range of the node.
func (n *node) Span() Span {
	return n.span
}

// File is a parsed source file.
type File struct {
	node

	Source     *SourceFile
	InnerAttrs []*Attribute
	Items      []Item

	// Comments holds the spans of all plain comments in position order.
	Comments []Span
}

// AttrStyle distinguishes #[outer] from #![inner] attributes.
type AttrStyle uint8

// Attribute styles.
const (
	AttrOuter AttrStyle = iota
	AttrInner
)

// Attribute is a #[...] attribute or a sugared doc comment.
type Attribute struct {
	node

	Style AttrStyle

	// Doc is set for sugared doc comments.
	Doc bool

	// Path is the attribute path with whitespace removed, e.g. "rustfmt::skip".
	Path string

	// Word is set when the attribute carries no arguments.
	Word bool
}

// Visibility is an item or field visibility qualifier.
type Visibility struct {
	// Text is the normalized qualifier, e.g. "pub(crate)". Empty when inherited.
	Text string
}

// Item is a top-level or nested item.
type Item interface {
	Node
	Attributes() []*Attribute
	itemNode()
}

type itemBase struct {
	node

	Attrs []*Attribute
	Vis   Visibility
}

// Attributes returns the outer attributes preceding the item.
func (b *itemBase) Attributes() []*Attribute {
	return b.Attrs
}

func (*itemBase) itemNode() {}

// UseKind distinguishes the forms of a use declaration.
type UseKind uint8

// Use declaration kinds.
const (
	UseSimple UseKind = iota
	UseGlob
	UseList
)

// UseItem is a use declaration.
type UseItem struct {
	itemBase

	Kind UseKind

	// Prefix is the path before the list, e.g. ["std", "io"] for use std::io::{...}.
	// A leading "::" is kept as an empty first segment.
	Prefix []string

	// List holds the normalized entries of a list import.
	List []string
}

// ExternCrateItem is an extern crate declaration.
type ExternCrateItem struct {
	itemBase

	Name string
}

// Param is one function parameter.
type Param struct {
	node

	Attrs []*Attribute

	// Pat is the normalized pattern, or the whole self parameter.
	Pat string

	// Ty is the normalized type. Empty for shorthand self parameters.
	Ty string
}

// FnSig is a function signature without its body.
type FnSig struct {
	node

	// Qualifiers holds const, async, unsafe and extern "abi" in source order.
	Qualifiers []string
	Name       string
	Generics   string
	Params     []*Param
	Variadic   bool
	Ret        string
	Where      string
}

// FnItem is a function. Body is nil for required trait functions and
// foreign declarations.
type FnItem struct {
	itemBase

	Sig  *FnSig
	Body  *Block
}

// StructKind distinguishes unit, tuple and record structs.
type StructKind uint8

// Struct kinds.
const (
	StructUnit StructKind = iota
	StructTuple
	StructNamed
)

// FieldDef is one struct field.
type FieldDef struct {
	node

	Attrs []*Attribute
	Vis   Visibility

	// Name is empty for tuple fields.
	Name string
	Ty   string

	// End is the position after the field's trailing comma, or Span().Hi.
	End Pos
}

// StructItem is a struct definition.
type StructItem struct {
	itemBase

	Kind     StructKind
	Name     string
	Generics string
	Where    string
	Fields   []*FieldDef

	// Open is the position of the opening brace or parenthesis.
	Open Pos
	// Close is the position of the closing brace or parenthesis.
	Close Pos
}

// ModItem is a module declaration.
type ModItem struct {
	itemBase

	Name string

	// Inline is set for mod name { ... }.
	Inline     bool
	InnerAttrs []*Attribute
	Items      []Item

	// Inner spans the text between the braces of an inline module.
	Inner Span
}

// TraitItem is a trait definition. Members are FnItem, ConstItem or OpaqueItem.
// A trait alias has no members and Open equals Close.
type TraitItem struct {
	itemBase

	Name string

	// Header is the normalized text from the trait keyword and its
	// qualifiers up to the opening brace, e.g. "unsafe trait Foo: Bar".
	Header  string
	Members []Item
	Open    Pos
	Close   Pos
}

// ImplItem is an impl block. Members are FnItem, ConstItem or OpaqueItem.
type ImplItem struct {
	itemBase

	// Header is the normalized text up to the opening brace, e.g. "impl<T> Foo for Bar<T>".
	Header  string
	Members []Item
	Open    Pos
	Close   Pos
}

// ConstItem is a const or static item, including associated consts.
type ConstItem struct {
	itemBase

	Static bool
	Mut    bool
	Name   string

	// Ty is the normalized declared type. Empty when omitted.
	Ty string

	// Init is nil for associated consts without a value.
	Init Expr
}

// OpaqueItem is any item without a dedicated rewriting rule. Keyword names
// the introducing keyword, e.g. "enum" or "macro_rules".
type OpaqueItem struct {
	itemBase

	Keyword string
}

// Block is a braced sequence of statements with an optional tail expression.
type Block struct {
	node

	Stmts []Stmt
	Expr  Expr
}

// Open returns the position of the opening brace.
func (b *Block) Open() Pos {
	return b.span.Lo
}

// Close returns the position of the closing brace.
func (b *Block) Close() Pos {
	return b.span.Hi - 1
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// LetStmt is a local binding.
type LetStmt struct {
	node

	Attrs []*Attribute
	Pat   string
	Ty    string
	Init  Expr
	Else  *Block
}

// ItemStmt is an item declared inside a block.
type ItemStmt struct {
	Item Item
}

// ExprStmt is an expression statement. Semi records a trailing semicolon,
// which the statement span then includes.
type ExprStmt struct {
	node

	Attrs []*Attribute
	X     Expr
	Semi  bool
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	node
}

// Span returns the span of the wrapped item.
func (s *ItemStmt) Span() Span { return s.Item.Span() }

func (*LetStmt) stmtNode()   {}
func (*ItemStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()  {}
func (*EmptyStmt) stmtNode() {}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// LitExpr is a literal, including true and false.
type LitExpr struct {
	node

	Text string
}

// PathExpr is a path such as a::b::<T>::c.
type PathExpr struct {
	node

	Text string
}

// BinaryExpr is a binary operation, including assignments.
type BinaryExpr struct {
	node

	Op string
	X  Expr
	Y  Expr
}

// UnaryExpr is a prefix operation: -, ! or *.
type UnaryExpr struct {
	node

	Op string
	X  Expr
}

// RefExpr is a borrow.
type RefExpr struct {
	node

	Mut bool
	X   Expr
}

// CastExpr is an "as" conversion.
type CastExpr struct {
	node

	X  Expr
	Ty string
}

// RangeExpr is a range. Either bound may be nil.
type RangeExpr struct {
	node

	Op string
	X  Expr
	Y  Expr
}

// TryExpr is a postfix question mark.
type TryExpr struct {
	node

	X Expr
}

// CallExpr is a function call.
type CallExpr struct {
	node

	Fun  Expr
	Args []Expr
}

// MethodCallExpr is a method call. Name includes any turbofish.
type MethodCallExpr struct {
	node

	Recv Expr
	Name string
	Args []Expr
}

// FieldExpr is a field access, including tuple indices and .await.
type FieldExpr struct {
	node

	X    Expr
	Name string
}

// IndexExpr is an index operation.
type IndexExpr struct {
	node

	X     Expr
	Index Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	node

	X Expr
}

// TupleExpr is a tuple or the unit value.
type TupleExpr struct {
	node

	Elems []Expr
}

// ArrayExpr is an array literal with listed elements.
type ArrayExpr struct {
	node

	Elems []Expr
}

// JumpExpr is return, break, continue or yield.
type JumpExpr struct {
	node

	Keyword string
	Label   string
	X       Expr
}

// BlockExpr is a block in expression position, optionally labeled or unsafe.
type BlockExpr struct {
	node

	Label  string
	Unsafe bool
	Block  *Block
}

// IfExpr is an if or if let expression. Else is an *IfExpr or *BlockExpr.
type IfExpr struct {
	node

	Cond Expr
	Then *Block
	Else Expr
}

// WhileExpr is a while or while let loop.
type WhileExpr struct {
	node

	Label string
	Cond  Expr
	Body  *Block
}

// LoopExpr is an unconditional loop.
type LoopExpr struct {
	node

	Label string
	Body  *Block
}

// ForExpr is a for loop.
type ForExpr struct {
	node

	Label string
	Pat   string
	Iter  Expr
	Body  *Block
}

// LetExpr is the let pattern = init condition of an if let or while let.
type LetExpr struct {
	node

	Pat  string
	Init Expr
}

// OpaqueExpr is an expression the rewriter copies verbatim, such as a
// match expression, closure, macro call or struct literal.
type OpaqueExpr struct {
	node

	Kind string
}

func (*LitExpr) exprNode()        {}
func (*PathExpr) exprNode()       {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*RefExpr) exprNode()        {}
func (*CastExpr) exprNode()       {}
func (*RangeExpr) exprNode()      {}
func (*TryExpr) exprNode()        {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*JumpExpr) exprNode()       {}
func (*BlockExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*WhileExpr) exprNode()      {}
func (*LoopExpr) exprNode()       {}
func (*ForExpr) exprNode()        {}
func (*LetExpr) exprNode()        {}
func (*OpaqueExpr) exprNode()     {}
