package syntax

// TokenKind classifies a lexed token.
type TokenKind uint8

// Token kinds.
const (
	EOF TokenKind = iota
	Ident
	Lifetime
	Literal
	Punct
	LineComment
	BlockComment
	OuterDoc
	InnerDoc
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case Lifetime:
		return "lifetime"
	case Literal:
		return "literal"
	case Punct:
		return "punctuation"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	case OuterDoc:
		return "doc comment"
	case InnerDoc:
		return "inner doc comment"
	default:
		return "unknown token"
	}
}

// Token is one lexeme of a source file.
type Token struct {
	Kind TokenKind
	Span Span
	Text string
}

// Is reports whether the token is the punctuation or identifier text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == text
}

// IsComment reports whether the token is a plain (non-doc) comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}

// IsDoc reports whether the token is a sugared doc comment.
func (t Token) IsDoc() bool {
	return t.Kind == OuterDoc || t.Kind == InnerDoc
}

//nolint:gochecknoglobals // Static keyword table
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// IsKeyword reports whether text is a reserved Rust keyword.
func IsKeyword(text string) bool {
	return keywords[text]
}

// puncts lists multi-character punctuation, longest first.
//
//nolint:gochecknoglobals // Static punctuation table
var puncts = []string{
	"<<=", ">>=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "<<", ">>", "..",
}
