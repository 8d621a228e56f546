package syntax

import (
	"sort"
	"strings"
)

//nolint:gochecknoglobals // Static spacing tables
var (
	// spacedPuncts take a space on both sides when they are not the first
	// or last token of a run.
	spacedPuncts = map[string]bool{
		",": true, ";": true, ":": true, "=": true, "->": true, "=>": true,
		"+": true, "|": true, "@": true, "==": true, "!=": true, "<=": true,
		">=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
		"^=": true, "&=": true, "|=": true, "<<=": true, ">>=": true, "||": true,
	}

	// tightPuncts never take a space after them.
	tightPuncts = map[string]bool{
		"(": true, "[": true, "<": true, "::": true, "#": true, "$": true,
		".": true, "&": true, "&&": true, "*": true, "!": true, "-": true,
		"?": true, "..": true, "..=": true,
	}

	// spacedKeywords are followed by a space before an opening delimiter.
	spacedKeywords = map[string]bool{
		"mut": true, "ref": true, "dyn": true, "as": true,
		"in": true, "where": true, "move": true, "return": true, "box": true,
	}

	// prefixPuncts are prefix operators unless they follow an operand.
	prefixPuncts = map[string]bool{"&": true, "&&": true, "*": true, "-": true}
)

// JoinTokens renders a token run with canonical single spacing, the way
// rsfmt prints types, patterns, paths and generic parameter lists. With
// tightBraces set, braces hug their contents as in use lists.
func JoinTokens(toks []Token, tightBraces bool) string {
	var b strings.Builder
	binary := false
	for i, tok := range toks {
		if i > 0 {
			prev := toks[i-1]
			if binary || spaceBetween(prev, tok, tightBraces) {
				b.WriteByte(' ')
			}
		}
		binary = false
		if tok.Kind == Punct && prefixPuncts[tok.Text] && i > 0 && isOperand(toks[i-1]) {
			binary = true
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func isOperand(tok Token) bool {
	switch tok.Kind {
	case Literal:
		return true
	case Ident:
		return !IsKeyword(tok.Text) || tok.Text == "self" || tok.Text == "Self"
	case Punct:
		return tok.Text == ")" || tok.Text == "]"
	default:
		return false
	}
}

func spaceBetween(prev, cur Token, tightBraces bool) bool {
	prevPunct := prev.Kind == Punct
	if prevPunct {
		if tightPuncts[prev.Text] {
			return false
		}
		if prev.Text == "{" {
			return !tightBraces && cur.Text != "}"
		}
	}

	if cur.Kind == Punct {
		switch cur.Text {
		case ",", ";", ")", "]", ">", ">>", ".", "::", ":":
			return false
		case "}":
			return !tightBraces
		case "{":
			return true
		case "?", "!", "..", "..=", "&", "&&", "*", "-":
			return prevPunct && spacedPuncts[prev.Text]
		case "<", "(", "[":
			if prevPunct {
				return spacedPuncts[prev.Text]
			}
			return prev.Kind == Ident && spacedKeywords[prev.Text]
		}
		return spacedPuncts[cur.Text] || (prevPunct && spacedPuncts[prev.Text])
	}

	return true
}

// CommentsIn reports whether any plain comment starts inside span.
func (f *File) CommentsIn(span Span) bool {
	idx := sort.Search(len(f.Comments), func(i int) bool { return f.Comments[i].Lo >= span.Lo })
	return idx < len(f.Comments) && f.Comments[idx].Lo < span.Hi
}
