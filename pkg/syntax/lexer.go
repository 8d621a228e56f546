package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	file *SourceFile
	src  string
	off  int
	toks []Token
}

// Lex splits a source file into tokens. Comments are kept as tokens; the
// final token is always EOF positioned at the end of the file.
func Lex(file *SourceFile) ([]Token, error) {
	lx := &lexer{file: file, src: file.Src}
	lx.shebang()
	for {
		lx.skipSpace()
		if lx.off >= len(lx.src) {
			break
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
	lx.toks = append(lx.toks, Token{Kind: EOF, Span: MkSpan(file.End(), file.End())})
	return lx.toks, nil
}

func (lx *lexer) peek(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *lexer) emit(kind TokenKind, start int) {
	lx.toks = append(lx.toks, Token{
		Kind: kind,
		Span: MkSpan(lx.file.Pos(start), lx.file.Pos(lx.off)),
		Text: lx.src[start:lx.off],
	})
}

func (lx *lexer) errorf(off int, format string, args ...any) error {
	return errorAt(lx.file, lx.file.Pos(off), format, args...)
}

// shebang treats a leading "#!" line as a comment unless it opens an inner attribute.
func (lx *lexer) shebang() {
	if !strings.HasPrefix(lx.src, "#!") || strings.HasPrefix(strings.TrimLeft(lx.src[2:], " \t"), "[") {
		return
	}
	end := strings.IndexByte(lx.src, '\n')
	if end < 0 {
		end = len(lx.src)
	}
	lx.off = end
	lx.emit(LineComment, 0)
}

func (lx *lexer) skipSpace() {
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !unicode.IsSpace(r) {
			return
		}
		lx.off += size
	}
}

func (lx *lexer) next() error {
	start := lx.off
	c := lx.src[lx.off]

	switch {
	case c == '/' && lx.peek(1) == '/':
		lx.lineComment()
		return nil
	case c == '/' && lx.peek(1) == '*':
		return lx.blockComment()
	case c == '"':
		return lx.quoted(start, 0)
	case c == '\'':
		return lx.quote()
	case isDigit(c):
		lx.number()
		return nil
	case c == 'r' && lx.rawStringAt(1):
		return lx.rawString(start, 1)
	case (c == 'b' || c == 'c') && lx.peek(1) == 'r' && lx.rawStringAt(2):
		return lx.rawString(start, 2)
	case (c == 'b' || c == 'c') && lx.peek(1) == '"':
		return lx.quoted(start, 1)
	case c == 'b' && lx.peek(1) == '\'':
		lx.off++
		return lx.charLiteral(start)
	case c == 'r' && lx.peek(1) == '#' && lx.identStartAt(lx.off+2):
		lx.off += 2
		lx.ident(start)
		return nil
	case lx.identStartAt(lx.off):
		lx.ident(start)
		return nil
	}
	return lx.punct()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) identStartAt(off int) bool {
	if off >= len(lx.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(lx.src[off:])
	return isIdentStart(r)
}

func (lx *lexer) ident(start int) {
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !isIdentContinue(r) {
			break
		}
		lx.off += size
	}
	lx.emit(Ident, start)
}

func (lx *lexer) lineComment() {
	start := lx.off
	end := strings.IndexByte(lx.src[start:], '\n')
	if end < 0 {
		lx.off = len(lx.src)
	} else {
		lx.off = start + end
	}
	if lx.off > start && lx.src[lx.off-1] == '\r' {
		lx.off--
	}
	text := lx.src[start:lx.off]
	kind := LineComment
	switch {
	case strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////"):
		kind = OuterDoc
	case strings.HasPrefix(text, "//!"):
		kind = InnerDoc
	}
	lx.emit(kind, start)
	if lx.off < len(lx.src) && lx.src[lx.off] == '\r' {
		lx.off++
	}
}

func (lx *lexer) blockComment() error {
	start := lx.off
	depth := 0
	for lx.off < len(lx.src) {
		switch {
		case strings.HasPrefix(lx.src[lx.off:], "/*"):
			depth++
			lx.off += 2
		case strings.HasPrefix(lx.src[lx.off:], "*/"):
			depth--
			lx.off += 2
			if depth == 0 {
				text := lx.src[start:lx.off]
				kind := BlockComment
				switch {
				case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
					kind = OuterDoc
				case strings.HasPrefix(text, "/*!"):
					kind = InnerDoc
				}
				lx.emit(kind, start)
				return nil
			}
		default:
			lx.off++
		}
	}
	return lx.errorf(start, "unterminated block comment")
}

// quoted lexes a string literal whose opening quote sits prefix bytes after start.
func (lx *lexer) quoted(start, prefix int) error {
	lx.off = start + prefix + 1
	for lx.off < len(lx.src) {
		switch lx.src[lx.off] {
		case '\\':
			lx.off += 2
		case '"':
			lx.off++
			lx.suffix()
			lx.emit(Literal, start)
			return nil
		default:
			lx.off++
		}
	}
	return lx.errorf(start, "unterminated string literal")
}

// rawStringAt reports whether a raw string opener (#*") begins n bytes ahead.
func (lx *lexer) rawStringAt(n int) bool {
	i := lx.off + n
	for i < len(lx.src) && lx.src[i] == '#' {
		i++
	}
	return i < len(lx.src) && lx.src[i] == '"'
}

func (lx *lexer) rawString(start, prefix int) error {
	i := start + prefix
	hashes := 0
	for lx.src[i] == '#' {
		hashes++
		i++
	}
	closer := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(lx.src[i+1:], closer)
	if end < 0 {
		return lx.errorf(start, "unterminated raw string literal")
	}
	lx.off = i + 1 + end + len(closer)
	lx.suffix()
	lx.emit(Literal, start)
	return nil
}

// quote lexes either a character literal or a lifetime.
func (lx *lexer) quote() error {
	start := lx.off
	if lx.peek(1) == '\\' {
		return lx.charLiteral(start)
	}
	if lx.off+1 >= len(lx.src) {
		return lx.errorf(start, "unexpected end of file after quote")
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.off+1:])
	if lx.peek(1+size) == '\'' {
		lx.off += 2 + size
		lx.emit(Literal, start)
		return nil
	}
	if !isIdentStart(r) {
		return lx.errorf(start, "malformed character literal")
	}
	lx.off++
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !isIdentContinue(r) {
			break
		}
		lx.off += size
	}
	lx.emit(Lifetime, start)
	return nil
}

// charLiteral lexes a character literal whose opening quote is at lx.off.
func (lx *lexer) charLiteral(start int) error {
	i := lx.off + 1
	if i < len(lx.src) && lx.src[i] == '\\' {
		i += 2
	} else if i < len(lx.src) {
		_, size := utf8.DecodeRuneInString(lx.src[i:])
		i += size
	}
	for i < len(lx.src) && lx.src[i] != '\'' && lx.src[i] != '\n' {
		i++
	}
	if i >= len(lx.src) || lx.src[i] != '\'' {
		return lx.errorf(start, "unterminated character literal")
	}
	lx.off = i + 1
	lx.emit(Literal, start)
	return nil
}

func (lx *lexer) number() {
	start := lx.off
	hex := lx.src[lx.off] == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'o' || lx.peek(1) == 'b')
	dot := false
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case !hex && (c == 'e' || c == 'E') && (lx.peek(1) == '+' || lx.peek(1) == '-'):
			lx.off += 2
		case c == '_' || isDigit(c) || unicode.IsLetter(rune(c)):
			lx.off++
		case c == '.' && !hex && !dot && isDigit(lx.peek(1)):
			dot = true
			lx.off++
		case c == '.' && !hex && !dot && lx.peek(1) != '.' && !lx.identStartAt(lx.off+1):
			lx.off++
			lx.emit(Literal, start)
			return
		default:
			lx.emit(Literal, start)
			return
		}
	}
	lx.emit(Literal, start)
}

// suffix consumes a literal suffix such as the i32 in 1i32.
func (lx *lexer) suffix() {
	if lx.identStartAt(lx.off) {
		for lx.off < len(lx.src) {
			r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
			if !isIdentContinue(r) {
				return
			}
			lx.off += size
		}
	}
}

func (lx *lexer) punct() error {
	start := lx.off
	rest := lx.src[lx.off:]
	for _, p := range puncts {
		if strings.HasPrefix(rest, p) {
			lx.off += len(p)
			lx.emit(Punct, start)
			return nil
		}
	}
	if strings.IndexByte(";,.(){}[]@#~?:$=!<>-&|+*/^%", rest[0]) < 0 {
		r, _ := utf8.DecodeRuneInString(rest)
		return lx.errorf(start, "unexpected character %q", r)
	}
	lx.off++
	lx.emit(Punct, start)
	return nil
}
