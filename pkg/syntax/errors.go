package syntax

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel wrapped by every lexing and parsing error.
var ErrSyntax = errors.New("syntax error")

// Error describes malformed source at a location.
type Error struct {
	Loc Loc
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// Unwrap allows errors.Is(err, ErrSyntax).
func (e *Error) Unwrap() error {
	return ErrSyntax
}

func errorAt(file *SourceFile, pos Pos, format string, args ...any) *Error {
	line, col := file.LineCol(pos)
	return &Error{
		Loc: Loc{File: file.Name, Line: line, Column: col},
		Msg: fmt.Sprintf(format, args...),
	}
}
