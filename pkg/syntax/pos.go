// Package syntax provides the Rust source front-end used by rsfmt: a flat
// position space shared by every loaded file, a lexer, and a parser that
// produces the subset of the Rust syntax tree the rewriter understands.
package syntax

import "fmt"

// Pos is an offset into the flat position space of a SourceMap.
type Pos int

// Span is a half-open range [Lo, Hi) of positions.
type Span struct {
	Lo Pos
	Hi Pos
}

// MkSpan builds a span from its bounds.
func MkSpan(lo, hi Pos) Span {
	return Span{Lo: lo, Hi: hi}
}

// Len returns the number of positions covered by the span.
func (s Span) Len() int {
	return int(s.Hi - s.Lo)
}

// IsEmpty reports whether the span covers no positions.
func (s Span) IsEmpty() bool {
	return s.Hi <= s.Lo
}

// Contains reports whether pos lies within the span.
func (s Span) Contains(pos Pos) bool {
	return pos >= s.Lo && pos < s.Hi
}

// Covers reports whether other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return other.Lo >= s.Lo && other.Hi <= s.Hi
}

// To returns the span from the start of s to the end of other.
func (s Span) To(other Span) Span {
	return Span{Lo: s.Lo, Hi: other.Hi}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Lo, s.Hi)
}
