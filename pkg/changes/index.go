// Package changes accumulates rewritten text per source file and emits it.
//
// Every file of a session occupies a disjoint range of the flat position
// space of a syntax.SourceMap. A ChangeSet keeps one append-only buffer per
// file, translates flat spans into the files they touch, and renders the
// buffers to disk, standard output or memory once formatting is done.
package changes

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// PositionIndex maps the start of every file range to its end.
// It is built once and never modified afterwards.
type PositionIndex struct {
	// Keys are file start positions, values the matching end positions.
	tree btree.Map[syntax.Pos, syntax.Pos]
}

// NewPositionIndex builds an index over the given file ranges, which must
// not overlap.
func NewPositionIndex(ranges []syntax.Span) *PositionIndex {
	ix := &PositionIndex{}
	for _, r := range ranges {
		ix.tree.Set(r.Lo, r.Hi)
	}
	return ix
}

// Len returns the number of indexed files.
func (ix *PositionIndex) Len() int {
	return ix.tree.Len()
}

// Resolve splits span into pieces that each lie within a single file range,
// in position order. The search starts at the file with the greatest start
// not after span.Lo, or the first file if there is none. Positions past the
// last file are returned as one final piece. Empty pieces are dropped, so a
// zero-length span or an empty index yields nil.
//
// Resolve panics if span.Lo > span.Hi.
func (ix *PositionIndex) Resolve(span syntax.Span) []syntax.Span {
	if span.Lo > span.Hi {
		panic(fmt.Sprintf("changes: inverted span %s", span))
	}
	if span.Lo == span.Hi || ix.tree.Len() == 0 {
		return nil
	}

	iter := ix.tree.Iter()
	switch {
	case !iter.Seek(span.Lo):
		iter.Last()
	case iter.Key() > span.Lo && !iter.Prev():
		iter.First()
	}

	var pieces []syntax.Span
	start, curEnd := span.Lo, iter.Value()
	for {
		if !iter.Next() || start >= span.Hi {
			if start < span.Hi {
				pieces = append(pieces, syntax.MkSpan(start, span.Hi))
			}
			return pieces
		}

		end := min(curEnd, span.Hi)
		if start < end {
			pieces = append(pieces, syntax.MkSpan(start, end))
		}
		start, curEnd = iter.Key(), iter.Value()
	}
}
