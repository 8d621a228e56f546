package changes_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func sp(lo, hi int) syntax.Span {
	return syntax.MkSpan(syntax.Pos(lo), syntax.Pos(hi))
}

func TestPositionIndexResolve(t *testing.T) {
	t.Parallel()

	adjacent := changes.NewPositionIndex([]syntax.Span{sp(0, 10), sp(10, 25)})
	separated := changes.NewPositionIndex([]syntax.Span{sp(0, 10), sp(11, 20), sp(21, 30)})

	tests := []struct {
		name  string
		index *changes.PositionIndex
		span  syntax.Span
		want  []syntax.Span
	}{
		{"split at file boundary", adjacent, sp(5, 20), []syntax.Span{sp(5, 10), sp(10, 20)}},
		{"inside first file", adjacent, sp(2, 8), []syntax.Span{sp(2, 8)}},
		{"inside last file", adjacent, sp(12, 20), []syntax.Span{sp(12, 20)}},
		{"whole first file", adjacent, sp(0, 10), []syntax.Span{sp(0, 10)}},
		{"zero length", adjacent, sp(7, 7), nil},
		{"remainder past last file", adjacent, sp(20, 40), []syntax.Span{sp(20, 40)}},
		{"three files", separated, sp(3, 25), []syntax.Span{sp(3, 10), sp(11, 20), sp(21, 25)}},
		{"starts in separator", separated, sp(10, 15), []syntax.Span{sp(11, 15)}},
		{"ends at next file start", separated, sp(5, 11), []syntax.Span{sp(5, 10)}},
		{"empty index", changes.NewPositionIndex(nil), sp(0, 5), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.index.Resolve(tt.span)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%s) mismatch (-want +got):\n%s", tt.span, diff)
			}
		})
	}
}

func TestPositionIndexResolveBeforeFirstFile(t *testing.T) {
	t.Parallel()

	ix := changes.NewPositionIndex([]syntax.Span{sp(5, 10), sp(10, 20)})
	assert.Equal(t, []syntax.Span{sp(2, 10), sp(10, 12)}, ix.Resolve(sp(2, 12)))
}

func TestPositionIndexResolveCoversSpan(t *testing.T) {
	t.Parallel()

	ix := changes.NewPositionIndex([]syntax.Span{sp(0, 4), sp(4, 9), sp(9, 15), sp(15, 16)})
	for lo := 0; lo <= 16; lo++ {
		for hi := lo; hi <= 16; hi++ {
			pieces := ix.Resolve(sp(lo, hi))
			next := syntax.Pos(lo)
			for _, p := range pieces {
				if p.Lo != next || p.IsEmpty() {
					t.Fatalf("Resolve(%s) = %v: piece %s is not contiguous", sp(lo, hi), pieces, p)
				}
				next = p.Hi
			}
			if hi > lo && next != syntax.Pos(hi) {
				t.Fatalf("Resolve(%s) = %v: stops at %d", sp(lo, hi), pieces, next)
			}
		}
	}
}

func TestPositionIndexResolveInvertedPanics(t *testing.T) {
	t.Parallel()

	ix := changes.NewPositionIndex([]syntax.Span{sp(0, 10)})
	assert.Panics(t, func() { ix.Resolve(sp(6, 5)) })
}
