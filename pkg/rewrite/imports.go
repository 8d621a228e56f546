package rewrite

import (
	"slices"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// visitUse rewrites list imports. Simple and glob imports, and lists with
// comments inside, are copied as they are.
func (v *Visitor) visitUse(it *syntax.UseItem) {
	span := it.Span()
	if it.Kind != syntax.UseList || len(it.List) == 0 || v.hasComments(span) {
		v.pushSnippet(span)
		return
	}

	text := rewriteUseList(useListLayout{
		vis:       visPrefix(it.Vis),
		prefix:    it.Prefix,
		entries:   orderUseList(it.List, v.cfg.ReorderImportedNames),
		indent:    v.blockIndent,
		oneLine:   v.cfg.MaxWidth - v.blockIndent,
		multiLine: v.cfg.IdealWidth - v.blockIndent,
	})
	v.pushAt(span, text)
	v.lastPos = span.Hi
}

type useListLayout struct {
	vis     string
	prefix  []string
	entries []string

	// indent is the column the declaration starts at.
	indent int

	// oneLine is the width budget for the single-line form and multiLine
	// the budget for each line of the wrapped form.
	oneLine   int
	multiLine int
}

// rewriteUseList renders a list import. A single entry collapses the braces,
// with self naming the prefix itself. Lists that do not fit on one line are
// packed greedily, continuation lines aligned after the opening brace.
func rewriteUseList(l useListLayout) string {
	path := strings.Join(l.prefix, "::")
	head := l.vis + "use "

	if len(l.entries) == 1 {
		entry := l.entries[0]
		switch {
		case entry == "self" && path != "":
			return head + path + ";"
		case path == "":
			return head + entry + ";"
		default:
			return head + path + "::" + entry + ";"
		}
	}

	open := head + "{"
	if path != "" {
		open = head + path + "::{"
	}
	line := open + strings.Join(l.entries, ", ") + "};"
	if textWidth(line) <= l.oneLine {
		return line
	}

	align := makeIndent(l.indent + textWidth(open))
	var b strings.Builder
	b.WriteString(open)
	col := textWidth(open)
	for i, entry := range l.entries {
		piece := entry + ","
		if i == len(l.entries)-1 {
			piece = entry + "};"
		}
		if i > 0 {
			if col+1+textWidth(piece) > l.multiLine {
				b.WriteByte('\n')
				b.WriteString(align)
				col = textWidth(open)
			} else {
				b.WriteByte(' ')
				col++
			}
		}
		b.WriteString(piece)
		col += textWidth(piece)
	}
	return b.String()
}

// orderUseList moves self to the front and, with reorder set, sorts the
// other entries case-insensitively.
func orderUseList(list []string, reorder bool) []string {
	out := make([]string, 0, len(list))
	rest := make([]string, 0, len(list))
	for _, entry := range list {
		if entry == "self" {
			out = append(out, entry)
		} else {
			rest = append(rest, entry)
		}
	}
	if reorder {
		slices.SortStableFunc(rest, func(a, b string) int {
			if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})
	}
	return append(out, rest...)
}
