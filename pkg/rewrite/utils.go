package rewrite

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

func makeIndent(width int) string {
	return strings.Repeat(" ", width)
}

// textWidth returns the display width of s in terminal columns.
func textWidth(s string) int {
	return uniseg.StringWidth(s)
}

// lastLineWidth returns the display width of the text after the last newline of s.
func lastLineWidth(s string) int {
	return textWidth(s[strings.LastIndexByte(s, '\n')+1:])
}

// endColumn returns the column reached after writing s starting at offset.
func endColumn(offset int, s string) int {
	if strings.Contains(s, "\n") {
		return lastLineWidth(s)
	}
	return offset + textWidth(s)
}

// fits reports whether s is a single line no wider than width.
func fits(s string, width int) bool {
	return !strings.Contains(s, "\n") && textWidth(s) <= width
}

func visPrefix(vis syntax.Visibility) string {
	if vis.Text == "" {
		return ""
	}
	return vis.Text + " "
}

func labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return label + ": "
}

// whereClause renders a where clause on its own line one level deeper than indent.
func whereClause(where string, indent, tabSpaces int) string {
	where = strings.TrimSuffix(strings.TrimSpace(where), ",")
	return "\n" + makeIndent(indent+tabSpaces) + "where " + where
}
