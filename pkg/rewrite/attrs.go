package rewrite

import (
	"slices"
	"strings"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

//nolint:gochecknoglobals // Static lookup table
var skipMarkers = map[string]bool{
	"rsfmt_skip":    true,
	"rustfmt_skip":  true,
	"rustfmt::skip": true,
}

// isSkip reports whether a is a bare skip marker such as #[rustfmt::skip].
func isSkip(a *syntax.Attribute) bool {
	return !a.Doc && a.Word && skipMarkers[a.Path]
}

func hasSkip(attrs []*syntax.Attribute) bool {
	return slices.ContainsFunc(attrs, isSkip)
}

// visitAttrs writes an attribute list, each attribute on its own line at the
// current indent. It reports true, writing nothing, when the list carries a
// skip marker: the owner of the list must then be copied unchanged.
func (v *Visitor) visitAttrs(attrs []*syntax.Attribute) bool {
	if len(attrs) == 0 {
		return false
	}
	if hasSkip(attrs) {
		return true
	}

	first, last := attrs[0], attrs[len(attrs)-1]
	v.formatMissingWithIndent(first.Span().Lo)
	v.pushAt(first.Span(), v.rewriteAttrs(attrs))
	v.lastPos = last.Span().Hi
	return false
}

// skipped handles the attributes of a node ending at end. When they carry a
// skip marker the node is copied verbatim, attributes included, and skipped
// reports true.
func (v *Visitor) skipped(attrs []*syntax.Attribute, end syntax.Pos) bool {
	if !v.visitAttrs(attrs) {
		return false
	}
	v.logger.Debug("skip marker", logging.FieldSpan, v.sm.Lookup(attrs[0].Span().Lo))
	v.formatMissingWithIndent(attrs[0].Span().Lo)
	v.copyVerbatim(end)
	return true
}

// rewriteAttrs renders attrs starting at the cursor column. Comments between
// attributes are kept on their own lines with block comment interiors left
// alone; a blank line between doc comments survives as a single empty line.
func (v *Visitor) rewriteAttrs(attrs []*syntax.Attribute) string {
	indent := makeIndent(v.blockIndent)
	var b strings.Builder
	for i, a := range attrs {
		text := v.snippet(a.Span())
		if i > 0 {
			gap := v.snippet(syntax.MkSpan(attrs[i-1].Span().Hi, a.Span().Lo))
			if comment := strings.TrimSpace(gap); comment != "" {
				body, _, _ := renderGap(comment+"\n", gapOptions{
					maxBlank:    v.cfg.MaxBlankLines,
					reindent:    true,
					indent:      indent,
					trimLeading: true,
				})
				b.WriteString(body)
			} else if strings.HasPrefix(text, "//") && strings.Count(gap, "\n") > 1 {
				b.WriteByte('\n')
			}
			b.WriteString(indent)
		}
		b.WriteString(strings.TrimRight(text, " \t\r"))
		if i < len(attrs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
