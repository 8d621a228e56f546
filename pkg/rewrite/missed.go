package rewrite

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// gapOptions controls how renderGap normalizes untouched source.
type gapOptions struct {
	// maxBlank caps runs of consecutive blank lines.
	maxBlank int

	// reindent moves lines that start outside a block comment to indent.
	reindent bool
	indent   string

	// trimLeading drops blank lines before the first content, as at the
	// start of a file. The first line then counts as a full line.
	trimLeading bool
}

// renderGap normalizes the source between two visited nodes. Every complete
// line loses its trailing whitespace and runs of blank lines are capped.
// Unless trimLeading is set, the first line continues a line already
// written, so it is never counted as blank nor re-indented. The text after
// the final newline is returned untouched in last; newline reports whether
// the gap had any line break at all.
func renderGap(text string, opts gapOptions) (body, last string, newline bool) {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	blank, depth := 0, 0
	wrote := false
	for i, line := range lines[:len(lines)-1] {
		startDepth := depth
		depth = commentDepth(line, depth)
		trimmed := strings.TrimRight(line, " \t\r")

		if i == 0 && !opts.trimLeading {
			b.WriteString(trimmed)
			b.WriteByte('\n')
			continue
		}

		if strings.TrimSpace(trimmed) == "" && startDepth == 0 {
			blank++
			if blank > opts.maxBlank || (opts.trimLeading && !wrote) {
				continue
			}
			b.WriteByte('\n')
			continue
		}

		blank = 0
		wrote = true
		if opts.reindent && startDepth == 0 {
			trimmed = opts.indent + strings.TrimLeft(trimmed, " \t")
		}
		b.WriteString(trimmed)
		b.WriteByte('\n')
	}
	return b.String(), lines[len(lines)-1], len(lines) > 1
}

// commentDepth returns the block comment nesting depth at the end of line
// given the depth at its start.
func commentDepth(line string, depth int) int {
	for i := 0; i+1 < len(line); i++ {
		switch {
		case line[i] == '/' && line[i+1] == '*':
			depth++
			i++
		case depth > 0 && line[i] == '*' && line[i+1] == '/':
			depth--
			i++
		case depth == 0 && line[i] == '/' && line[i+1] == '/':
			return depth
		}
	}
	return depth
}

// gapFinisher writes the last line of a gap.
type gapFinisher func(span syntax.Span, last string, newline bool)

// formatMissing flushes the source between the cursor and end, keeping the
// text after its last newline as it is.
func (v *Visitor) formatMissing(end syntax.Pos) {
	v.formatMissingInner(end, false, 0, func(span syntax.Span, last string, _ bool) {
		v.pushAt(span, last)
	})
}

// formatMissingWithIndent flushes the source between the cursor and end so
// that the next write starts on a fresh line at the current indent. Comment
// lines in the gap move to the current indent as well; a gap without a line
// break gets one.
func (v *Visitor) formatMissingWithIndent(end syntax.Pos) {
	v.formatMissingIndented(end, v.blockIndent)
}

// formatMissingBeforeClose is formatMissingWithIndent for the gap before a
// closing brace: comments stay at the level of the body while the brace
// itself lands at the current indent.
func (v *Visitor) formatMissingBeforeClose(end syntax.Pos) {
	v.formatMissingIndented(end, v.blockIndent+v.cfg.TabSpaces)
}

func (v *Visitor) formatMissingIndented(end syntax.Pos, commentIndent int) {
	indent := makeIndent(v.blockIndent)
	v.formatMissingInner(end, true, commentIndent, func(span syntax.Span, last string, newline bool) {
		text := strings.TrimSpace(last)
		switch {
		case !newline && v.bufferEmpty():
			if text != "" {
				v.pushAt(span, text+"\n")
			}
			v.pushAt(span, indent)
		case !newline:
			v.pushAt(span, strings.TrimRight(last, " \t\r")+"\n"+indent)
		case text == "":
			v.pushAt(span, indent)
		default:
			// A block comment on the same line as the node stays in front of it.
			v.pushAt(span, indent+text+" ")
		}
	})
}

func (v *Visitor) formatMissingInner(end syntax.Pos, reindent bool, commentIndent int, finish gapFinisher) {
	start := v.lastPos
	if start > end {
		internalf("gap runs backwards: %s", v.sm.Lookup(start))
	}
	v.lastPos = end

	span := syntax.MkSpan(start, end)
	pieces := v.changes.Resolve(span)
	if len(pieces) == 0 {
		finish(span, "", false)
		return
	}

	opts := gapOptions{
		maxBlank:    v.cfg.MaxBlankLines,
		reindent:    reindent,
		indent:      makeIndent(commentIndent),
		trimLeading: start == v.file.Source.Start,
	}
	for i, piece := range pieces {
		body, last, newline := renderGap(v.snippet(piece), opts)
		v.pushAt(piece, body)
		if i == len(pieces)-1 {
			finish(piece, last, newline)
		} else {
			v.pushAt(piece, last)
		}
		opts.trimLeading = false
	}
}

// formatTail flushes the source after the last item of a file. Trailing
// whitespace is dropped and a non-empty file ends with exactly one newline.
func (v *Visitor) formatTail(end syntax.Pos) {
	start := v.lastPos
	if start > end {
		internalf("tail runs backwards: %s", v.sm.Lookup(start))
	}
	v.lastPos = end

	span := syntax.MkSpan(start, end)
	var text string
	if start < end {
		body, _, _ := renderGap(v.snippet(span)+"\n", gapOptions{
			maxBlank:    v.cfg.MaxBlankLines,
			reindent:    true,
			trimLeading: start == v.file.Source.Start,
		})
		text = strings.TrimRight(body, " \t\r\n")
	}
	if text != "" || !v.bufferEmpty() {
		v.pushAt(span, text+"\n")
	}
}

func (v *Visitor) bufferEmpty() bool {
	n, err := v.changes.Len(v.file.Source.Name)
	if err != nil {
		internalf("length of %s: %v", v.file.Source.Name, err)
	}
	return n == 0
}
