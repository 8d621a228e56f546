package rewrite

// RenderGap exposes renderGap for tests.
func RenderGap(text string, maxBlank int, indent string, trimLeading bool) (string, string, bool) {
	return renderGap(text, gapOptions{
		maxBlank:    maxBlank,
		reindent:    indent != "",
		indent:      indent,
		trimLeading: trimLeading,
	})
}

// RewriteUseList exposes the use list layout for tests.
func RewriteUseList(prefix, entries []string, indent, oneLine, multiLine int) string {
	return rewriteUseList(useListLayout{
		prefix:    prefix,
		entries:   entries,
		indent:    indent,
		oneLine:   oneLine,
		multiLine: multiLine,
	})
}

// OrderUseList exposes orderUseList for tests.
func OrderUseList(list []string, reorder bool) []string {
	return orderUseList(list, reorder)
}
