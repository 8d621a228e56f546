package syntax

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownPos is returned when a position does not belong to any loaded file.
	ErrUnknownPos = errors.New("position outside every loaded file")

	// ErrCrossFileSpan is returned when a span starts and ends in different files.
	ErrCrossFileSpan = errors.New("span crosses a file boundary")
)

// SourceFile is one file loaded into a SourceMap.
type SourceFile struct {
	// Name is the path used to read and write the file.
	Name string

	// Src is the full file content.
	Src string

	// Start is the flat position of the first byte of Src.
	Start Pos

	lines []int
}

// End returns the position one past the last byte of the file.
func (f *SourceFile) End() Pos {
	return f.Start + Pos(len(f.Src))
}

// Span returns the span covering the whole file.
func (f *SourceFile) Span() Span {
	return Span{Lo: f.Start, Hi: f.End()}
}

// Size returns the length of the file in bytes.
func (f *SourceFile) Size() int {
	return len(f.Src)
}

// Text returns the source text of span, which must lie inside the file.
func (f *SourceFile) Text(span Span) string {
	return f.Src[span.Lo-f.Start : span.Hi-f.Start]
}

// Offset converts a flat position to a byte offset within the file.
func (f *SourceFile) Offset(pos Pos) int {
	return int(pos - f.Start)
}

// Pos converts a byte offset within the file to a flat position.
func (f *SourceFile) Pos(offset int) Pos {
	return f.Start + Pos(offset)
}

// LineCol returns the 1-based line and column of pos.
func (f *SourceFile) LineCol(pos Pos) (int, int) {
	off := f.Offset(pos)
	line := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > off }) - 1
	if line < 0 {
		line = 0
	}
	return line + 1, off - f.lines[line] + 1
}

func lineStarts(src string) []int {
	starts := make([]int, 1, strings.Count(src, "\n")+1)
	for i := range len(src) {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Loc is a human-readable source location.
type Loc struct {
	File   string
	Line   int
	Column int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// SourceMap assigns every loaded file a disjoint range of the flat position
// space. Consecutive files are separated by one unused position so that the
// end of one file never aliases the start of the next.
type SourceMap struct {
	files []*SourceFile
	next  Pos
}

// NewSourceMap returns an empty source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{}
}

// AddFile registers a file and returns it with its assigned start position.
func (sm *SourceMap) AddFile(name, src string) *SourceFile {
	file := &SourceFile{
		Name:  name,
		Src:   src,
		Start: sm.next,
		lines: lineStarts(src),
	}
	sm.files = append(sm.files, file)
	sm.next = file.End() + 1
	return file
}

// Files returns the loaded files in position order.
func (sm *SourceMap) Files() []*SourceFile {
	return sm.files
}

// File returns the file registered under name.
func (sm *SourceMap) File(name string) (*SourceFile, bool) {
	for _, f := range sm.files {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// LookupFile returns the file whose range contains pos. The position one past
// the last byte of a file belongs to that file.
func (sm *SourceMap) LookupFile(pos Pos) (*SourceFile, bool) {
	idx := sort.Search(len(sm.files), func(i int) bool { return sm.files[i].End() >= pos })
	if idx == len(sm.files) || sm.files[idx].Start > pos {
		return nil, false
	}
	return sm.files[idx], true
}

// Lookup resolves pos to a file, line and column.
func (sm *SourceMap) Lookup(pos Pos) Loc {
	file, ok := sm.LookupFile(pos)
	if !ok {
		return Loc{File: "<unknown>"}
	}
	line, col := file.LineCol(pos)
	return Loc{File: file.Name, Line: line, Column: col}
}

// spanFile returns the single file containing span.
func (sm *SourceMap) spanFile(span Span) (*SourceFile, error) {
	file, ok := sm.LookupFile(span.Lo)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPos, span.Lo)
	}
	if span.Hi < span.Lo || span.Hi > file.End() {
		return nil, fmt.Errorf("%w: %s in %s", ErrCrossFileSpan, span, file.Name)
	}
	return file, nil
}

// SpanToFilename returns the name of the file containing span.
func (sm *SourceMap) SpanToFilename(span Span) (string, error) {
	file, err := sm.spanFile(span)
	if err != nil {
		return "", err
	}
	return file.Name, nil
}

// SpanToSnippet returns the source text covered by span.
func (sm *SourceMap) SpanToSnippet(span Span) (string, error) {
	file, err := sm.spanFile(span)
	if err != nil {
		return "", err
	}
	return file.Text(span), nil
}
