package changes

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// ErrUnknownFile is wrapped by every UnknownFileError.
var ErrUnknownFile = errors.New("unknown file")

// UnknownFileError reports an operation on a file the ChangeSet does not hold.
type UnknownFileError struct {
	Name string
}

func (e *UnknownFileError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFile, e.Name)
}

// Unwrap allows errors.Is(err, ErrUnknownFile).
func (e *UnknownFileError) Unwrap() error {
	return ErrUnknownFile
}

// FileNamer resolves the file owning a span.
// *syntax.SourceMap implements it.
type FileNamer interface {
	SpanToFilename(span syntax.Span) (string, error)
}

// FileSpec describes one file of a session: its name and its range in the
// flat position space. The range length is used as the buffer capacity hint.
type FileSpec struct {
	Name string
	Span syntax.Span
}

// Option configures a ChangeSet.
type Option func(*ChangeSet)

// WithNewlineStyle sets the line terminator used when finalizing.
func WithNewlineStyle(style config.NewlineStyle) Option {
	return func(cs *ChangeSet) {
		cs.newline = style
	}
}

// WithStdout sets the writer used by Display mode. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(cs *ChangeSet) {
		cs.stdout = w
	}
}

// ChangeSet holds the rewritten text of every file in a formatting session.
//
// Buffers are append-only. A ChangeSet is not safe for concurrent writes;
// once formatting is done it may be read and finalized concurrently.
type ChangeSet struct {
	index   *PositionIndex
	namer   FileNamer
	buffers map[string]*strings.Builder
	newline config.NewlineStyle
	stdout  io.Writer
}

// New creates a ChangeSet with one empty buffer per file.
func New(files []FileSpec, namer FileNamer, opts ...Option) *ChangeSet {
	ranges := make([]syntax.Span, 0, len(files))
	buffers := make(map[string]*strings.Builder, len(files))
	for _, f := range files {
		ranges = append(ranges, f.Span)
		buf := &strings.Builder{}
		buf.Grow(f.Span.Len())
		buffers[f.Name] = buf
	}

	cs := &ChangeSet{
		index:   NewPositionIndex(ranges),
		namer:   namer,
		buffers: buffers,
		newline: config.NewlineUnix,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// FromSourceMap creates a ChangeSet covering every file loaded into sm.
func FromSourceMap(sm *syntax.SourceMap, opts ...Option) *ChangeSet {
	files := make([]FileSpec, 0, len(sm.Files()))
	for _, f := range sm.Files() {
		files = append(files, FileSpec{Name: f.Name, Span: f.Span()})
	}
	return New(files, sm, opts...)
}

// Resolve splits span into per-file pieces. See PositionIndex.Resolve.
func (cs *ChangeSet) Resolve(span syntax.Span) []syntax.Span {
	return cs.index.Resolve(span)
}

func (cs *ChangeSet) buffer(name string) (*strings.Builder, error) {
	buf, ok := cs.buffers[name]
	if !ok {
		return nil, &UnknownFileError{Name: name}
	}
	return buf, nil
}

// Append adds text to the end of the named file's buffer.
func (cs *ChangeSet) Append(name, text string) error {
	buf, err := cs.buffer(name)
	if err != nil {
		return err
	}
	buf.WriteString(text)
	return nil
}

// AppendAt adds text to the buffer of the file owning span.
func (cs *ChangeSet) AppendAt(span syntax.Span, text string) error {
	name, err := cs.namer.SpanToFilename(span)
	if err != nil {
		return fmt.Errorf("resolve file for %s: %w", span, err)
	}
	return cs.Append(name, text)
}

// Len returns the current length in bytes of the named file's buffer.
func (cs *ChangeSet) Len(name string) (int, error) {
	buf, err := cs.buffer(name)
	if err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// Text returns the current contents of the named file's buffer.
func (cs *ChangeSet) Text(name string) (string, error) {
	buf, err := cs.buffer(name)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Column returns the display width of the text after the last newline of
// the named file's buffer, which is where the next append lands.
func (cs *ChangeSet) Column(name string) (int, error) {
	text, err := cs.Text(name)
	if err != nil {
		return 0, err
	}
	return uniseg.StringWidth(text[strings.LastIndexByte(text, '\n')+1:]), nil
}

// ColumnAt is Column for the file owning span.
func (cs *ChangeSet) ColumnAt(span syntax.Span) (int, error) {
	name, err := cs.namer.SpanToFilename(span)
	if err != nil {
		return 0, fmt.Errorf("resolve file for %s: %w", span, err)
	}
	return cs.Column(name)
}

// Files returns the names of all files in sorted order.
func (cs *ChangeSet) Files() []string {
	names := make([]string, 0, len(cs.buffers))
	for name := range cs.buffers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllText iterates over (name, text) pairs in sorted name order. The set of
// names is captured when iteration starts; call again to restart.
func (cs *ChangeSet) AllText() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range cs.Files() {
			if !yield(name, cs.buffers[name].String()) {
				return
			}
		}
	}
}

func (cs *ChangeSet) String() string {
	var b strings.Builder
	for name, text := range cs.AllText() {
		b.WriteString(name)
		b.WriteString(":\n")
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}
