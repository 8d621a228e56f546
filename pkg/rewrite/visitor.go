// Package rewrite implements the rewriting visitor of rsfmt.
//
// A Visitor walks the syntax tree of each file in source order. For every
// node it first flushes the untouched source between its write cursor and
// the node (whitespace, comments, blank lines), then writes either a freshly
// formatted rendering of the node or the node's original text, and finally
// moves the cursor past the node. All output goes through a
// changes.ChangeSet, so every byte of the input is accounted for exactly
// once.
package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/syntax"
)

// ErrInternal is wrapped by every InternalError.
var ErrInternal = errors.New("internal formatter error")

// InternalError reports a broken invariant of the visitor, such as a cursor
// running backwards or output for a file the ChangeSet does not hold. It is
// raised as a panic during traversal and returned by FormatFile.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInternal, e.Msg)
}

// Unwrap allows errors.Is(err, ErrInternal).
func (e *InternalError) Unwrap() error {
	return ErrInternal
}

func internalf(format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
}

// Option configures a Visitor.
type Option func(*Visitor)

// WithLogger sets the logger used for debug traces and snippet warnings.
func WithLogger(logger *log.Logger) Option {
	return func(v *Visitor) {
		v.logger = logger
	}
}

// Visitor rewrites parsed files into a ChangeSet. A Visitor is not safe for
// concurrent use; one Visitor formats all files of a session in turn.
type Visitor struct {
	cfg     *config.Config
	sm      *syntax.SourceMap
	changes *changes.ChangeSet
	logger  *log.Logger

	file *syntax.File

	// lastPos is the write cursor: everything before it has been written.
	lastPos syntax.Pos

	// blockIndent is the current indentation in columns.
	blockIndent int
}

// NewVisitor creates a Visitor writing into cs. cfg supplies the width and
// indentation limits; sm resolves spans to source text.
func NewVisitor(cfg *config.Config, sm *syntax.SourceMap, cs *changes.ChangeSet, opts ...Option) *Visitor {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	v := &Visitor{
		cfg:     cfg,
		sm:      sm,
		changes: cs,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Changes returns the ChangeSet the visitor writes into.
func (v *Visitor) Changes() *changes.ChangeSet {
	return v.changes
}

// Format formats every file in order and stops at the first error.
func (v *Visitor) Format(files []*syntax.File) error {
	for _, f := range files {
		if err := v.FormatFile(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatFile rewrites one parsed file into its ChangeSet buffer. A file
// whose inner attributes carry a skip marker is copied unchanged;
// otherwise the output ends with exactly one newline.
func (v *Visitor) FormatFile(f *syntax.File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ierr, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("format %s: %w", f.Source.Name, ierr)
		}
	}()

	v.file = f
	v.lastPos = f.Source.Start
	v.blockIndent = 0
	v.logger.Debug("format file", logging.FieldFile, f.Source.Name, logging.FieldItems, len(f.Items))

	if v.visitAttrs(f.InnerAttrs) {
		v.copyVerbatim(f.Source.End())
		return nil
	}
	for _, item := range f.Items {
		v.visitItem(item)
	}
	v.formatTail(f.Source.End())
	return nil
}

// FormatSource parses and formats a single in-memory file and returns the
// result rendered with the configured newline style.
func FormatSource(ctx context.Context, cfg *config.Config, name, src string) (string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	sm, file, err := syntax.ParseString(name, src)
	if err != nil {
		return "", err
	}
	cs := changes.FromSourceMap(sm, changes.WithNewlineStyle(cfg.NewlineStyle))
	if err := NewVisitor(cfg, sm, cs, WithLogger(logging.FromContext(ctx))).FormatFile(file); err != nil {
		return "", err
	}
	return cs.Finalize(ctx, name, changes.WriteMode{Kind: changes.Return})
}

// Output helpers.

// push appends text to the current file at the cursor.
func (v *Visitor) push(text string) {
	v.pushAt(syntax.MkSpan(v.lastPos, v.lastPos), text)
}

// pushAt appends text to the file owning span.
func (v *Visitor) pushAt(span syntax.Span, text string) {
	if text == "" {
		return
	}
	if err := v.changes.AppendAt(span, text); err != nil {
		internalf("write %s: %v", span, err)
	}
}

// column returns the display column the next write lands on.
func (v *Visitor) column() int {
	col, err := v.changes.Column(v.file.Source.Name)
	if err != nil {
		internalf("column of %s: %v", v.file.Source.Name, err)
	}
	return col
}

// snippet returns the source text of span. A span the source map cannot
// resolve is logged and yields the empty string, so one bad span does not
// abort the whole run.
func (v *Visitor) snippet(span syntax.Span) string {
	text, err := v.sm.SpanToSnippet(span)
	if err != nil {
		v.logger.Warn("cannot make snippet",
			logging.FieldFrom, v.sm.Lookup(span.Lo),
			logging.FieldTo, v.sm.Lookup(span.Hi),
			logging.FieldError, err)
		return ""
	}
	return text
}

// pushSnippet writes the exact source text of span and moves the cursor to its end.
func (v *Visitor) pushSnippet(span syntax.Span) {
	v.pushAt(span, v.snippet(span))
	v.lastPos = span.Hi
}

// copyVerbatim writes the exact source from the cursor to end.
func (v *Visitor) copyVerbatim(end syntax.Pos) {
	if end < v.lastPos {
		internalf("verbatim copy runs backwards: %d > %d", v.lastPos, end)
	}
	v.pushSnippet(syntax.MkSpan(v.lastPos, end))
}

// hasComments reports whether a plain comment starts inside span.
func (v *Visitor) hasComments(span syntax.Span) bool {
	return v.file.CommentsIn(span)
}

// indented raises the block indent by one level and returns a func that
// restores it.
func (v *Visitor) indented() func() {
	saved := v.blockIndent
	v.blockIndent += v.cfg.TabSpaces
	return func() {
		v.blockIndent = saved
	}
}
