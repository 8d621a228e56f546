package changes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// ModeKind selects where finalized text goes.
type ModeKind uint8

const (
	// Overwrite replaces each file in place, keeping the previous content in <name>.bk.
	Overwrite ModeKind = iota

	// NewFile writes <name>.<ext> next to each file and leaves the original alone.
	NewFile

	// Display prints each file's name and text to standard output.
	Display

	// Return renders each file into memory without touching the file system.
	Return
)

// DefaultExtension is the extension used by NewFile when none is given.
const DefaultExtension = "out"

// ErrInvalidMode is returned when a write mode name is not recognized.
var ErrInvalidMode = errors.New("invalid write mode")

// WriteMode is a finalization destination.
type WriteMode struct {
	Kind ModeKind

	// Extension is appended to file names in NewFile mode.
	Extension string
}

// ParseWriteMode parses the CLI name of a write mode.
// ext is only used for "new-file".
func ParseWriteMode(name, ext string) (WriteMode, error) {
	switch strings.ToLower(name) {
	case "overwrite":
		return WriteMode{Kind: Overwrite}, nil
	case "new-file", "newfile":
		if ext == "" {
			ext = DefaultExtension
		}
		return WriteMode{Kind: NewFile, Extension: strings.TrimPrefix(ext, ".")}, nil
	case "display":
		return WriteMode{Kind: Display}, nil
	case "return":
		return WriteMode{Kind: Return}, nil
	default:
		return WriteMode{}, fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

func (m WriteMode) String() string {
	switch m.Kind {
	case Overwrite:
		return "overwrite"
	case NewFile:
		return "new-file(" + m.Extension + ")"
	case Display:
		return "display"
	case Return:
		return "return"
	default:
		return fmt.Sprintf("WriteMode(%d)", m.Kind)
	}
}

// Sequential reports whether files must be finalized one at a time in order.
func (m WriteMode) Sequential() bool {
	return m.Kind == Display || m.Kind == Return
}

// writeText writes text to w using the given newline style. Windows output
// turns every "\n" into "\r\n" and drops existing carriage returns so that
// none are doubled.
func writeText(w io.Writer, text string, style config.NewlineStyle) error {
	if style.Resolve() != config.NewlineWindows {
		_, err := io.WriteString(w, text)
		return err
	}

	bw := bufio.NewWriter(w)
	for i := range len(text) {
		switch c := text[i]; c {
		case '\r':
			// dropped
		case '\n':
			_, _ = bw.WriteString("\r\n")
		default:
			_ = bw.WriteByte(c)
		}
	}
	return bw.Flush()
}
