package reporter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Mismatch is one run of lines where the formatted output differs from the
// source. Line numbers are 1-based; an End below its Begin marks an empty range.
type Mismatch struct {
	OriginalBegin int `json:"originalBeginLine"`
	OriginalEnd   int `json:"originalEndLine"`
	ExpectedBegin int `json:"expectedBeginLine"`
	ExpectedEnd   int `json:"expectedEndLine"`

	Original string `json:"original"`
	Expected string `json:"expected"`
}

// Mismatches lists the line ranges where expected differs from original.
func Mismatches(original, expected string) []Mismatch {
	if original == expected {
		return nil
	}

	a, b := splitLines(original), splitLines(expected)
	var out []Mismatch
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		out = append(out, Mismatch{
			OriginalBegin: op.I1 + 1,
			OriginalEnd:   op.I2,
			ExpectedBegin: op.J1 + 1,
			ExpectedEnd:   op.J2,
			Original:      strings.Join(a[op.I1:op.I2], "\n"),
			Expected:      strings.Join(b[op.J1:op.J2], "\n"),
		})
	}
	return out
}

// splitLines splits text into lines without their terminators. A final
// line terminator does not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// unifiedDiff renders a unified diff of one file.
func unifiedDiff(path, original, expected string, contextLines int) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        diffLines(original),
		B:        diffLines(expected),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	})
}

// diffLines splits text into lines that keep their terminators. A missing
// final terminator is added so the last line does not run into the next
// diff line.
func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}

// displayPath makes path relative to workDir, or to the process working
// directory when workDir is empty. Paths that would climb more than two
// levels fall back to the base name.
func displayPath(workDir, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	base := workDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		base = cwd
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
