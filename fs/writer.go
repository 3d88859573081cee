// Package fs provides file-based storage for exports and prefetched content.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fwojciec/coursenotes"
)

// DefaultFilename is used when a title has no usable characters.
const DefaultFilename = "course_notes"

// SafeFilename turns a document title into a file name. Letters, digits,
// spaces, '-' and '_' are kept; every other character becomes '_'.
func SafeFilename(title string) string {
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, title))
	if strings.Trim(name, "_") == "" {
		return DefaultFilename
	}
	return name
}

// Ensure Writer implements coursenotes.ExportWriter at compile time.
var _ coursenotes.ExportWriter = (*Writer)(nil)

// Writer writes export files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteExport writes f to baseDir/<safe title>.<ext>. The file is written
// to a temporary name and renamed into place, so readers never see a
// partial document.
func (w *Writer) WriteExport(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, SafeFilename(f.Title)+"."+f.Ext)

	tmp, err := os.CreateTemp(w.baseDir, ".export-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
