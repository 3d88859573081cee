package typst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwojciec/coursenotes"
)

// Ensure Compiler implements coursenotes.Compiler at compile time.
var _ coursenotes.Compiler = (*Compiler)(nil)

// Compiler runs the typst binary to turn a document into PDF.
type Compiler struct {
	// Binary is the typst executable, looked up on PATH if not absolute.
	Binary string
}

// NewCompiler returns a Compiler using the typst binary on PATH.
func NewCompiler() *Compiler {
	return &Compiler{Binary: "typst"}
}

// Compile compiles source and returns the PDF bytes. A compiler failure is
// returned as an error carrying the compiler's diagnostics.
func (c *Compiler) Compile(ctx context.Context, source string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "coursenotes-typst-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "document.typ")
	out := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(in, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Binary, "compile", in, out)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, coursenotes.Errorf(coursenotes.ENOTIMPLEMENTED, "typst binary %q not found", c.Binary)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, coursenotes.Errorf(coursenotes.EINTERNAL, "typst compile failed: %s", msg)
	}

	pdf, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	return pdf, nil
}
