package typst

import (
	"strings"

	"github.com/fwojciec/coursenotes"
)

// DefaultTitle is used when an export has no title.
const DefaultTitle = "Course Notes"

// Export converts each non-empty section with conv and assembles the
// result. Sections that convert to nothing are dropped; if none remain
// Export returns an EINVALID error.
func Export(conv coursenotes.Converter, asm *Assembler, title string, sections []coursenotes.ExportSection) (string, error) {
	typeset, err := coursenotes.ConvertSections(conv, sections)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return asm.Assemble(title, typeset), nil
}
