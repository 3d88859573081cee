package htmltomarkdown

import (
	"strings"

	"github.com/fwojciec/coursenotes"
)

// Export converts each non-empty section with conv and assembles a
// Markdown document. It fails with EINVALID when no section has content.
func Export(conv coursenotes.Converter, asm *Assembler, title string, sections []coursenotes.ExportSection) (string, error) {
	converted, err := coursenotes.ConvertSections(conv, sections)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return asm.Assemble(title, converted), nil
}
