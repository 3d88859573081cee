package htmltomarkdown

import (
	"strings"

	"github.com/fwojciec/coursenotes"
)

// DefaultTitle is used when an export has no title.
const DefaultTitle = "Course Notes"

// Assembler builds a Markdown document from converted sections: a title,
// an optional subtitle, a table of contents, then one level-2 heading per
// section. Headings inside a section body are demoted below it.
type Assembler struct {
	Subtitle string

	// TOCDepth is the deepest heading level listed in the table of
	// contents. Zero disables the table of contents.
	TOCDepth int
}

// NewAssembler returns an Assembler with the default subtitle and a
// table of contents listing sections and their top-level headings.
func NewAssembler() *Assembler {
	return &Assembler{Subtitle: "Course Notes", TOCDepth: 3}
}

// Assemble joins sections into a Markdown document.
func (a *Assembler) Assemble(title string, sections []coursenotes.TypesetSection) string {
	var body strings.Builder
	for _, s := range sections {
		body.WriteString("## ")
		body.WriteString(collapse(s.Name))
		body.WriteString("\n\n")
		body.WriteString(strings.TrimSpace(demote(s.Body, 2)))
		body.WriteString("\n\n")
	}

	var doc strings.Builder
	doc.WriteString("# ")
	doc.WriteString(collapse(title))
	doc.WriteString("\n\n")
	if a.Subtitle != "" {
		doc.WriteString("_" + a.Subtitle + "_\n\n")
	}
	if toc := a.toc(title, body.String()); toc != "" {
		doc.WriteString("## Table of Contents\n\n")
		doc.WriteString(toc)
		doc.WriteString("\n")
	}
	doc.WriteString(body.String())
	return strings.TrimRight(doc.String(), "\n") + "\n"
}

// toc lists the body's headings down to TOCDepth. Anchors are computed
// against the full document so duplicates match what renderers produce.
func (a *Assembler) toc(title, body string) string {
	if a.TOCDepth < 2 {
		return ""
	}
	prefix := "# " + collapse(title) + "\n\n## Table of Contents\n\n"
	skip := len(headings(prefix))
	var sb strings.Builder
	for _, h := range headings(prefix + body)[skip:] {
		if h.Level < 2 || h.Level > a.TOCDepth {
			continue
		}
		sb.WriteString(strings.Repeat("  ", h.Level-2))
		sb.WriteString("- [")
		sb.WriteString(h.Title)
		sb.WriteString("](#")
		sb.WriteString(h.Anchor)
		sb.WriteString(")\n")
	}
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
