package typst

import (
	"fmt"
	"strings"

	"github.com/fwojciec/coursenotes"
)

// Assembler combines converted sections into one Typst document with a
// title page and an outline.
type Assembler struct {
	Paper    string
	Font     string
	FontSize string
	Subtitle string
}

// NewAssembler returns an Assembler with the default page setup.
func NewAssembler() *Assembler {
	return &Assembler{
		Paper:    "a4",
		Font:     "New Computer Modern",
		FontSize: "11pt",
		Subtitle: "Course Notes",
	}
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Assemble renders the document. Section names become top-level headings
// followed by their bodies, in order.
func (a *Assembler) Assemble(title string, sections []coursenotes.TypesetSection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#set document(title: \"%s\")\n", stringEscaper.Replace(title))
	fmt.Fprintf(&b, "#set page(paper: \"%s\", margin: (x: 2.5cm, y: 2cm), numbering: \"1\")\n", a.Paper)
	fmt.Fprintf(&b, "#set text(font: \"%s\", size: %s)\n", stringEscaper.Replace(a.Font), a.FontSize)
	b.WriteString("#set heading(numbering: \"1.1\")\n")
	b.WriteString("#set par(justify: true)\n\n")

	b.WriteString("#align(center)[\n")
	b.WriteString("  #v(3cm)\n")
	fmt.Fprintf(&b, "  #text(size: 28pt, weight: \"bold\")[%s]\n", Escape(title))
	b.WriteString("  #v(1cm)\n")
	if a.Subtitle != "" {
		fmt.Fprintf(&b, "  #text(size: 14pt, fill: gray)[%s]\n", Escape(a.Subtitle))
		b.WriteString("  #v(2cm)\n")
	}
	b.WriteString("]\n\n")

	b.WriteString("#pagebreak()\n\n")
	b.WriteString("#outline(title: [Table of Contents], indent: auto)\n\n")
	b.WriteString("#pagebreak()\n\n")
	b.WriteString("// Content\n")

	for _, s := range sections {
		b.WriteString("\n= ")
		b.WriteString(Escape(collapse(s.Name)))
		b.WriteString("\n\n")
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	return b.String()
}
