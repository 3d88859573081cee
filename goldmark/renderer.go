// Package goldmark renders Markdown course notes as a standalone HTML page
// using goldmark.
package goldmark

import (
	"bytes"
	"html"
	"strings"

	"github.com/fwojciec/coursenotes"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Ensure Renderer implements coursenotes.Renderer at compile time.
var _ coursenotes.Renderer = (*Renderer)(nil)

const stylesheet = `body{max-width:48rem;margin:2rem auto;padding:0 1rem;font-family:Georgia,serif;line-height:1.5}
table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:.25rem .5rem}
img{max-width:100%}pre{overflow-x:auto}`

// Renderer converts Markdown to HTML. Raw HTML in the input is escaped,
// and headings get GitHub-style ids so table-of-contents links resolve.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GitHub Flavored Markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render returns a complete HTML document titled title.
func (r *Renderer) Render(title, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "empty Markdown input")
	}

	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>\n" + stylesheet + "\n</style>\n</head>\n<body>\n<main>\n")
	b.Write(body.Bytes())
	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String(), nil
}
