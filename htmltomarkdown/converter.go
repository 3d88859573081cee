// Package htmltomarkdown converts clean HTML into Markdown and assembles
// Markdown course-notes documents.
package htmltomarkdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/coursenotes"
)

// Ensure Converter implements coursenotes.Converter at compile time.
var _ coursenotes.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Math spans are copied
// through with their original delimiters and without Markdown escaping.
func (c *Converter) Convert(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "empty HTML input")
	}

	src, math := protectMath(src)
	result, err := c.conv.ConvertString(src)
	if err != nil {
		return "", err
	}

	return restoreMath(result, math), nil
}

// mathMarkerRe matches the stand-ins protectMath leaves in the HTML. They
// are plain letters and digits so the converter has nothing to escape.
var mathMarkerRe = regexp.MustCompile(`coursenotesmath(\d+)end`)

// protectMath swaps math spans for markers and returns the spans with
// entities decoded, indexed by marker.
func protectMath(s string) (string, []string) {
	var spans []string
	s = coursenotes.ReplaceMath(s, func(m coursenotes.MathSpan) string {
		spans = append(spans, html.UnescapeString(m.Source))
		return "coursenotesmath" + strconv.Itoa(len(spans)-1) + "end"
	})
	return s, spans
}

func restoreMath(s string, spans []string) string {
	if len(spans) == 0 {
		return s
	}
	return mathMarkerRe.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(mathMarkerRe.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(spans) {
			return m
		}
		return spans[idx]
	})
}
