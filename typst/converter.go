// Package typst converts clean HTML to Typst markup and assembles
// converted sections into a complete Typst document.
package typst

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/coursenotes"
)

// Ensure Converter implements coursenotes.Converter at compile time.
var _ coursenotes.Converter = (*Converter)(nil)

var entityDecoder = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

var (
	headingRes = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, 4)
		for i := range res {
			n := strconv.Itoa(i + 1)
			res[i] = regexp.MustCompile(`(?is)<h` + n + `(?:\s[^>]*)?>(.*?)</h` + n + `\s*>`)
		}
		return res
	}()
	headingKinds = []string{kindH1, kindH2, kindH3, kindH4}

	listItemRe   = regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.*?)</li\s*>`)
	openItemRe   = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?>`)
	listRe       = regexp.MustCompile(`(?i)</?(?:ul|ol)(?:\s[^>]*)?>`)
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	breakRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	paraCloseRe  = regexp.MustCompile(`(?i)</p\s*>`)
	paraOpenRe   = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(?:div|h5|h6|tr|table|blockquote|section|article|figure)\s*>`)
	tagRe        = regexp.MustCompile(`</?[a-zA-Z!][^<>]*>`)

	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Converter converts clean HTML to Typst markup. It is stateless and safe
// for concurrent use.
type Converter struct{}

// NewConverter returns a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert converts html to Typst markup. Math and headings are lifted out
// before the lossy text passes and restored after escaping. It never
// returns an error: math that cannot be translated is emitted as written.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	var r regions
	s := entityDecoder.Replace(html)
	s = extractMath(s, &r)
	s = extractHeadings(s, &r)
	s = convertLists(s, &r)
	s = stripTags(s)
	s = Escape(s)
	s = r.restore(s, renderHeading, headingKinds...)
	s = r.restore(s, renderMath, kindMath)
	return cleanWhitespace(s), nil
}

func extractMath(s string, r *regions) string {
	return coursenotes.ReplaceMath(s, func(m coursenotes.MathSpan) string {
		return r.protect(kindMath, m.Expr, m.Display)
	})
}

func extractHeadings(s string, r *regions) string {
	for i, re := range headingRes {
		kind := headingKinds[i]
		s = re.ReplaceAllStringFunc(s, func(m string) string {
			text := collapse(tagRe.ReplaceAllString(re.FindStringSubmatch(m)[1], ""))
			if text == "" {
				return "\n\n"
			}
			r.inline(text)
			return "\n\n" + r.protect(kind, text, false) + "\n\n"
		})
	}
	return s
}

func convertLists(s string, r *regions) string {
	s = listItemRe.ReplaceAllStringFunc(s, func(m string) string {
		text := collapse(tagRe.ReplaceAllString(listItemRe.FindStringSubmatch(m)[1], ""))
		r.inline(text)
		return "\n- " + text
	})
	s = openItemRe.ReplaceAllString(s, "\n- ")
	return listRe.ReplaceAllString(s, "\n")
}

func stripTags(s string) string {
	s = commentRe.ReplaceAllString(s, "")
	s = breakRe.ReplaceAllString(s, "\n")
	s = paraCloseRe.ReplaceAllString(s, "\n\n")
	s = paraOpenRe.ReplaceAllString(s, "\n")
	s = blockCloseRe.ReplaceAllString(s, "\n")
	return tagRe.ReplaceAllString(s, "")
}

// renderHeading escapes the heading text once here, since headings are
// lifted out before the document-wide Escape pass and their markup
// characters must still reach Typst as literals.
func renderHeading(reg region) string {
	level := int(reg.kind[1] - '0')
	return strings.Repeat("=", level) + " " + Escape(reg.payload)
}

func renderMath(reg region) string {
	expr, err := TranslateMath(reg.payload)
	if err != nil {
		expr = strings.TrimSpace(reg.payload)
	}
	if reg.display {
		return "\n\n$ " + expr + " $\n\n"
	}
	return "$" + expr + "$"
}

func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.FieldsFunc(line, isBlank), " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' || r == '\r' }

// collapse trims s and folds whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
