package goquery

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// removedTags are dropped with their contents wherever they appear.
var removedTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"nav":    true,
}

// navigationClasses mark site chrome that is removed with its contents.
var navigationClasses = []string{
	"navigation",
	"breadcrumb",
	"modified",
	"activity-navigation",
}

// navigationIDs mark site chrome by element id.
var navigationIDs = []string{
	"page-header",
}

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// impliedEndElements may omit their end tag; they cannot nest in themselves.
var impliedEndElements = map[string]bool{
	"p": true, "li": true, "dt": true, "dd": true, "option": true,
	"tr": true, "td": true, "th": true,
}

// paragraphClosers implicitly end an open <p>.
var paragraphClosers = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "fieldset": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "main": true, "ol": true, "pre": true,
	"section": true, "table": true, "ul": true,
}

// removalReason reports why a start tag should be dropped, or "" to keep it.
func removalReason(tok html.Token) string {
	if removedTags[tok.Data] {
		return tok.Data
	}
	for _, attr := range tok.Attr {
		switch attr.Key {
		case "rel":
			if tok.Data == "link" && hasToken(attr.Val, "stylesheet") {
				return "stylesheet"
			}
		case "class":
			for _, class := range navigationClasses {
				if hasToken(attr.Val, class) {
					return "navigation"
				}
			}
		case "id":
			for _, id := range navigationIDs {
				if strings.TrimSpace(attr.Val) == id {
					return "navigation"
				}
			}
		}
	}
	return ""
}

// hasToken reports whether the whitespace-separated list contains token,
// ignoring case.
func hasToken(list, token string) bool {
	for _, field := range strings.Fields(list) {
		if strings.EqualFold(field, token) {
			return true
		}
	}
	return false
}

// skipper tracks the element currently being dropped by removeElements.
type skipper struct {
	tag   string
	depth int // open elements named tag, for tags that nest
	inner int // open descendants, for tags with optional end tags
}

func (s *skipper) active() bool { return s.tag != "" }

func (s *skipper) start(tag string) { *s = skipper{tag: tag, depth: 1} }

// consume reports how a token inside the dropped element is handled: it is
// swallowed, or it ends the element and must be processed normally.
func (s *skipper) consume(tt html.TokenType, tag string) (swallowed bool) {
	if !impliedEndElements[s.tag] {
		switch {
		case tt == html.StartTagToken && tag == s.tag:
			s.depth++
		case tt == html.EndTagToken && tag == s.tag:
			s.depth--
			if s.depth == 0 {
				s.tag = ""
			}
		}
		return true
	}

	switch tt {
	case html.StartTagToken:
		if s.inner == 0 && (tag == s.tag || (s.tag == "p" && paragraphClosers[tag])) {
			s.tag = ""
			return false
		}
		if !voidElements[tag] {
			s.inner++
		}
	case html.EndTagToken:
		switch {
		case s.inner > 0:
			s.inner--
		case tag == s.tag:
			s.tag = ""
		default:
			// An enclosing element closed; the dropped element ended with it.
			s.tag = ""
			return false
		}
	}
	return true
}

// removeElements drops unwanted elements in a single streaming pass.
// Bytes of retained tokens are copied verbatim. An element left open at
// the end of input is removed up to the end.
func removeElements(src string, removed map[string]int) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src))

	var skip skipper
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return b.String(), nil
		}

		// Raw must be copied before Token, which unescapes attributes in place.
		raw := string(z.Raw())

		if skip.active() {
			if tt != html.StartTagToken && tt != html.EndTagToken {
				continue
			}
			name, _ := z.TagName()
			if skip.consume(tt, string(name)) {
				continue
			}
			if tt == html.EndTagToken {
				b.WriteString(raw)
				continue
			}
			// A sibling start tag ended the dropped element; the tokenizer
			// has already consumed the name, so rebuild the token from raw.
			if reason := removalReason(parseTag(raw)); reason != "" {
				removed[reason]++
				if tag := string(name); !voidElements[tag] {
					skip.start(tag)
				}
				continue
			}
			b.WriteString(raw)
			continue
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			tok := z.Token()
			if reason := removalReason(tok); reason != "" {
				removed[reason]++
				if tt == html.StartTagToken && !voidElements[tok.Data] {
					skip.start(tok.Data)
				}
				continue
			}
		}

		b.WriteString(raw)
	}
}

// parseTag tokenizes a single raw start tag.
func parseTag(raw string) html.Token {
	z := html.NewTokenizer(strings.NewReader(raw))
	z.Next()
	return z.Token()
}

// entityReplacer collapses single- and double-encoded whitespace and quote
// entities to literal characters. Double-encoded brackets and ampersands
// collapse one level only, since a literal '<' or '&' in text is markup.
var entityReplacer = strings.NewReplacer(
	"&amp;nbsp;", " ",
	"&nbsp;", " ",
	"&#160;", " ",
	"\u00a0", " ",
	"&amp;quot;", `"`,
	"&quot;", `"`,
	"&amp;#34;", `"`,
	"&#34;", `"`,
	"&amp;#39;", "'",
	"&#39;", "'",
	"&amp;apos;", "'",
	"&apos;", "'",
	"&amp;amp;", "&amp;",
	"&amp;lt;", "&lt;",
	"&amp;gt;", "&gt;",
)

// normalizeEntities rewrites entities inside text tokens. Tags, attribute
// values and comments are copied verbatim.
func normalizeEntities(src string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return b.String(), nil
		case html.TextToken:
			entityReplacer.WriteString(&b, string(z.Raw()))
		default:
			b.Write(z.Raw())
		}
	}
}
