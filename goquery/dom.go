package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/coursenotes"
	"golang.org/x/net/html"
)

// removeContainers removes wrapper elements whose text or markup contains
// a boilerplate phrase. Containers larger than MaxContainerBytes are kept.
func (s *Sanitizer) removeContainers(doc *goquery.Document, result *coursenotes.SanitizeResult) {
	if len(s.phrases) == 0 {
		return
	}
	root := doc.Nodes[0]
	for _, class := range s.opts.ContainerClasses {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		doc.Find("." + class).Each(func(_ int, sel *goquery.Selection) {
			// A container nested in one already removed is gone with it.
			if !attached(sel.Nodes[0], root) {
				return
			}
			outer, err := goquery.OuterHtml(sel)
			if err != nil {
				return
			}
			if s.opts.MaxContainerBytes > 0 && len(outer) > s.opts.MaxContainerBytes {
				return
			}
			if s.containsPhrase(strings.ToLower(outer)) || s.containsPhrase(strings.ToLower(sel.Text())) {
				sel.Remove()
				result.Removed["container"]++
			}
		})
	}
}

func (s *Sanitizer) containsPhrase(text string) bool {
	for _, p := range s.phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// removeImages removes spacer, icon, tracking-pixel and source-less images.
func (s *Sanitizer) removeImages(doc *goquery.Document, result *coursenotes.SanitizeResult) {
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if junkImage(src) {
			sel.Remove()
			result.Removed["image"]++
		}
	})
}

func junkImage(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return true
	}
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "data:image/gif") ||
		strings.Contains(lower, "spacer") ||
		strings.Contains(lower, "icon")
}

// removeDuplicateHeadings keeps the first heading of each level and text,
// in document order, and removes later repeats.
func (s *Sanitizer) removeDuplicateHeadings(doc *goquery.Document, result *coursenotes.SanitizeResult) {
	seen := make(map[string]bool)
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		key := goquery.NodeName(sel) + "\x00" + text
		if seen[key] {
			sel.Remove()
			result.Removed["duplicate_heading"]++
			return
		}
		seen[key] = true
	})
}

// removeEmptyParagraphs removes small paragraphs with no visible text and
// no embedded media.
func (s *Sanitizer) removeEmptyParagraphs(doc *goquery.Document, result *coursenotes.SanitizeResult) {
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if sel.Find("img, iframe, video, audio, object, embed").Length() > 0 {
			return
		}
		text := strings.ReplaceAll(sel.Text(), "&nbsp;", "")
		if strings.TrimSpace(text) != "" {
			return
		}
		if s.opts.MaxEmptyParagraphBytes > 0 {
			outer, err := goquery.OuterHtml(sel)
			if err != nil || len(outer) > s.opts.MaxEmptyParagraphBytes {
				return
			}
		}
		sel.Remove()
		result.Removed["empty_paragraph"]++
	})
}

// appendImageTokens adds a token query parameter to same-origin and
// relative image URLs so the client can load them without a session.
func (s *Sanitizer) appendImageTokens(doc *goquery.Document, token string) {
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		rewritten, ok := s.withToken(src, token)
		if !ok {
			return
		}
		sel.SetAttr("src", rewritten)
	})
}

// withToken returns src with the token appended, or false when src must
// be left alone.
func (s *Sanitizer) withToken(src, token string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
		return "", false
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if u.Query().Has("token") {
		return "", false
	}
	if u.Host != "" || u.Scheme != "" {
		if s.originHost == "" || !strings.EqualFold(u.Hostname(), s.originHost) {
			return "", false
		}
	}

	base, fragment, hasFragment := strings.Cut(src, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	out := base + sep + "token=" + url.QueryEscape(token)
	if hasFragment {
		out += "#" + fragment
	}
	return out, true
}

// attached reports whether n is still reachable from root.
func attached(n, root *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}
