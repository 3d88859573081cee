package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/coursenotes"
)

// Ensure RegionExtractor implements coursenotes.Extractor at compile time.
var _ coursenotes.Extractor = (*RegionExtractor)(nil)

// DefaultRegionSelectors locate the content region of LMS pages, most
// specific first. The first selector matching an element with text wins.
var DefaultRegionSelectors = []string{
	"#region-main [role='main']",
	"#region-main",
	"[role='main']",
	"main",
	"article",
}

// RegionExtractor picks the main content region of an LMS page by CSS
// selector. It is exact on known themes and needs no content heuristics.
type RegionExtractor struct {
	Selectors []string
}

// NewRegionExtractor returns a RegionExtractor using DefaultRegionSelectors.
func NewRegionExtractor() *RegionExtractor {
	return &RegionExtractor{Selectors: DefaultRegionSelectors}
}

// Extract returns the inner HTML of the first matching region. The title
// is the region's first heading, or the document title.
func (e *RegionExtractor) Extract(rawHTML string) (*coursenotes.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range e.Selectors {
		region := doc.Find(selector).First()
		if region.Length() == 0 || strings.TrimSpace(region.Text()) == "" {
			continue
		}
		content, err := region.Html()
		if err != nil {
			return nil, err
		}
		title := strings.TrimSpace(region.Find("h1, h2").First().Text())
		if title == "" {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		return &coursenotes.ExtractResult{Title: title, ContentHTML: strings.TrimSpace(content)}, nil
	}

	return nil, coursenotes.Errorf(coursenotes.ENOTFOUND, "no content region found")
}
