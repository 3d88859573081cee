// Package readability isolates the main content of full LMS pages using
// go-readability. It is lighter than the trafilatura extractor and has no
// fallback chain.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/coursenotes"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements coursenotes.Extractor at compile time.
var _ coursenotes.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct {
	// PageURL, if set, is used to resolve relative links.
	PageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's main content.
func (e *Extractor) Extract(rawHTML string) (*coursenotes.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.PageURL)
	if err != nil {
		return nil, err
	}

	return &coursenotes.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
