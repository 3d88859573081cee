// Package trafilatura isolates the main content of full LMS pages using
// go-trafilatura, with its readability and dom-distiller fallbacks.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/coursenotes"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements coursenotes.Extractor at compile time.
var _ coursenotes.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct {
	// OriginalURL, if set, lets trafilatura resolve relative links.
	OriginalURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's main content. Tables, images and links are
// kept since course material relies on them.
func (e *Extractor) Extract(rawHTML string) (*coursenotes.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
		IncludeLinks:   true,
		OriginalURL:    e.OriginalURL,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &coursenotes.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
