package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/coursenotes"
)

// Ensure SitemapService implements coursenotes.SitemapService at compile time.
var _ coursenotes.SitemapService = (*SitemapService)(nil)

// SitemapService reads sitemaps through a Fetcher, so sitemap requests
// carry the same token and limits as page requests.
type SitemapService struct {
	fetcher coursenotes.Fetcher
}

// NewSitemapService creates a SitemapService.
func NewSitemapService(fetcher coursenotes.Fetcher) *SitemapService {
	return &SitemapService{fetcher: fetcher}
}

// URLs returns the deduplicated page URLs listed in the sitemap.
func (s *SitemapService) URLs(ctx context.Context, sitemapURL string) ([]string, error) {
	urls, err := s.process(ctx, sitemapURL, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *SitemapService) process(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var all []string
		for _, loc := range locs(root, "sitemap") {
			urls, err := s.process(ctx, loc, seen)
			if err != nil {
				return nil, fmt.Errorf("sitemap index %s: %w", sitemapURL, err)
			}
			all = append(all, urls...)
		}
		return all, nil
	}

	return locs(root, "url"), nil
}

// locs returns the non-blank <loc> values of root's child elements named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
