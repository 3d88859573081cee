package coursenotes

import "context"

// SitemapService lists page URLs published in an XML sitemap.
type SitemapService interface {
	// URLs returns the page URLs in the sitemap at sitemapURL, following
	// sitemap indexes. Order follows the documents.
	URLs(ctx context.Context, sitemapURL string) ([]string, error)
}
