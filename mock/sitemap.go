package mock

import (
	"context"

	"github.com/fwojciec/coursenotes"
)

var _ coursenotes.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of coursenotes.SitemapService.
type SitemapService struct {
	URLsFn func(ctx context.Context, sitemapURL string) ([]string, error)
}

func (s *SitemapService) URLs(ctx context.Context, sitemapURL string) ([]string, error) {
	return s.URLsFn(ctx, sitemapURL)
}
