package mock

import (
	"context"

	"github.com/fwojciec/coursenotes"
)

var _ coursenotes.ContentLoader = (*ContentLoader)(nil)

// ContentLoader is a mock implementation of coursenotes.ContentLoader.
type ContentLoader struct {
	LoadFn    func(ctx context.Context, url string) (*coursenotes.Content, error)
	LoadAllFn func(ctx context.Context, urls []string) *coursenotes.Batch
}

func (l *ContentLoader) Load(ctx context.Context, url string) (*coursenotes.Content, error) {
	return l.LoadFn(ctx, url)
}

func (l *ContentLoader) LoadAll(ctx context.Context, urls []string) *coursenotes.Batch {
	return l.LoadAllFn(ctx, urls)
}
