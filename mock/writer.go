package mock

import (
	"context"

	"github.com/fwojciec/coursenotes"
)

var _ coursenotes.ExportWriter = (*ExportWriter)(nil)

// ExportWriter is a mock implementation of coursenotes.ExportWriter.
type ExportWriter struct {
	WriteExportFn func(ctx context.Context, f *coursenotes.ExportFile) (string, error)
}

func (w *ExportWriter) WriteExport(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
	return w.WriteExportFn(ctx, f)
}

var _ coursenotes.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of coursenotes.ContentStore.
type ContentStore struct {
	SaveFn   func(ctx context.Context, c *coursenotes.Content) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ContentStore) Save(ctx context.Context, c *coursenotes.Content) error {
	return s.SaveFn(ctx, c)
}

func (s *ContentStore) Commit() error {
	return s.CommitFn()
}

func (s *ContentStore) Abort() error {
	return s.AbortFn()
}
