package coursenotes

import "context"

// Content is sanitized HTML loaded for a source URL.
type Content struct {
	URL    string `json:"url"`
	HTML   string `json:"content"`
	Cached bool   `json:"cached"`
}

// BatchItem is the outcome of loading one URL in a batch.
type BatchItem struct {
	URL     string   `json:"url"`
	Content *Content `json:"-"`
	Err     error    `json:"-"`
}

// OK reports whether the item loaded successfully.
func (i *BatchItem) OK() bool {
	return i.Err == nil && i.Content != nil
}

// Batch is the outcome of loading many URLs. Items keep input order.
type Batch struct {
	Total  int
	Loaded int
	Items  []*BatchItem
}

// Item returns the batch item for url, or nil if url was not requested.
func (b *Batch) Item(url string) *BatchItem {
	for _, item := range b.Items {
		if item.URL == url {
			return item
		}
	}
	return nil
}

// ContentLoader loads sanitized content for source URLs, consulting a
// cache before going upstream.
type ContentLoader interface {
	Load(ctx context.Context, url string) (*Content, error)
	LoadAll(ctx context.Context, urls []string) *Batch
}

// Validate returns an error if the content cannot be stored.
func (c *Content) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "content url required")
	}
	return nil
}

// ContentStore saves sanitized content with atomic update semantics.
// Content is staged until Commit and discarded on Abort.
type ContentStore interface {
	Save(ctx context.Context, c *Content) error
	Commit() error
	Abort() error
}
