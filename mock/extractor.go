package mock

import "github.com/fwojciec/coursenotes"

var _ coursenotes.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of coursenotes.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*coursenotes.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*coursenotes.ExtractResult, error) {
	return e.ExtractFn(html)
}
