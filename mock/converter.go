package mock

import "github.com/fwojciec/coursenotes"

var _ coursenotes.Converter = (*Converter)(nil)

// Converter is a mock implementation of coursenotes.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
