package mock

import "github.com/fwojciec/coursenotes"

var _ coursenotes.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of coursenotes.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html, token string) *coursenotes.SanitizeResult
}

func (s *Sanitizer) Sanitize(html, token string) *coursenotes.SanitizeResult {
	return s.SanitizeFn(html, token)
}
