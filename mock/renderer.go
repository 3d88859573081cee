package mock

import "github.com/fwojciec/coursenotes"

var _ coursenotes.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of coursenotes.Renderer.
type Renderer struct {
	RenderFn func(title, markdown string) (string, error)
}

func (r *Renderer) Render(title, markdown string) (string, error) {
	return r.RenderFn(title, markdown)
}
