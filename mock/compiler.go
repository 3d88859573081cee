package mock

import (
	"context"

	"github.com/fwojciec/coursenotes"
)

var _ coursenotes.Compiler = (*Compiler)(nil)

// Compiler is a mock implementation of coursenotes.Compiler.
type Compiler struct {
	CompileFn func(ctx context.Context, source string) ([]byte, error)
}

func (c *Compiler) Compile(ctx context.Context, source string) ([]byte, error) {
	return c.CompileFn(ctx, source)
}
