package main

import (
	"fmt"

	"github.com/fwojciec/coursenotes"
)

// Run executes the cache clear command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	if err := deps.Cache.Clear(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Cache cleared")
	return nil
}

// Run executes the cache purge command.
func (c *CachePurgeCmd) Run(deps *Dependencies) error {
	if deps.Maintainer == nil {
		fmt.Fprintln(deps.Stderr, "error: cache purge requires --cache=sqlite")
		return coursenotes.Errorf(coursenotes.ENOTIMPLEMENTED, "cache purge requires the sqlite backend")
	}
	n, err := deps.Maintainer.Purge(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Purged %d expired entries\n", n)
	return nil
}

// Run executes the cache stats command.
func (c *CacheStatsCmd) Run(deps *Dependencies) error {
	if deps.Maintainer == nil {
		fmt.Fprintln(deps.Stderr, "error: cache stats requires --cache=sqlite")
		return coursenotes.Errorf(coursenotes.ENOTIMPLEMENTED, "cache stats requires the sqlite backend")
	}
	n, err := deps.Maintainer.Len(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "%d cached entries\n", n)
	return nil
}
