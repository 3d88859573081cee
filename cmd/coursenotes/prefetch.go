package main

import (
	"fmt"

	"github.com/fwojciec/coursenotes"
)

// Run executes the prefetch command.
func (c *PrefetchCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if c.Sitemap != "" {
		listed, err := deps.Sitemaps.URLs(deps.Ctx, c.Sitemap)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: sitemap: %s\n", coursenotes.ErrorMessage(err))
			return err
		}
		urls = append(urls, listed...)
	} else if len(urls) == 0 {
		lines, err := readLines(deps.Stdin)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		urls = lines
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no URLs given. Pass URLs as arguments, one per line on stdin, or --sitemap.")
		return coursenotes.Errorf(coursenotes.EINVALID, "no urls to prefetch")
	}

	fmt.Fprintf(deps.Stdout, "Prefetching %d pages\n", len(urls))
	batch := deps.Loader.LoadAll(deps.Ctx, urls)

	var bytes, cached int
	for _, item := range batch.Items {
		if !item.OK() {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", TruncateURL(item.URL, 60), coursenotes.ErrorMessage(item.Err))
			continue
		}
		bytes += len(item.Content.HTML)
		if item.Content.Cached {
			cached++
		}
		if deps.Store != nil {
			if err := deps.Store.Save(deps.Ctx, item.Content); err != nil {
				_ = deps.Store.Abort()
				fmt.Fprintf(deps.Stderr, "error: save %s: %s\n", item.URL, coursenotes.ErrorMessage(err))
				return err
			}
		}
	}

	if deps.Store != nil && batch.Loaded > 0 {
		if err := deps.Store.Commit(); err != nil {
			_ = deps.Store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "  Loaded %d/%d pages (%s, %d from cache)\n", batch.Loaded, batch.Total, FormatBytes(bytes), cached)

	if failed := batch.Total - batch.Loaded; failed > 0 {
		return fmt.Errorf("%d of %d pages failed to load", failed, batch.Total)
	}
	return nil
}
