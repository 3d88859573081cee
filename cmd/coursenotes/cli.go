package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Sanitizer coursenotes.Sanitizer
	Extractor coursenotes.Extractor // optional
	Typst     coursenotes.Converter
	Markdown  coursenotes.Converter
	Compiler  coursenotes.Compiler
	HTML      coursenotes.Renderer
	Writer    coursenotes.ExportWriter

	Loader     coursenotes.ContentLoader
	Sitemaps   coursenotes.SitemapService
	Store      coursenotes.ContentStore
	Cache      coursenotes.Cache
	Maintainer CacheMaintainer
}

// CacheMaintainer is implemented by persistent caches that can report
// their size and drop expired entries.
type CacheMaintainer interface {
	Purge(ctx context.Context) (int, error)
	Len(ctx context.Context) (int, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool   `short:"v" help:"Enable debug logging"`
	CacheBackend string `name:"cache" enum:"sqlite,memory" default:"sqlite" help:"Cache backend (sqlite, memory)"`
	DB           string `name:"db" type:"path" help:"SQLite cache path (default: $COURSENOTES_DB or ~/.coursenotes/cache.db)"`
	Token        string `env:"COURSENOTES_TOKEN" help:"LMS access token appended to page and image URLs"`
	Origin       string `env:"COURSENOTES_ORIGIN" default:"https://mylms.vossie.net" help:"LMS base URL; images on this host get the token"`
	Extract      string `enum:"none,region,trafilatura,readability" default:"none" help:"Narrow full pages to their main content before sanitizing (none, region, trafilatura, readability)"`

	Clean    CleanCmd    `cmd:"" help:"Sanitize an HTML page"`
	Convert  ConvertCmd  `cmd:"" help:"Convert clean HTML to Typst or Markdown"`
	Math     MathCmd     `cmd:"" help:"Translate a LaTeX formula to Typst math"`
	Prefetch PrefetchCmd `cmd:"" help:"Fetch, sanitize and cache LMS pages"`
	Export   ExportCmd   `cmd:"" help:"Export sections as a Typst, PDF, Markdown or HTML document"`
	Cache    CacheCmd    `cmd:"" help:"Manage the content cache"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	File  string `arg:"" optional:"" default:"-" help:"HTML file to sanitize ('-' for stdin)"`
	Token string `help:"Token appended to same-origin image URLs"`
	Stats bool   `help:"Print removal counts to stderr"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	File   string `arg:"" optional:"" default:"-" help:"Clean HTML file ('-' for stdin)"`
	Format string `short:"f" enum:"typst,markdown" default:"typst" help:"Output format (typst, markdown)"`
}

// MathCmd is the "math" subcommand.
type MathCmd struct {
	Formula string `arg:"" help:"LaTeX formula"`
}

// PrefetchCmd is the "prefetch" subcommand.
type PrefetchCmd struct {
	URLs        []string      `arg:"" optional:"" name:"url" help:"LMS page URLs (read from stdin, one per line, when omitted)"`
	Sitemap     string        `short:"s" help:"Also prefetch every page listed in this sitemap URL"`
	Concurrency int           `short:"c" default:"10" help:"Concurrent fetch limit"`
	RPS         float64       `name:"rps" default:"2" help:"Requests per second per domain"`
	OriginRPS   float64       `name:"origin-rps" help:"Requests per second to the LMS origin (0 uses --rps)"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Out         string        `short:"o" type:"path" help:"Also save sanitized pages under this directory"`
	Name        string        `default:"pages" help:"Name of the page directory created inside --out"`
	Browser     bool          `short:"b" help:"Render pages in headless Chrome (for JavaScript activities)"`
	Session     string        `env:"COURSENOTES_SESSION" help:"LMS session cookie sent by the browser fetcher"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	File   string `arg:"" optional:"" default:"-" help:"Export request JSON file ('-' for stdin)"`
	Format string `short:"f" enum:"typst,pdf,markdown,html" default:"typst" help:"Output format (typst, pdf, markdown, html)"`
	Out    string `short:"o" type:"path" default:"." help:"Output directory"`
	Title  string `short:"t" help:"Override the document title"`
	Print  bool   `short:"p" help:"Write the document to stdout instead of a file"`
}

// CacheCmd is the "cache" subcommand group.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Remove every cached page"`
	Purge CachePurgeCmd `cmd:"" help:"Remove expired cached pages"`
	Stats CacheStatsCmd `cmd:"" help:"Show the number of cached pages"`
}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct{}

// CachePurgeCmd is the "cache purge" subcommand.
type CachePurgeCmd struct{}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct{}
