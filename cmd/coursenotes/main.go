package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/bloom"
	"github.com/fwojciec/coursenotes/fs"
	"github.com/fwojciec/coursenotes/goldmark"
	"github.com/fwojciec/coursenotes/goquery"
	"github.com/fwojciec/coursenotes/htmltomarkdown"
	cnhttp "github.com/fwojciec/coursenotes/http"
	"github.com/fwojciec/coursenotes/inmem"
	"github.com/fwojciec/coursenotes/prefetch"
	"github.com/fwojciec/coursenotes/readability"
	"github.com/fwojciec/coursenotes/rod"
	cnslog "github.com/fwojciec/coursenotes/slog"
	"github.com/fwojciec/coursenotes/sqlite"
	"github.com/fwojciec/coursenotes/trafilatura"
	"github.com/fwojciec/coursenotes/typst"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Stdin is read by commands that accept piped input.
	Stdin io.Reader

	// SQLite database used by the persistent cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("coursenotes"),
		kong.Description("Clean LMS course pages and export them as Typst, PDF, Markdown or HTML notes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'coursenotes --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger

	sanitizer := cnslog.NewLoggingSanitizer(
		goquery.NewSanitizer(goquery.WithOrigin(cli.Origin)),
		logger,
	)

	extractor, err := newExtractor(cli.Extract, cli.Origin)
	if err != nil {
		return err
	}

	// Wire command-specific dependencies based on command
	switch cmd := strings.Fields(kongCtx.Command())[0]; cmd {
	case "clean":
		deps.Sanitizer = sanitizer
		deps.Extractor = extractor

	case "convert", "export":
		deps.Typst = cnslog.NewLoggingConverter(typst.NewConverter(), "typst", logger)
		deps.Markdown = cnslog.NewLoggingConverter(htmltomarkdown.NewConverter(), "markdown", logger)
		deps.Compiler = typst.NewCompiler()
		deps.HTML = goldmark.NewRenderer()
		if cmd == "export" {
			deps.Writer = fs.NewWriter(cli.Export.Out)
		}

	case "prefetch":
		if err := m.openCache(cli, deps); err != nil {
			return err
		}
		defer m.Close()

		var fetcher coursenotes.Fetcher = cnhttp.NewFetcher(
			cnhttp.WithTimeout(cli.Prefetch.Timeout),
			cnhttp.WithToken(cli.Token),
		)
		if cli.Prefetch.Browser {
			fetcher, err = rod.NewFetcher(
				rod.WithFetchTimeout(cli.Prefetch.Timeout),
				rod.WithToken(cli.Token),
				rod.WithSession(cli.Prefetch.Session),
			)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		}
		defer fetcher.Close()

		// Records from one prefetch run share a batch ID.
		batchLogger := logger.With("batch", uuid.NewString())

		deps.Sitemaps = cnhttp.NewSitemapService(cnslog.NewLoggingFetcher(cnhttp.NewFetcher(
			cnhttp.WithTimeout(cli.Prefetch.Timeout),
			cnhttp.WithToken(cli.Token),
		), batchLogger))

		loader := prefetch.NewLoader(cnslog.NewLoggingFetcher(fetcher, batchLogger), sanitizer, deps.Cache)
		loader.Token = cli.Token
		loader.Concurrency = cli.Prefetch.Concurrency
		loader.RateLimiter = newLimiter(cli.Prefetch, cli.Origin)
		loader.Extractor = extractor
		loader.Logf = func(format string, args ...any) {
			batchLogger.Warn(fmt.Sprintf(format, args...))
		}
		deps.Loader = loader

		if cli.Prefetch.Out != "" {
			deps.Store = fs.NewContentStore(cli.Prefetch.Out, cli.Prefetch.Name)
		}

	case "cache":
		if err := m.openCache(cli, deps); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// openCache wires the cache backend selected on the command line.
func (m *Main) openCache(cli *CLI, deps *Dependencies) error {
	if cli.CacheBackend == "memory" {
		deps.Cache = cnslog.NewLoggingCache(inmem.NewCache(), deps.Logger)
		return nil
	}

	path := m.DBPath
	if cli.DB != "" {
		path = cli.DB
	}
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set COURSENOTES_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}

	cache := sqlite.NewCache(m.DB)
	keys, err := cache.Keys(deps.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache keys: %w", err)
	}
	filtered := bloom.NewCache(cache, max(uint(len(keys))*2, 10000), 0.01)
	filtered.Seed(keys...)

	deps.Cache = cnslog.NewLoggingCache(filtered, deps.Logger)
	deps.Maintainer = cache
	return nil
}

// newExtractor returns the main-content extractor named on the command
// line, or nil for "none".
func newExtractor(name, origin string) (coursenotes.Extractor, error) {
	if name == "" || name == "none" {
		return nil, nil
	}
	base, err := url.Parse(origin)
	if err != nil {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "invalid origin %q", origin)
	}
	switch name {
	case "region":
		return goquery.NewRegionExtractor(), nil
	case "trafilatura":
		return &trafilatura.Extractor{OriginalURL: base}, nil
	case "readability":
		return &readability.Extractor{PageURL: base}, nil
	}
	return nil, coursenotes.Errorf(coursenotes.EINVALID, "unknown extractor %q", name)
}

// newLimiter applies --rps to every host, with --origin-rps overriding
// it for the LMS origin when set.
func newLimiter(cmd PrefetchCmd, origin string) *prefetch.DomainLimiter {
	var opts []prefetch.LimiterOption
	if u, err := url.Parse(origin); err == nil && u.Host != "" && cmd.OriginRPS > 0 {
		opts = append(opts, prefetch.WithHostRate(u.Host, cmd.OriginRPS))
	}
	return prefetch.NewDomainLimiter(cmd.RPS, opts...)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("COURSENOTES_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "coursenotes.db"
	}
	return filepath.Join(home, ".coursenotes", "cache.db")
}

// Ensure the SQLite cache supports the cache maintenance commands.
var _ CacheMaintainer = (*sqlite.Cache)(nil)
