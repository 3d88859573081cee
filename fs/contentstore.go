package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/coursenotes"
)

// URLToPath converts a content URL to a relative file path. Query
// parameters identify content on LMS sites, so they become part of the
// name.
// Example: https://lms.example/mod/page/view.php?id=42 → mod/page/view.php/id_42.html
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "invalid url %q", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		path += "index"
	}

	if u.RawQuery != "" {
		query := u.Query()
		query.Del("token")
		if encoded := query.Encode(); encoded != "" {
			path = filepath.Join(path, SafeFilename(strings.NewReplacer("=", "_", "&", "_").Replace(encoded)))
		}
	}

	return path + ".html", nil
}

// Ensure ContentStore implements coursenotes.ContentStore at compile time.
var _ coursenotes.ContentStore = (*ContentStore)(nil)

// ContentStore implements coursenotes.ContentStore with atomic update
// semantics. Content is saved to a temporary directory, then moved
// atomically on Commit.
type ContentStore struct {
	baseDir string
	name    string
}

// NewContentStore creates a new ContentStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewContentStore(baseDir, name string) *ContentStore {
	return &ContentStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ContentStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ContentStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes c under the temporary directory.
func (s *ContentStore) Save(ctx context.Context, c *coursenotes.Content) error {
	if err := c.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(c.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if rel, err := filepath.Rel(s.tempDir(), fullPath); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return coursenotes.Errorf(coursenotes.EINVALID, "path traversal in url %q", c.URL)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatContent(c)), 0644)
}

// FormatContent prefixes content with a comment naming its source.
func FormatContent(c *coursenotes.Content) string {
	var b strings.Builder
	b.WriteString("<!-- source: ")
	b.WriteString(strings.ReplaceAll(c.URL, "--", "%2D%2D"))
	b.WriteString(" -->\n")
	b.WriteString(c.HTML)
	return b.String()
}

// Commit replaces the output directory with the staged content.
func (s *ContentStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the staged content.
func (s *ContentStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
