package coursenotes

// ExtractResult holds the main content isolated from a full page.
type ExtractResult struct {
	// Title is the page title from metadata.
	Title string

	// ContentHTML is the main content. Course navigation, block regions
	// and footers are gone; the content structure is preserved.
	ContentHTML string
}

// Extractor isolates the main content of a full LMS page. It is an
// optional first step before sanitizing whole pages rather than
// activity fragments.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
