package coursenotes

// Sanitizer stages, in the order they run.
const (
	StageStream     = "stream"
	StageParse      = "parse"
	StageContainers = "containers"
	StageImages     = "images"
	StageHeadings   = "headings"
	StageParagraphs = "paragraphs"
	StageTokenURLs  = "token_urls"
	StageRender     = "render"
	StageEntities   = "entities"
)

// StageError records a sanitizer stage that could not process its input
// and was skipped. The stage's input was passed through unchanged.
type StageError struct {
	Stage string
	Err   error
}

// SanitizeResult holds the outcome of a sanitize call.
type SanitizeResult struct {
	// HTML is the sanitized markup. Empty input yields empty HTML.
	HTML string

	// InputBytes is the size of the raw input.
	InputBytes int

	// Removed counts removed elements by reason (e.g. "script", "container",
	// "duplicate_heading").
	Removed map[string]int

	// Skipped lists stages that degraded to passthrough.
	Skipped []StageError
}

// Sanitizer strips scripts, styles, navigation, embeds, reader boilerplate,
// spacer images, duplicate headings and empty paragraphs from raw HTML.
//
// Sanitize is best-effort: it never fails and never panics. Stages that
// cannot parse their input are skipped and reported in the result.
// When token is non-empty, same-origin and relative image URLs get a
// token query parameter appended.
type Sanitizer interface {
	Sanitize(html, token string) *SanitizeResult
}
