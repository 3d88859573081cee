package coursenotes

// Converter converts clean HTML into another markup language.
type Converter interface {
	// Convert transforms clean HTML (e.g., from a Sanitizer) into the
	// target markup.
	Convert(html string) (string, error)
}
