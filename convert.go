package coursenotes

import (
	"fmt"
	"strings"
)

// ConvertSections converts each export section with conv. Sections that
// are blank before or after conversion are dropped. It returns an
// EINVALID error when no section has content.
func ConvertSections(conv Converter, sections []ExportSection) ([]TypesetSection, error) {
	out := make([]TypesetSection, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		body, err := conv.Convert(s.Content)
		if err != nil {
			return nil, fmt.Errorf("convert section %q: %w", s.Name, err)
		}
		if strings.TrimSpace(body) == "" {
			continue
		}
		out = append(out, TypesetSection{Name: s.Name, Body: body})
	}
	if len(out) == 0 {
		return nil, Errorf(EINVALID, "no content to export")
	}
	return out, nil
}
