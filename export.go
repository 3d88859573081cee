package coursenotes

import "context"

// ExportSection is a named piece of clean HTML supplied for export.
type ExportSection struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// TypesetSection is an ExportSection after conversion to typesetting markup.
type TypesetSection struct {
	Name string
	Body string
}

// ExportRequest describes a document to export.
type ExportRequest struct {
	Title    string          `json:"title"`
	Sections []ExportSection `json:"sections"`
}

// Validate returns an error if the request cannot produce a document.
func (r *ExportRequest) Validate() error {
	if len(r.Sections) == 0 {
		return Errorf(EINVALID, "export sections required")
	}
	return nil
}

// ExportFile is an assembled document ready to be written out.
type ExportFile struct {
	Title string
	Ext   string // file extension without the dot, e.g. "typ", "pdf", "md"
	Data  []byte
}

// Validate returns an error if the file cannot be written.
func (f *ExportFile) Validate() error {
	if f.Ext == "" {
		return Errorf(EINVALID, "export file extension required")
	}
	if len(f.Data) == 0 {
		return Errorf(EINVALID, "export file data required")
	}
	return nil
}

// ExportWriter writes assembled documents to storage.
type ExportWriter interface {
	// WriteExport stores f and returns where it was written.
	WriteExport(ctx context.Context, f *ExportFile) (string, error)
}

// Compiler renders a typeset document into a printable format such as PDF.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// Renderer renders a Markdown document as a standalone page.
type Renderer interface {
	Render(title, markdown string) (string, error)
}
