package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/htmltomarkdown"
	"github.com/fwojciec/coursenotes/typst"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	input, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	var req coursenotes.ExportRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid export request: %v\n", err)
		return coursenotes.Errorf(coursenotes.EINVALID, "invalid export request: %v", err)
	}
	if c.Title != "" {
		req.Title = c.Title
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = typst.DefaultTitle
	}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}

	file, err := c.render(deps, &req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		if coursenotes.ErrorCode(err) == coursenotes.ENOTIMPLEMENTED {
			fmt.Fprintln(deps.Stderr, "Hint: install typst (https://typst.app) or export with --format typst")
		}
		return err
	}

	if c.Print {
		_, err := deps.Stdout.Write(file.Data)
		return err
	}

	path, err := deps.Writer.WriteExport(deps.Ctx, file)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%s)\n", path, FormatBytes(len(file.Data)))
	return nil
}

// render builds the export file in the requested format.
func (c *ExportCmd) render(deps *Dependencies, req *coursenotes.ExportRequest) (*coursenotes.ExportFile, error) {
	switch c.Format {
	case "markdown":
		doc, err := htmltomarkdown.Export(deps.Markdown, htmltomarkdown.NewAssembler(), req.Title, req.Sections)
		if err != nil {
			return nil, err
		}
		return &coursenotes.ExportFile{Title: req.Title, Ext: "md", Data: []byte(doc)}, nil

	case "html":
		doc, err := htmltomarkdown.Export(deps.Markdown, htmltomarkdown.NewAssembler(), req.Title, req.Sections)
		if err != nil {
			return nil, err
		}
		page, err := deps.HTML.Render(req.Title, doc)
		if err != nil {
			return nil, err
		}
		return &coursenotes.ExportFile{Title: req.Title, Ext: "html", Data: []byte(page)}, nil

	case "pdf":
		doc, err := typst.Export(deps.Typst, typst.NewAssembler(), req.Title, req.Sections)
		if err != nil {
			return nil, err
		}
		pdf, err := deps.Compiler.Compile(deps.Ctx, doc)
		if err != nil {
			return nil, err
		}
		return &coursenotes.ExportFile{Title: req.Title, Ext: "pdf", Data: pdf}, nil

	default:
		doc, err := typst.Export(deps.Typst, typst.NewAssembler(), req.Title, req.Sections)
		if err != nil {
			return nil, err
		}
		return &coursenotes.ExportFile{Title: req.Title, Ext: "typ", Data: []byte(doc)}, nil
	}
}
