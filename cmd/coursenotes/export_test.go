package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/coursenotes"
	main "github.com/fwojciec/coursenotes/cmd/coursenotes"
	"github.com/fwojciec/coursenotes/goldmark"
	"github.com/fwojciec/coursenotes/htmltomarkdown"
	"github.com/fwojciec/coursenotes/mock"
	"github.com/fwojciec/coursenotes/typst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportRequest = `{
  "title": "Physics 101",
  "sections": [
    {"name": "Waves", "content": "<h2>Intro</h2><p>Energy moves.</p>"},
    {"name": "Empty", "content": ""}
  ]
}`

func exportDeps(stdin string, writer coursenotes.ExportWriter) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdin:    strings.NewReader(stdin),
		Stdout:   stdout,
		Stderr:   stderr,
		Typst:    typst.NewConverter(),
		Markdown: htmltomarkdown.NewConverter(),
		HTML:     goldmark.NewRenderer(),
		Writer:   writer,
	}, stdout, stderr
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes typst document", func(t *testing.T) {
		t.Parallel()

		var got *coursenotes.ExportFile
		writer := &mock.ExportWriter{
			WriteExportFn: func(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
				got = f
				return "/out/Physics 101.typ", nil
			},
		}
		deps, stdout, _ := exportDeps(exportRequest, writer)

		err := (&main.ExportCmd{File: "-", Format: "typst"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Physics 101", got.Title)
		assert.Equal(t, "typ", got.Ext)
		doc := string(got.Data)
		assert.Contains(t, doc, `#set page(paper: "a4"`)
		assert.Contains(t, doc, "\n= Waves\n")
		assert.Contains(t, doc, "== Intro")
		assert.Contains(t, doc, "Energy moves.")
		assert.NotContains(t, doc, "= Empty")
		assert.Contains(t, stdout.String(), "Wrote /out/Physics 101.typ")
	})

	t.Run("writes markdown document", func(t *testing.T) {
		t.Parallel()

		var got *coursenotes.ExportFile
		writer := &mock.ExportWriter{
			WriteExportFn: func(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
				got = f
				return "out.md", nil
			},
		}
		deps, _, _ := exportDeps(exportRequest, writer)

		err := (&main.ExportCmd{File: "-", Format: "markdown"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "md", got.Ext)
		assert.Contains(t, string(got.Data), "# Physics 101\n")
		assert.Contains(t, string(got.Data), "## Waves\n\n#### Intro")
	})

	t.Run("writes html page", func(t *testing.T) {
		t.Parallel()

		var got *coursenotes.ExportFile
		writer := &mock.ExportWriter{
			WriteExportFn: func(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
				got = f
				return "out.html", nil
			},
		}
		deps, _, _ := exportDeps(exportRequest, writer)

		err := (&main.ExportCmd{File: "-", Format: "html"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "html", got.Ext)
		page := string(got.Data)
		assert.Contains(t, page, "<title>Physics 101</title>")
		assert.Contains(t, page, `<h2 id="waves">Waves</h2>`)
		assert.Contains(t, page, `<a href="#waves">Waves</a>`)
	})

	t.Run("returns renderer error", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := exportDeps(exportRequest, nil)
		deps.HTML = &mock.Renderer{
			RenderFn: func(title, markdown string) (string, error) {
				return "", errors.New("render failed")
			},
		}

		err := (&main.ExportCmd{File: "-", Format: "html"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("compiles pdf", func(t *testing.T) {
		t.Parallel()

		var got *coursenotes.ExportFile
		writer := &mock.ExportWriter{
			WriteExportFn: func(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
				got = f
				return "out.pdf", nil
			},
		}
		deps, _, _ := exportDeps(exportRequest, writer)
		var source string
		deps.Compiler = &mock.Compiler{
			CompileFn: func(ctx context.Context, s string) ([]byte, error) {
				source = s
				return []byte("%PDF-1.7"), nil
			},
		}

		err := (&main.ExportCmd{File: "-", Format: "pdf"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "pdf", got.Ext)
		assert.Equal(t, []byte("%PDF-1.7"), got.Data)
		assert.Contains(t, source, "= Waves")
	})

	t.Run("hints when typst is missing", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := exportDeps(exportRequest, nil)
		deps.Compiler = &mock.Compiler{
			CompileFn: func(ctx context.Context, s string) ([]byte, error) {
				return nil, coursenotes.Errorf(coursenotes.ENOTIMPLEMENTED, "typst binary %q not found", "typst")
			},
		}

		err := (&main.ExportCmd{File: "-", Format: "pdf"}).Run(deps)

		assert.Equal(t, coursenotes.ENOTIMPLEMENTED, coursenotes.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Hint: install typst")
	})

	t.Run("prints to stdout", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := exportDeps(exportRequest, nil)

		err := (&main.ExportCmd{File: "-", Format: "typst", Print: true, Title: "Override"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Override")
		assert.NotContains(t, stdout.String(), "Physics 101")
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := exportDeps("{not json", nil)

		err := (&main.ExportCmd{File: "-", Format: "typst"}).Run(deps)

		assert.Equal(t, coursenotes.EINVALID, coursenotes.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid export request")
	})

	t.Run("rejects request without content", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := exportDeps(`{"title":"x","sections":[{"name":"a","content":"  "}]}`, nil)

		err := (&main.ExportCmd{File: "-", Format: "typst"}).Run(deps)

		assert.Equal(t, coursenotes.EINVALID, coursenotes.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no content to export")
	})

	t.Run("returns writer error", func(t *testing.T) {
		t.Parallel()

		writer := &mock.ExportWriter{
			WriteExportFn: func(ctx context.Context, f *coursenotes.ExportFile) (string, error) {
				return "", errors.New("read-only file system")
			},
		}
		deps, _, _ := exportDeps(exportRequest, writer)

		err := (&main.ExportCmd{File: "-", Format: "typst"}).Run(deps)

		require.Error(t, err)
	})
}

func TestMain_Run_Export(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(input, []byte(exportRequest), 0644))
	out := filepath.Join(dir, "out")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"export", input, "--out", out}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	data, err := os.ReadFile(filepath.Join(out, "Physics 101.typ"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "= Waves")
}

func TestMain_Run_Math(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"math", `\frac{a}{b}`}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "frac(a, b)\n", stdout.String())
}
