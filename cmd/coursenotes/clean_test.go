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
	"github.com/fwojciec/coursenotes/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("sanitizes stdin with token", func(t *testing.T) {
		t.Parallel()

		var gotHTML, gotToken string
		sanitizer := &mock.Sanitizer{
			SanitizeFn: func(html, token string) *coursenotes.SanitizeResult {
				gotHTML, gotToken = html, token
				return &coursenotes.SanitizeResult{HTML: "<p>clean</p>"}
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdin:     strings.NewReader("<script>x</script><p>clean</p>"),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Sanitizer: sanitizer,
		}

		err := (&main.CleanCmd{File: "-", Token: "abc"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<p>clean</p>", stdout.String())
		assert.Equal(t, "<script>x</script><p>clean</p>", gotHTML)
		assert.Equal(t, "abc", gotToken)
	})

	t.Run("prints removal stats sorted by reason", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{
			SanitizeFn: func(html, token string) *coursenotes.SanitizeResult {
				return &coursenotes.SanitizeResult{
					HTML:       "<p>a</p>",
					InputBytes: 2048,
					Removed:    map[string]int{"script": 2, "container": 1},
					Skipped:    []coursenotes.StageError{{Stage: coursenotes.StageEntities, Err: errors.New("boom")}},
				}
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdin:     strings.NewReader("x"),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Sanitizer: sanitizer,
		}

		err := (&main.CleanCmd{File: "-", Stats: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "2.0 KB in, 8 B out\n"+
			"  removed 1 container\n"+
			"  removed 2 script\n"+
			"  skipped stage entities: boom\n", stderr.String())
	})

	t.Run("sanitizes extracted main content", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("<nav>menu</nav><main>notes</main>"),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(html, token string) *coursenotes.SanitizeResult {
					gotHTML = html
					return &coursenotes.SanitizeResult{HTML: html}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*coursenotes.ExtractResult, error) {
					return &coursenotes.ExtractResult{ContentHTML: "<main>notes</main>"}, nil
				},
			},
		}

		err := (&main.CleanCmd{File: "-"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<main>notes</main>", gotHTML)
	})

	t.Run("warns and sanitizes full page when extraction fails", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("<p>short</p>"),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(html, token string) *coursenotes.SanitizeResult {
					gotHTML = html
					return &coursenotes.SanitizeResult{HTML: html}
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*coursenotes.ExtractResult, error) {
					return nil, errors.New("too short")
				},
			},
		}

		err := (&main.CleanCmd{File: "-"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<p>short</p>", gotHTML)
		assert.Contains(t, stderr.String(), "too short")
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		err := (&main.CleanCmd{File: filepath.Join(t.TempDir(), "missing.html")}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestMain_Run_Clean(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<nav>menu</nav><p>Lecture notes</p><p>&nbsp;</p>`), 0644))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"clean", path}, stdout, stderr)

	require.NoError(t, err)
	assert.Equal(t, "<p>Lecture notes</p>", stdout.String())
}

func TestMain_Run_Clean_Extract(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Optics</title></head><body>
<nav>Dashboard Site home Calendar</nav>
<article><h1>Optics</h1>
<p>Light travels in straight lines through a uniform medium and bends when it crosses into a medium with a different refractive index.</p>
<p>Snell's law relates the angles of incidence and refraction to the refractive indices of the two media on either side of the boundary.</p>
<p>Total internal reflection happens when light inside a denser medium meets the boundary at an angle larger than the critical angle.</p>
</article>
<footer>Site footer</footer></body></html>`
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--extract=readability", "clean", path}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "critical angle")
	assert.NotContains(t, stdout.String(), "Site footer")
}
