package typst_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/mock"
	"github.com/fwojciec/coursenotes/typst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("converts and assembles sections", func(t *testing.T) {
		t.Parallel()

		doc, err := typst.Export(typst.NewConverter(), typst.NewAssembler(), "Physics", []coursenotes.ExportSection{
			{Name: "Kinematics", Content: "<p>Speed $v = d/t$</p>"},
			{Name: "Dynamics", Content: "<h2>Newton</h2><p>F_net</p>"},
		})

		require.NoError(t, err)
		assert.Contains(t, doc, "= Kinematics\n\nSpeed $v = d\\/t$")
		assert.Contains(t, doc, "= Dynamics\n\n== Newton\n\nF\\_net")
	})

	t.Run("skips empty sections", func(t *testing.T) {
		t.Parallel()

		doc, err := typst.Export(typst.NewConverter(), typst.NewAssembler(), "Notes", []coursenotes.ExportSection{
			{Name: "Blank", Content: "   "},
			{Name: "Tags only", Content: "<div><span></span></div>"},
			{Name: "Real", Content: "<p>text</p>"},
		})

		require.NoError(t, err)
		assert.NotContains(t, doc, "= Blank")
		assert.NotContains(t, doc, "= Tags only")
		assert.Contains(t, doc, "= Real")
	})

	t.Run("no content to export", func(t *testing.T) {
		t.Parallel()

		_, err := typst.Export(typst.NewConverter(), typst.NewAssembler(), "Notes", []coursenotes.ExportSection{
			{Name: "Blank", Content: ""},
		})

		assert.Equal(t, coursenotes.EINVALID, coursenotes.ErrorCode(err))
		assert.Equal(t, "no content to export", coursenotes.ErrorMessage(err))
	})

	t.Run("no sections", func(t *testing.T) {
		t.Parallel()

		_, err := typst.Export(typst.NewConverter(), typst.NewAssembler(), "Notes", nil)

		assert.Equal(t, coursenotes.EINVALID, coursenotes.ErrorCode(err))
	})

	t.Run("empty title uses default", func(t *testing.T) {
		t.Parallel()

		doc, err := typst.Export(typst.NewConverter(), typst.NewAssembler(), " ", []coursenotes.ExportSection{
			{Name: "A", Content: "<p>a</p>"},
		})

		require.NoError(t, err)
		assert.Contains(t, doc, `#set document(title: "`+typst.DefaultTitle+`")`)
	})

	t.Run("converter error is returned", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "", errors.New("boom")
			},
		}

		_, err := typst.Export(conv, typst.NewAssembler(), "Notes", []coursenotes.ExportSection{
			{Name: "A", Content: "<p>a</p>"},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `convert section "A"`)
	})
}
