package readability_test

import (
	"testing"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements coursenotes.Extractor at compile time.
var _ coursenotes.Extractor = (*readability.Extractor)(nil)

const lmsPage = `<!DOCTYPE html>
<html>
<head><title>Thermodynamics notes</title></head>
<body>
<nav><a href="/my/">Home Nav Link</a><a href="/calendar/">Calendar Nav Link</a></nav>
<article>
<h1>Thermodynamics</h1>
<p>The first law of thermodynamics states that the change in internal energy of a system equals the heat added to the system minus the work done by the system.</p>
<h2>Heat engines</h2>
<p>A heat engine converts part of the heat flowing from a hot reservoir to a cold reservoir into work. No engine operating between two reservoirs can be more efficient than a Carnot engine.</p>
<ul><li>Isothermal expansion</li><li>Adiabatic expansion</li></ul>
<p>The efficiency of a Carnot engine depends only on the temperatures of the two reservoirs and is always less than one for any real temperature difference.</p>
</article>
<footer>Footer copyright text</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, coursenotes.EINVALID, coursenotes.ErrorCode(err))
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(lmsPage)

		require.NoError(t, err)
		assert.Equal(t, "Thermodynamics notes", result.Title)
	})

	t.Run("keeps article structure", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(lmsPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "first law of thermodynamics")
		assert.Contains(t, result.ContentHTML, "<h2")
		assert.Contains(t, result.ContentHTML, "<li")
	})

	t.Run("removes navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(lmsPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
		assert.NotContains(t, result.ContentHTML, "Footer copyright text")
	})
}
