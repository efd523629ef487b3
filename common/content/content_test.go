package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/common/apperr"
)

func TestNormalize(t *testing.T) {
	r := NewRenderer()

	got, err := r.Normalize("  buy the dip \n")
	require.NoError(t, err)
	assert.Equal(t, "buy the dip", got)

	_, err = r.Normalize("   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = r.Normalize(strings.Repeat("가", MaxLength+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = r.Normalize(strings.Repeat("가", MaxLength))
	assert.NoError(t, err)
}

func TestHTMLRendersMarkdown(t *testing.T) {
	out := NewRenderer().HTML("**strong** and a [link](https://example.com)")

	assert.Contains(t, out, "<strong>strong</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestHTMLStripsScripts(t *testing.T) {
	out := NewRenderer().HTML("hello <script>alert(1)</script> [x](javascript:alert(1))")

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "hello")
}
