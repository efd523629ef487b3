// Package content validates user-written text and renders it to safe HTML.
package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MaxLength bounds a comment body, counted in runes.
const MaxLength = 4000

// Renderer turns markdown comment bodies into sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a renderer with GFM enabled and the UGC sanitizing
// policy applied to its output.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
		policy: policy,
	}
}

// Normalize trims content and rejects empty or oversized bodies.
func (r *Renderer) Normalize(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.Invalid("content must not be empty")
	}
	if n := utf8.RuneCountInString(content); n > MaxLength {
		return "", apperr.Invalid("content is %d characters, limit is %d", n, MaxLength)
	}
	return content, nil
}

// HTML renders content as markdown and strips anything unsafe. If markdown
// conversion fails the escaped source is returned.
func (r *Renderer) HTML(content string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return r.policy.Sanitize(content)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes()))
}
