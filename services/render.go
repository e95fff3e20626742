package services

import (
	"bytes"
	"html/template"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns stored Markdown into display HTML. It is applied on reads only;
// stored content stays raw. Raw HTML embedded in the source is not passed through.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Render converts source to HTML. On a conversion failure the escaped source is returned.
func (r *Renderer) Render(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		log.Error().Err(err).Msg("markdown conversion failed, falling back to escaped text")
		return template.HTMLEscapeString(source)
	}
	return buf.String()
}
