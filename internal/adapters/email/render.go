package email

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a markdown notification message to the HTML email
// body. On a render failure the raw text is returned, so a malformed message
// still reaches the member.
func RenderMarkdown(markdown string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdown), &buf); err != nil {
		slog.Warn("email_render_failed", "error", err)
		return markdown
	}
	return buf.String()
}
