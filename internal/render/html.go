// File: internal/render/html.go
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML converts markdown to an HTML fragment. Raw HTML in the input is
// omitted.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
