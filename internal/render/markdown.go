// File: internal/render/markdown.go
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/iyunix/lexbrief/internal/domain"
)

// DefaultWordWrap is used when the caller passes a non-positive width.
const DefaultWordWrap = 80

// TerminalRenderer renders markdown for the terminal with a glamour style.
type TerminalRenderer struct {
	style string
	width int
	tr    *glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer for a glamour standard style such
// as "light", "dark", "tokyo-night" or "pink".
func NewTerminalRenderer(style string, width int) (*TerminalRenderer, error) {
	if width <= 0 {
		width = DefaultWordWrap
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s markdown renderer: %w", style, err)
	}
	return &TerminalRenderer{style: style, width: width, tr: tr}, nil
}

// Style returns the glamour style name.
func (t *TerminalRenderer) Style() string { return t.style }

// Width returns the wrap width.
func (t *TerminalRenderer) Width() int { return t.width }

// Render renders md, returning md unchanged if rendering fails or t is nil.
func (t *TerminalRenderer) Render(md string) string {
	if t == nil || t.tr == nil {
		return md
	}
	out, err := t.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// AssistantMarkdown is the markdown shown for an assistant reply.
func AssistantMarkdown(content string) string {
	return Bulletize(content)
}

// PrecedentsMarkdown lists cited cases as a numbered markdown list.
// Returns "" when there are none.
func PrecedentsMarkdown(precedents []domain.Precedent) string {
	if len(precedents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("**Precedents**\n\n")
	for i, p := range precedents {
		name := strings.TrimSpace(p.CaseName)
		if name == "" {
			name = "Unnamed case"
		}
		fmt.Fprintf(&b, "%d. **%s**", i+1, name)
		if excerpt := strings.TrimSpace(p.Excerpt); excerpt != "" {
			fmt.Fprintf(&b, "\n   > %s", strings.ReplaceAll(excerpt, "\n", " "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
