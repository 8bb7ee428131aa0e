// File: internal/export/html.go
package export

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/render"
)

// Options control the HTML export.
type Options struct {
	// Theme is "light" or "dark".
	Theme string
	// IncludeTimestamps adds a clock time to every message.
	IncludeTimestamps bool
	// Now stamps the footer; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		Theme:             "light",
		IncludeTimestamps: true,
		Now:               time.Now,
	}
}

// HTMLExporter renders a chat session as a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme != "dark" {
		opts.Theme = "light"
	}
	return &HTMLExporter{options: opts}
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// Export writes session to w.
func (e *HTMLExporter) Export(w io.Writer, session domain.ChatSession) error {
	if session.ID == "" {
		return fmt.Errorf("session has no id")
	}
	if len(session.Messages) == 0 {
		return fmt.Errorf("session %s has no messages", session.ID)
	}

	var sb strings.Builder
	title := session.Title
	if title == "" {
		title = domain.ProductName
	}

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("    <meta name=\"generator\" content=\"lexbrief\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", session.Timestamp.Format(time.RFC3339))
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.options.Theme)
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "            <p class=\"tagline\">%s &middot; %s</p>\n",
		html.EscapeString(domain.ProductName), html.EscapeString(domain.Tagline))
	fmt.Fprintf(&sb, "            <p class=\"metadata\">%d messages &middot; updated %s</p>\n",
		len(session.Messages), session.Timestamp.Local().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range session.Messages {
		block, err := e.renderMessage(msg)
		if err != nil {
			return err
		}
		sb.WriteString(block)
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p class=\"disclaimer\">%s</p>\n", html.EscapeString(domain.Disclaimer))
	fmt.Fprintf(&sb, "            <p>Exported on %s</p>\n", e.options.Now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *HTMLExporter) renderMessage(msg domain.Message) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "            <div class=\"message %s-message\">\n", html.EscapeString(string(msg.Role)))
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", roleLabel(msg.Role))
	if e.options.IncludeTimestamps {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", render.FormatClock(msg.Timestamp))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	if msg.IsUser() {
		fmt.Fprintf(&sb, "<pre class=\"user-text\">%s</pre>\n", html.EscapeString(msg.Content))
	} else {
		body, err := render.HTML(render.AssistantMarkdown(msg.Content))
		if err != nil {
			return "", fmt.Errorf("render message %s: %w", msg.ID, err)
		}
		sb.WriteString(body)
	}
	sb.WriteString("                </div>\n")

	if len(msg.Precedents) > 0 {
		sb.WriteString("                <section class=\"precedents\">\n")
		sb.WriteString("                    <h3>Precedents</h3>\n                    <ol>\n")
		for _, p := range msg.Precedents {
			fmt.Fprintf(&sb, "                        <li><strong>%s</strong>", html.EscapeString(p.CaseName))
			if p.Excerpt != "" {
				fmt.Fprintf(&sb, "<blockquote>%s</blockquote>", html.EscapeString(p.Excerpt))
			}
			sb.WriteString("</li>\n")
		}
		sb.WriteString("                    </ol>\n                </section>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String(), nil
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleUser {
		return "You"
	}
	return domain.ProductName
}

const css = `    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; line-height: 1.6; }
        .light-theme { background: #f8fafc; color: #0f172a; }
        .dark-theme { background: #0f172a; color: #e2e8f0; }
        .container { max-width: 860px; margin: 0 auto; padding: 2rem 1rem; }
        .header h1 { margin-bottom: 0.25rem; }
        .tagline, .metadata { margin: 0; font-size: 0.85rem; opacity: 0.75; }
        .message { border-radius: 8px; padding: 1rem; margin: 1rem 0; }
        .light-theme .user-message { background: #f1f5f9; }
        .light-theme .assistant-message { background: #ffffff; border: 1px solid #e2e8f0; }
        .dark-theme .user-message { background: #1e293b; }
        .dark-theme .assistant-message { background: #111827; border: 1px solid #334155; }
        .message-header { display: flex; justify-content: space-between; font-size: 0.8rem; opacity: 0.8; }
        .role-label { font-weight: 600; color: #4f46e5; }
        .user-text { white-space: pre-wrap; font-family: inherit; margin: 0; }
        .precedents h3 { font-size: 0.9rem; margin-bottom: 0.25rem; }
        .precedents blockquote { margin: 0.25rem 0 0.5rem 0; padding-left: 0.75rem; border-left: 3px solid #a5b4fc; font-size: 0.85rem; }
        .footer { margin-top: 2rem; font-size: 0.8rem; opacity: 0.7; text-align: center; }
        .disclaimer { font-style: italic; }
    </style>
`
