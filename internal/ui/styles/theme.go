// Package styles holds the lipgloss themes for the terminal client.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	UserBg     lipgloss.Color
	Error      lipgloss.Color
}

// Theme holds all the styled components for the application.
type Theme struct {
	Name string
	// GlamourStyle is the glamour standard style used for assistant markdown.
	GlamourStyle string
	Palette      Palette

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarActive   lipgloss.Style
	SidebarMeta     lipgloss.Style

	Timeline        lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style
	Thinking        lipgloss.Style

	Input         lipgloss.Style
	InputDisabled lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Footer        lipgloss.Style
}

var palettes = map[string]struct {
	glamour string
	palette Palette
}{
	"light": {"light", Palette{
		Background: "#F8FAFC", Surface: "#FFFFFF", Border: "#E2E8F0", Text: "#0F172A",
		Muted: "#64748B", Accent: "#4F46E5", UserBg: "#F1F5F9", Error: "#DC2626",
	}},
	"dark": {"dark", Palette{
		Background: "#0F172A", Surface: "#1E293B", Border: "#334155", Text: "#F8FAFC",
		Muted: "#94A3B8", Accent: "#818CF8", UserBg: "#334155", Error: "#F87171",
	}},
	"ocean": {"tokyo-night", Palette{
		Background: "#0B1D2E", Surface: "#102A43", Border: "#1F4E79", Text: "#E0F2FE",
		Muted: "#7DB3D8", Accent: "#22D3EE", UserBg: "#164E63", Error: "#FB7185",
	}},
	"sunset": {"pink", Palette{
		Background: "#2A1215", Surface: "#3B1A1F", Border: "#7C2D12", Text: "#FFF7ED",
		Muted: "#FDBA74", Accent: "#FB923C", UserBg: "#7C2D12", Error: "#FCA5A5",
	}},
}

// Names lists the themes in cycle order.
func Names() []string {
	return []string{"light", "dark", "ocean", "sunset"}
}

// Next returns the theme after name in cycle order.
func Next(name string) string {
	names := Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// ByName builds the named theme, falling back to light.
func ByName(name string) *Theme {
	entry, ok := palettes[name]
	if !ok {
		name = "light"
		entry = palettes[name]
	}
	return build(name, entry.glamour, entry.palette)
}

func build(name, glamourStyle string, p Palette) *Theme {
	t := &Theme{Name: name, GlamourStyle: glamourStyle, Palette: p}

	t.Header = lipgloss.NewStyle().
		Background(p.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(p.Muted)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginBottom(1)
	t.SidebarItem = lipgloss.NewStyle().Foreground(p.Text)
	t.SidebarSelected = lipgloss.NewStyle().Foreground(p.Background).Background(p.Accent).Bold(true)
	t.SidebarActive = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.SidebarMeta = lipgloss.NewStyle().Foreground(p.Muted)

	t.Timeline = lipgloss.NewStyle().Padding(0, 1)
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	t.UserBubble = lipgloss.NewStyle().
		Background(p.UserBg).
		Foreground(p.Text).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.Timestamp = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	t.Thinking = lipgloss.NewStyle().Foreground(p.Accent)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent)
	t.InputDisabled = t.Input.BorderForeground(p.Border)
	t.Status = lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1)
	t.StatusError = lipgloss.NewStyle().Foreground(p.Error).Padding(0, 1)
	t.Footer = lipgloss.NewStyle().Foreground(p.Muted).Italic(true).Padding(0, 1)

	return t
}
