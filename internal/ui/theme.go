package ui

import "github.com/five82/bgmtty/internal/widget"

// Theme defines the palette of the UI. Colors are lipgloss color strings:
// ANSI indices for Classic, hex for the others. An empty color keeps the
// terminal default.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Info    string

	Border      string
	BorderFocus string
}

// Styles are the cell styles derived from a Theme.
type Styles struct {
	Text     widget.Style
	Muted    widget.Style
	Border   widget.Style
	Focus    widget.Style
	Title    widget.Style // subject names
	Label    widget.Style // field labels on the subject page
	Key      widget.Style // key names in the help panel
	Tab      widget.Style
	TabFocus widget.Style
	Filled   widget.Style
	Empty    widget.Style
	Count    widget.Style
	Prompt   widget.Style
}

// Styles returns the cell styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:     widget.Style{Fg: t.Text},
		Muted:    widget.Style{Fg: t.Muted},
		Border:   widget.Style{Fg: t.Border},
		Focus:    widget.Style{Fg: t.BorderFocus, Bold: true},
		Title:    widget.Style{Fg: t.Warning},
		Label:    widget.Style{Fg: t.Info},
		Key:      widget.Style{Fg: t.Success, Bold: true},
		Tab:      widget.Style{Fg: t.Muted},
		TabFocus: widget.Style{Fg: t.Accent, Bold: true},
		Filled:   widget.Style{Fg: t.Success},
		Empty:    widget.Style{Fg: t.Faint},
		Count:    widget.Style{Fg: t.Faint},
		Prompt:   widget.Style{Fg: t.Accent},
	}
}

// Theme definitions

var themes = map[string]Theme{
	"Classic": classicTheme(),
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
}

var themeOrder = []string{"Classic", "Dracula", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return classicTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func classicTheme() Theme {
	// Plain 16-color palette that follows the terminal's own colors.
	return Theme{
		Name:        "Classic",
		Muted:       "8",
		Faint:       "8",
		Accent:      "6",
		Success:     "2",
		Warning:     "3",
		Info:        "4",
		BorderFocus: "3",
	}
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name:        "Dracula",
		Text:        "#F8F8F2", // Foreground
		Muted:       "#6272A4", // Comment
		Faint:       "#44475A", // Selection
		Accent:      "#BD93F9", // Purple
		Success:     "#50FA7B", // Green
		Warning:     "#F1FA8C", // Yellow
		Info:        "#8BE9FD", // Cyan
		Border:      "#6272A4",
		BorderFocus: "#FF79C6", // Pink
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:        "Slate",
		Text:        "#f1f5f9", // slate-100
		Muted:       "#94a3b8", // slate-400
		Faint:       "#64748b", // slate-500
		Accent:      "#38bdf8", // sky-400
		Success:     "#22c55e", // green-500
		Warning:     "#f59e0b", // amber-500
		Info:        "#06b6d4", // cyan-500
		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400
	}
}
