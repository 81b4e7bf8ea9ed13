package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Dark is the palette used when the dark-mode preference is on.
var Dark = Theme{
	Name: "Dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Light is the default palette.
var Light = Theme{
	Name: "Light",

	Background:    lipgloss.Color("#f5f5f5"),
	Foreground:    lipgloss.Color("#343b58"),
	ForegroundDim: lipgloss.Color("#9699a3"),

	Primary: lipgloss.Color("#2e5cb8"),
	Accent:  lipgloss.Color("#166775"),

	Success: lipgloss.Color("#33635c"),
	Error:   lipgloss.Color("#8c4351"),

	Border:      lipgloss.Color("#c8c8d0"),
	BorderFocus: lipgloss.Color("#2e5cb8"),
	Selection:   lipgloss.Color("#d5d9f0"),
}

// Styles holds the pre-computed styles for the UI.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	Section      lipgloss.Style
	SectionTitle lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	TaskDone     lipgloss.Style
	Checkbox     lipgloss.Style
	CheckboxDone lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Error lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewStyles creates styles based on the given theme.
func NewStyles(t Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Section: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			MarginBottom(1),

		SectionTitle: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		Checkbox: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CheckboxDone: lipgloss.NewStyle().
			Foreground(t.Success),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(t.Error),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 0),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
	}
}
