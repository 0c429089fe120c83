package tui

import "github.com/charmbracelet/lipgloss"

var (
	clrBorder = lipgloss.Color("#30363d")
	clrSubtle = lipgloss.Color("#8b949e")
	clrGold   = lipgloss.Color("#e3b341")
	clrGreen  = lipgloss.Color("#3fb950")
	clrRed    = lipgloss.Color("#f85149")
	clrWhite  = lipgloss.Color("#e6edf3")
	clrTitle  = lipgloss.Color("#58a6ff")
)

// Styles used when drawing the view tree.
type Styles struct {
	Title    lipgloss.Style
	Banner   lipgloss.Style
	Status   lipgloss.Style
	Warning  lipgloss.Style
	Self     lipgloss.Style
	Other    lipgloss.Style
	Current  lipgloss.Style
	Pending  lipgloss.Style
	Region   lipgloss.Style
	Card     lipgloss.Style
	Playable lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style
	Feedback lipgloss.Style
	Help     lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

func DefaultStyles() Styles {
	return Styles{
		Title:    bold(clrTitle),
		Banner:   bold(clrRed),
		Status:   fg(clrWhite),
		Warning:  bold(clrGold),
		Self:     bold(clrGreen),
		Other:    fg(clrWhite),
		Current:  bold(clrGold),
		Pending:  fg(clrSubtle).Italic(true),
		Region:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(clrBorder).Padding(0, 1),
		Card:     fg(clrWhite),
		Playable: bold(clrGreen),
		Selected: bold(clrGold).Underline(true),
		Disabled: fg(clrSubtle).Faint(true),
		Feedback: fg(clrGold),
		Help:     fg(clrSubtle),
	}
}

// PlainStyles renders without colour or borders, for logs and tests.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Title: p, Banner: p, Status: p, Warning: p, Self: p, Other: p,
		Current: p, Pending: p, Region: p, Card: p, Playable: p,
		Selected: p, Disabled: p, Feedback: p, Help: p,
	}
}
