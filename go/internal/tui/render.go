package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcdev12/rikiki/go/internal/dashboard"
	"github.com/mcdev12/rikiki/go/internal/roster"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// Render draws the dashboard tree. Hidden nodes are skipped; selected is the
// id of the highlighted card, if any.
func Render(root view.NodeSnapshot, st Styles, selected string) string {
	byID := make(map[string]view.NodeSnapshot)
	index(root, byID)

	var sections []string
	add := func(s string) {
		if s != "" {
			sections = append(sections, s)
		}
	}

	if nav, ok := byID[dashboard.IDNav]; ok && nav.Text != "" {
		add(st.Banner.Render(nav.Text))
	}
	if status, ok := byID[dashboard.IDGameStatus]; ok && status.Text != "" {
		style := st.Status
		if has(status, dashboard.ClassOutOfSync) {
			style = st.Warning
		}
		add(style.Render(status.Text))
	}

	add(region(byID, dashboard.IDPlayers, "Players", st, renderPlayers))
	add(region(byID, dashboard.IDStats, "", st, nil))
	add(region(byID, dashboard.IDTrump, "Trump", st, nil))
	add(region(byID, dashboard.IDCards, "Hand", st, nil))
	add(region(byID, dashboard.IDTable, "Table", st, nil))
	add(region(byID, dashboard.IDCardTray, "Play a card", st, func(n view.NodeSnapshot, st Styles) string {
		return renderTray(n, st, selected)
	}))
	add(region(byID, dashboard.IDBidForm, "Your bid", st, func(n view.NodeSnapshot, st Styles) string {
		if n.Disabled {
			return st.Disabled.Render("waiting for your turn")
		}
		return st.Current.Render("[b] place a bid")
	}))
	if fin, ok := byID[dashboard.IDFinishRound]; ok && !fin.Hidden {
		add(styleFor(fin, st.Current, st).Render("[f] finish round"))
	}

	if fb, ok := byID[dashboard.IDFeedback]; ok && fb.Text != "" {
		add(st.Feedback.Render(fb.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type bodyFunc func(n view.NodeSnapshot, st Styles) string

func region(byID map[string]view.NodeSnapshot, id, title string, st Styles, body bodyFunc) string {
	n, ok := byID[id]
	if !ok || n.Hidden {
		return ""
	}
	content := n.Text
	if body != nil {
		content = body(n, st)
	}
	if content == "" {
		return ""
	}
	if has(n, dashboard.ClassReadOnly) {
		title += " (read only)"
	}
	if title != "" {
		content = st.Title.Render(title) + "\n" + content
	}
	return st.Region.Render(content)
}

func renderPlayers(n view.NodeSnapshot, st Styles) string {
	lines := make([]string, 0, len(n.Children))
	for _, row := range n.Children {
		if row.Hidden {
			continue
		}
		style := st.Other
		switch {
		case has(row, roster.ClassCurrent):
			style = st.Current
		case has(row, roster.ClassUnconfirmed):
			style = st.Pending
		case has(row, roster.ClassSelf):
			style = st.Self
		}
		marker := "  "
		if has(row, roster.ClassCurrent) {
			marker = "> "
		}
		lines = append(lines, marker+style.Render(row.Text))
	}
	return strings.Join(lines, "\n")
}

func renderTray(n view.NodeSnapshot, st Styles, selected string) string {
	var cards []string
	for _, c := range n.Children {
		if c.Hidden {
			continue
		}
		style := st.Card
		if has(c, dashboard.ClassPlayable) {
			style = st.Playable
		}
		if c.ID == selected {
			style = st.Selected
		}
		cards = append(cards, styleFor(c, style, st).Render(c.Text))
	}
	return strings.Join(cards, "  ")
}

func styleFor(n view.NodeSnapshot, style lipgloss.Style, st Styles) lipgloss.Style {
	if n.Disabled {
		return st.Disabled
	}
	return style
}

func has(n view.NodeSnapshot, class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func index(n view.NodeSnapshot, byID map[string]view.NodeSnapshot) {
	if n.ID != "" {
		byID[n.ID] = n
	}
	for _, c := range n.Children {
		index(c, byID)
	}
}

// helpLine lists the keys that apply right now.
func helpLine(bidding bool) string {
	if bidding {
		return "enter submit bid • esc cancel"
	}
	return "b bid • ←/→ choose card • enter play card • f finish round • q quit"
}
