// Package tui is the terminal front end of the dashboard. It redraws the
// view tree whenever it changes and turns key presses into player actions.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcdev12/rikiki/go/internal/dashboard"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// Actions is what the TUI can ask of the dashboard.
type Actions interface {
	Document() *view.Document
	PlaceBid(ctx context.Context, bid int) error
	PlayCard(ctx context.Context, cardID string) error
	FinishRound(ctx context.Context) error
	PlayableCards() []string
}

type (
	viewChangedMsg struct{}
	actionDoneMsg  struct{ err error }
)

type Model struct {
	ctx     context.Context
	actions Actions
	styles  Styles

	changes chan struct{}
	stop    func()

	viewport viewport.Model
	bidInput textinput.Model
	bidding  bool
	selected int
	notice   string
	ready    bool
}

// New builds the model and starts watching the document for changes. Call
// Close when the program exits.
func New(ctx context.Context, actions Actions, styles Styles) *Model {
	input := textinput.New()
	input.Placeholder = "tricks"
	input.CharLimit = 2
	input.Width = 6

	m := &Model{
		ctx:      ctx,
		actions:  actions,
		styles:   styles,
		changes:  make(chan struct{}, 1),
		viewport: viewport.New(80, 24),
		bidInput: input,
	}
	m.stop = actions.Document().Observe(func([]view.Mutation) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

// Close stops watching the document.
func (m *Model) Close() { m.stop() }

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return viewChangedMsg{}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.ready = true
		m.refresh()
		return m, nil

	case viewChangedMsg:
		m.clampSelection()
		m.refresh()
		return m, m.waitForChange()

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.bidding {
			return m.updateBidding(msg)
		}
		return m.updateNormal(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "b":
		m.bidding = true
		m.bidInput.SetValue("")
		m.refresh()
		return m, m.bidInput.Focus()
	case "left", "h":
		m.moveSelection(-1)
		return m, nil
	case "right", "l":
		m.moveSelection(1)
		return m, nil
	case "enter", " ":
		cards := m.actions.PlayableCards()
		if len(cards) == 0 {
			return m, nil
		}
		if m.selected >= len(cards) {
			m.selected = 0
		}
		card := cards[m.selected]
		return m, m.run(func(ctx context.Context) error { return m.actions.PlayCard(ctx, card) })
	case "f":
		return m, m.run(m.actions.FinishRound)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateBidding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.bidding = false
		m.bidInput.Blur()
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		bid, err := strconv.Atoi(strings.TrimSpace(m.bidInput.Value()))
		if err != nil || bid < 0 {
			m.notice = fmt.Sprintf("not a bid: %q", m.bidInput.Value())
			m.refresh()
			return m, nil
		}
		m.bidding = false
		m.bidInput.Blur()
		return m, m.run(func(ctx context.Context) error { return m.actions.PlaceBid(ctx, bid) })
	}

	var cmd tea.Cmd
	m.bidInput, cmd = m.bidInput.Update(msg)
	m.refresh()
	return m, cmd
}

// run performs an action off the UI goroutine.
func (m *Model) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(m.ctx)}
	}
}

func (m *Model) moveSelection(delta int) {
	n := len(m.actions.PlayableCards())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = (m.selected + delta + n) % n
	m.refresh()
}

func (m *Model) clampSelection() {
	if n := len(m.actions.PlayableCards()); m.selected >= n {
		m.selected = 0
	}
}

func (m *Model) selectedRowID() string {
	cards := m.actions.PlayableCards()
	if m.selected >= len(cards) {
		return ""
	}
	return dashboard.CardRowID(cards[m.selected])
}

func (m *Model) refresh() {
	m.viewport.SetContent(Render(m.actions.Document().Snapshot(), m.styles, m.selectedRowID()))
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.bidding {
		b.WriteString(m.bidInput.View())
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Warning.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(helpLine(m.bidding)))
	return b.String()
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, actions Actions) error {
	m := New(ctx, actions, DefaultStyles())
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
