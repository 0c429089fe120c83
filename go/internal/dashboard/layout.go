package dashboard

import (
	"github.com/mcdev12/rikiki/go/internal/phase"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// Node ids of the dashboard layout.
const (
	IDNav         = "nav"
	IDGameStatus  = "game_status"
	IDFeedback    = "feedback"
	IDPlayers     = "players"
	IDStats       = "stats"
	IDCards       = "cards"
	IDTrump       = "trump"
	IDTable       = "table"
	IDBidForm     = "bid_form"
	IDBidInput    = "bid_input"
	IDBidSubmit   = "bid_submit"
	IDCardTray    = "card_tray"
	IDFinishRound = "finish_round"
)

// Classes set by the dashboard.
const (
	ClassError     = "error"
	ClassOutOfSync = "out_of_sync"
	ClassReadOnly  = "read_only"
	ClassCard      = "card"
	ClassPlayable  = "playable"
)

// AttrHTML keeps the raw server fragment of the cards, trump and table
// regions next to their plain text.
const AttrHTML = "html"

// AttrValue is the value a card row submits.
const AttrValue = "data-value"

const cardRowPrefix = "card_"

// CardRowID is the element id of the tray row for a card.
func CardRowID(cardID string) string { return cardRowPrefix + cardID }

type layout struct {
	nav, gameStatus, feedback *view.Node
	regions                   map[phase.Region]*view.Node
	bidInput, bidSubmit       *view.Node
}

func (l *layout) region(r phase.Region) *view.Node { return l.regions[r] }

// buildLayout creates the dashboard skeleton under the document root. Every
// region starts hidden until the first snapshot is rendered.
func buildLayout(doc *view.Document) *layout {
	l := &layout{regions: make(map[phase.Region]*view.Node)}

	doc.Update(func() {
		root := doc.Root()
		add := func(parent *view.Node, tag, id string) *view.Node {
			n := doc.CreateElement(tag, id)
			parent.AppendChild(n)
			return n
		}

		l.nav = add(root, "nav", IDNav)
		l.gameStatus = add(root, "p", IDGameStatus)
		l.feedback = add(root, "div", IDFeedback)

		l.regions[phase.RegionRoster] = add(root, "ul", IDPlayers)
		l.regions[phase.RegionStats] = add(root, "p", IDStats)
		l.regions[phase.RegionCards] = add(root, "div", IDCards)
		l.regions[phase.RegionTrump] = add(root, "div", IDTrump)
		l.regions[phase.RegionTable] = add(root, "div", IDTable)

		bid := add(root, "form", IDBidForm)
		l.bidInput = add(bid, "input", IDBidInput)
		l.bidSubmit = add(bid, "button", IDBidSubmit)
		l.regions[phase.RegionBidForm] = bid

		l.regions[phase.RegionCardTray] = add(root, "ul", IDCardTray)
		l.regions[phase.RegionFinishRound] = add(root, "button", IDFinishRound)

		for _, n := range l.regions {
			n.Hide()
		}
	})
	return l
}

// isInput reports whether n accepts user input.
func isInput(n *view.Node) bool {
	switch n.Tag() {
	case "input", "button", "select", "textarea", "form":
		return true
	}
	return n.HasClass(ClassCard)
}
