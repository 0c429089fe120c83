package roster

import (
	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/models"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// RosterLine shows the name only, used while players are still joining.
func RosterLine(row *view.Node, rec models.PlayerRecord) {
	row.SetText(rec.DisplayName())
	row.ToggleClass(ClassConfirmed, rec.IsConfirmed())
	row.ToggleClass(ClassUnconfirmed, !rec.IsConfirmed())
	row.RemoveClass(ClassCurrent)
}

// StatsLine shows name, cards left, bid and tricks won, and flags the
// player whose turn it is.
func StatsLine(loc *i18n.Localizer) RowRenderer {
	return func(row *view.Node, rec models.PlayerRecord) {
		row.SetText(loc.T(i18n.MsgPlayerStats, rec.DisplayName(), rec.Cards, BidText(loc, rec.Bid), rec.Tricks))
		row.ToggleClass(ClassCurrent, rec.IsCurrentTurn())
		row.ToggleClass(ClassConfirmed, true)
		row.RemoveClass(ClassUnconfirmed)
	}
}

// BidText renders a bid or the "not bid yet" marker.
func BidText(loc *i18n.Localizer, bid *int) string {
	if bid == nil {
		return loc.T(i18n.MsgNotBid)
	}
	return loc.T(i18n.MsgBidFor, *bid)
}
