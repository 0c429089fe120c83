// Package roster renders the player list of the dashboard.
package roster

import (
	"github.com/mcdev12/rikiki/go/internal/models"
	"github.com/mcdev12/rikiki/go/internal/reconcile"
	"github.com/mcdev12/rikiki/go/internal/view"
)

// CSS-style classes set on player rows.
const (
	ClassPlayerName  = "player_name"
	ClassSelf        = "self_player"
	ClassOther       = "other_player"
	ClassCurrent     = "current_player"
	ClassConfirmed   = "confirmed_player"
	ClassUnconfirmed = "unconfirmed_player"
)

const rowPrefix = "player_"

// RowID is the element id of a player's row. The prefix keeps player ids
// from colliding with the ids of the page layout.
func RowID(playerID string) string { return rowPrefix + playerID }

// RowRenderer projects a player record onto its row. It is the only place
// record fields reach the view and must be idempotent.
type RowRenderer func(row *view.Node, rec models.PlayerRecord)

// Roster owns one row per player id ever seen.
type Roster struct {
	list   *reconcile.List[models.PlayerRecord]
	selfID string
	roled  map[string]bool
}

// New creates an empty roster. stale decides what happens to rows of players
// missing from a later snapshot.
func New(doc *view.Document, stale reconcile.StalePolicy) *Roster {
	r := &Roster{roled: make(map[string]bool)}
	r.list = reconcile.NewList(doc, reconcile.Options[models.PlayerRecord]{
		Tag:     "li",
		RowID:   func(rec models.PlayerRecord) string { return RowID(rec.ID) },
		Classes: func(models.PlayerRecord) []string { return []string{ClassPlayerName} },
		Stale:   stale,
	})
	return r
}

// Reconcile brings container in line with records. The role class of a row
// (self or other) is set once, by the first reconcile that knows selfID, and
// never changes afterwards. Call inside Document.Update.
func (r *Roster) Reconcile(records []models.PlayerRecord, container *view.Node, selfID string, render RowRenderer) {
	r.selfID = selfID
	r.list.Reconcile(records, container, func(row *view.Node, rec models.PlayerRecord) {
		r.assignRole(row, rec.ID)
		render(row, rec)
	})
}

// Row returns the row for a player id, nil if never seen.
func (r *Roster) Row(id string) *view.Node {
	return r.list.Row(id)
}

func (r *Roster) assignRole(row *view.Node, id string) {
	if r.selfID == "" || r.roled[id] {
		return
	}
	role := ClassOther
	if id == r.selfID {
		role = ClassSelf
	}
	row.AddClass(role)
	r.roled[id] = true
}
