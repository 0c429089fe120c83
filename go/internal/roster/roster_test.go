package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/models"
	"github.com/mcdev12/rikiki/go/internal/reconcile"
	"github.com/mcdev12/rikiki/go/internal/view"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*view.Document, *view.Node, *Roster) {
	t.Helper()
	doc := view.NewDocument()
	var container *view.Node
	doc.Update(func() {
		container = doc.CreateElement("ul", "players")
		doc.Root().AppendChild(container)
	})
	return doc, container, New(doc, reconcile.StaleKeep)
}

func TestRoster_RoleClassesAndIdentity(t *testing.T) {
	doc, container, r := setup(t)
	records := []models.PlayerRecord{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Bob"}}

	doc.Update(func() { r.Reconcile(records, container, "p1", RosterLine) })
	ann, bob := r.Row("p1"), r.Row("p2")
	require.NotNil(t, ann)

	doc.View(func() {
		assert.True(t, ann.HasClass(ClassSelf))
		assert.True(t, ann.HasClass(ClassPlayerName))
		assert.False(t, ann.HasClass(ClassOther))
		assert.True(t, bob.HasClass(ClassOther))
		assert.Equal(t, "Ann", ann.Text())
	})

	// switching renderer keeps the same rows
	loc := i18n.New("en")
	records[1].Current = ptr(true)
	records[1].Bid = ptr(2)
	records[1].Cards = 4
	doc.Update(func() { r.Reconcile(records, container, "p1", StatsLine(loc)) })

	assert.Same(t, ann, r.Row("p1"))
	assert.Same(t, bob, r.Row("p2"))
	doc.View(func() {
		assert.Equal(t, "Bob: 4 cards, bid for 2 tricks, 0 tricks won", bob.Text())
		assert.True(t, bob.HasClass(ClassCurrent))
		assert.False(t, ann.HasClass(ClassCurrent))
		assert.Equal(t, "Ann: 0 cards, not bid yet, 0 tricks won", ann.Text())
	})
}

func TestRoster_RenderersAreIdempotent(t *testing.T) {
	doc, container, r := setup(t)
	loc := i18n.New("en")
	records := []models.PlayerRecord{{ID: "p1", Name: "Ann", Current: ptr(true)}}

	doc.Update(func() { r.Reconcile(records, container, "p1", StatsLine(loc)) })
	before := doc.Mutations()

	for i := 0; i < 3; i++ {
		doc.Update(func() { r.Reconcile(records, container, "p1", StatsLine(loc)) })
	}
	assert.Equal(t, before, doc.Mutations())
}

func TestRosterLine_ConfirmationClasses(t *testing.T) {
	doc, container, r := setup(t)
	records := []models.PlayerRecord{{ID: "p2", Name: "Bob", Confirmed: ptr(false)}}

	doc.Update(func() { r.Reconcile(records, container, "p1", RosterLine) })
	doc.View(func() { assert.True(t, r.Row("p2").HasClass(ClassUnconfirmed)) })

	records[0].Confirmed = ptr(true)
	doc.Update(func() { r.Reconcile(records, container, "p1", RosterLine) })
	doc.View(func() {
		row := r.Row("p2")
		assert.True(t, row.HasClass(ClassConfirmed))
		assert.False(t, row.HasClass(ClassUnconfirmed))
	})
}

func TestRoster_RoleWaitsForSelfID(t *testing.T) {
	doc, container, r := setup(t)
	records := []models.PlayerRecord{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Bob"}}

	doc.Update(func() { r.Reconcile(records, container, "", RosterLine) })
	ann, bob := r.Row("p1"), r.Row("p2")
	doc.View(func() {
		assert.False(t, ann.HasClass(ClassSelf))
		assert.False(t, ann.HasClass(ClassOther))
		assert.True(t, ann.HasClass(ClassPlayerName))
	})

	doc.Update(func() { r.Reconcile(records, container, "p1", RosterLine) })
	doc.View(func() {
		assert.True(t, ann.HasClass(ClassSelf))
		assert.True(t, bob.HasClass(ClassOther))
	})

	// once set, the role does not follow a different self id
	doc.Update(func() { r.Reconcile(records, container, "p2", RosterLine) })
	doc.View(func() {
		assert.True(t, ann.HasClass(ClassSelf))
		assert.False(t, bob.HasClass(ClassSelf))
	})
}

func TestRoster_RowIDsArePrefixed(t *testing.T) {
	doc, container, r := setup(t)
	records := []models.PlayerRecord{{ID: "players", Name: "Tricky"}}

	doc.Update(func() { r.Reconcile(records, container, "players", RosterLine) })
	doc.View(func() {
		assert.Same(t, container, doc.ByID("players"))
		assert.Same(t, r.Row("players"), doc.ByID(RowID("players")))
		assert.Equal(t, "player_players", r.Row("players").ID())
	})
}
