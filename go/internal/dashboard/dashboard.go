// Package dashboard keeps the player dashboard in step with the server: it
// receives every poll outcome, decides whether anything needs rendering and
// updates the view regions for the current game phase.
package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/rikiki/go/internal/action"
	"github.com/mcdev12/rikiki/go/internal/cards"
	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/models"
	"github.com/mcdev12/rikiki/go/internal/phase"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/reconcile"
	"github.com/mcdev12/rikiki/go/internal/roster"
	"github.com/mcdev12/rikiki/go/internal/view"
)

type Config struct {
	// SelfID identifies the local player when the status payload has no id.
	SelfID string
	// StaleRows decides what happens to rows of players that leave.
	StaleRows reconcile.StalePolicy
	Localizer *i18n.Localizer
	Sink      events.Sink
}

// Poller is the part of the scheduler the dashboard needs after an action.
type Poller interface {
	PollNow() bool
}

// Dashboard implements poll.Handler.
type Dashboard struct {
	doc     *view.Document
	session *poll.Session
	gate    *poll.Gate
	loc     *i18n.Localizer
	sink    events.Sink
	layout  *layout

	roster    *roster.Roster
	hand      *reconcile.List[cards.Card]
	submitter *action.Submitter

	mu     sync.RWMutex
	selfID string
	last   *models.Status
	fatal  *poll.HTTPError
	poller Poller

	// retryNotice is the feedback text OnTransient last wrote. Guarded by
	// the document lock.
	retryNotice string

	rowRenders atomic.Uint64
	renders    atomic.Uint64
}

var _ poll.Handler = (*Dashboard)(nil)

// New builds the dashboard layout in doc. poster sends player actions.
func New(doc *view.Document, session *poll.Session, poster action.Poster, cfg Config) *Dashboard {
	if cfg.Localizer == nil {
		cfg.Localizer = i18n.New("en")
	}
	if cfg.Sink == nil {
		cfg.Sink = events.Discard
	}

	d := &Dashboard{
		doc:     doc,
		session: session,
		gate:    poll.NewGate(session),
		loc:     cfg.Localizer,
		sink:    cfg.Sink,
		layout:  buildLayout(doc),
		roster:  roster.New(doc, cfg.StaleRows),
		selfID:  cfg.SelfID,
	}
	d.hand = reconcile.NewList(doc, reconcile.Options[cards.Card]{
		RowID:   func(c cards.Card) string { return CardRowID(c.ID) },
		Classes: func(cards.Card) []string { return []string{ClassCard} },
		Stale:   reconcile.StaleHide,
	})
	d.submitter = action.NewSubmitter(poster, doc, d.layout.feedback, cfg.Localizer)
	return d
}

// SetPoller registers the scheduler so a successful action triggers an
// immediate refresh.
func (d *Dashboard) SetPoller(p Poller) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.poller = p
}

func (d *Dashboard) Document() *view.Document   { return d.doc }
func (d *Dashboard) Session() *poll.Session     { return d.session }
func (d *Dashboard) Localizer() *i18n.Localizer { return d.loc }

// Status returns the last rendered snapshot, nil before the first one.
func (d *Dashboard) Status() *models.Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

// SelfID is the local player's id as last known.
func (d *Dashboard) SelfID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selfID
}

// Stopped reports whether polling ended on a server error.
func (d *Dashboard) Stopped() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fatal != nil
}

// Renders counts snapshots that reached the view.
func (d *Dashboard) Renders() uint64 { return d.renders.Load() }

// RowRenders counts player row renderer invocations.
func (d *Dashboard) RowRenders() uint64 { return d.rowRenders.Load() }

// OnSnapshot renders body unless its summary matches the one on screen.
func (d *Dashboard) OnSnapshot(ctx context.Context, body json.RawMessage) error {
	status, err := models.DecodeStatus(body)
	if err != nil {
		return err
	}

	if status.Partial || !d.gate.ShouldRender(status.Summary) {
		d.emit(ctx, events.TypeSnapshotSkipped, events.SnapshotSkippedPayload{
			Summary: status.Summary,
			Partial: status.Partial,
		})
		return nil
	}

	d.mu.Lock()
	if status.ID != "" {
		d.selfID = status.ID
	}
	self := d.selfID
	d.last = status
	d.mu.Unlock()

	before := d.doc.Mutations()
	regions := phase.ActiveRegions(status.GameState, status.RoundPhase(), status.CurrentPlayer(), self)
	d.doc.Update(func() { d.render(status, regions, self) })
	d.renders.Add(1)

	log.Debug().
		Str("session_id", d.session.ID.String()).
		Str("summary", status.Summary).
		Stringer("game_state", status.GameState).
		Stringer("regions", regions.Visible).
		Msg("snapshot rendered")

	d.emit(ctx, events.TypeSnapshotRendered, events.SnapshotRenderedPayload{
		Summary:    status.Summary,
		GameState:  status.GameState.Name(),
		RoundState: status.RoundPhase().Name(),
		Players:    len(status.Players),
		Mutations:  d.doc.Mutations() - before,
	})
	return nil
}

// OnTransient tells the player the connection is being retried.
func (d *Dashboard) OnTransient(err error, next time.Duration) {
	d.doc.Update(func() {
		d.retryNotice = d.loc.T(i18n.MsgConnecting, next.String())
		d.layout.feedback.SetText(d.retryNotice)
	})
	d.emit(context.Background(), events.TypePollFailed, events.PollFailedPayload{
		Error:       err.Error(),
		NextDelayMS: next.Milliseconds(),
	})
}

// OnFatal shows the server error banner and disables every input.
func (d *Dashboard) OnFatal(err *poll.HTTPError) {
	d.mu.Lock()
	d.fatal = err
	d.mu.Unlock()

	d.doc.Update(func() {
		d.layout.nav.SetText(d.loc.T(i18n.MsgServerErrorAt, err.Status, err.StatusText))
		d.layout.nav.AddClass(ClassError)
		view.Walk(d.doc.Root(), func(n *view.Node) bool {
			if isInput(n) {
				n.SetEnabled(false)
			}
			return true
		})
	})
	d.emit(context.Background(), events.TypePollStopped, events.PollStoppedPayload{
		Status:     err.Status,
		StatusText: err.StatusText,
	})
}

func (d *Dashboard) render(status *models.Status, regions phase.RegionSet, self string) {
	l := d.layout
	for _, r := range phase.AllRegions() {
		n := l.region(r)
		n.SetVisible(regions.Shows(r))
		if r&phase.Interactive != 0 {
			n.SetEnabled(regions.Enables(r) && !d.Stopped())
		}
	}
	bidOpen := !l.region(phase.RegionBidForm).Disabled()
	l.bidInput.SetEnabled(bidOpen)
	l.bidSubmit.SetEnabled(bidOpen)
	l.region(phase.RegionTable).ToggleClass(ClassReadOnly, regions.ReadOnlyTable)

	// the server answered, so a retry notice no longer applies; action
	// feedback written since then stays
	if d.retryNotice != "" && l.feedback.Text() == d.retryNotice {
		l.feedback.SetText("")
	}
	d.retryNotice = ""

	l.gameStatus.SetText(d.statusLine(status, regions))
	l.gameStatus.ToggleClass(ClassOutOfSync, regions.Placeholder != "")

	renderer := roster.RosterLine
	if regions.Shows(phase.RegionStats) {
		renderer = roster.StatsLine(d.loc)
	}
	d.roster.Reconcile(status.Players, l.region(phase.RegionRoster), self, func(row *view.Node, rec models.PlayerRecord) {
		d.rowRenders.Add(1)
		renderer(row, rec)
	})

	if regions.Shows(phase.RegionStats) {
		l.region(phase.RegionStats).SetText(d.ownStats(status, self))
	}
	if regions.Shows(phase.RegionCards) {
		setFragment(l.region(phase.RegionCards), status.Cards)
	}
	if regions.Shows(phase.RegionTrump) {
		setFragment(l.region(phase.RegionTrump), status.Trump)
	}
	if regions.Shows(phase.RegionTable) {
		setFragment(l.region(phase.RegionTable), status.Table)
	}
	if regions.Shows(phase.RegionCardTray) {
		d.renderHand(status, regions.Enables(phase.RegionCardTray))
	}
}

func (d *Dashboard) statusLine(status *models.Status, regions phase.RegionSet) string {
	switch {
	case regions.Placeholder != "":
		return d.loc.T(i18n.MsgOutOfSync)
	case status.GameStatus != "":
		return status.GameStatus
	case status.GameState == phase.GameConfirming:
		return d.loc.T(i18n.MsgWaiting)
	case status.GameState == phase.GameDone:
		return d.loc.T(i18n.MsgGameOver)
	case status.Round != nil && status.CurrentCardCount == 0:
		return status.RoundPhase().Name()
	case status.Round != nil:
		return d.loc.T(i18n.MsgRoundStatus, status.RoundPhase().Name(), status.CurrentCardCount, status.TotalBids())
	default:
		return status.GameState.Name()
	}
}

func (d *Dashboard) ownStats(status *models.Status, self string) string {
	me := status.Player(self)
	if me == nil {
		return ""
	}
	return d.loc.T(i18n.MsgOwnStats, roster.BidText(d.loc, me.Bid), me.Tricks)
}

func (d *Dashboard) renderHand(status *models.Status, enabled bool) {
	tray := d.layout.region(phase.RegionCardTray)
	var hand []cards.Card
	if status.Cards != nil {
		parsed, err := cards.Parse(*status.Cards)
		if err != nil {
			log.Warn().Err(err).Msg("could not read hand")
		}
		hand = parsed
	}

	playable := make(map[string]bool, len(status.PlayableCards))
	for _, id := range status.PlayableCards {
		playable[id] = true
	}

	d.hand.Reconcile(hand, tray, func(row *view.Node, c cards.Card) {
		row.SetText(c.Label)
		row.SetAttr(AttrValue, c.Value)
		row.ToggleClass(ClassPlayable, playable[c.ID])
		row.SetEnabled(enabled && playable[c.ID])
	})
}

func setFragment(n *view.Node, fragment *string) {
	if fragment == nil {
		n.SetAttr(AttrHTML, "")
		n.SetText("")
		return
	}
	n.SetAttr(AttrHTML, *fragment)
	n.SetText(cards.PlainText(*fragment))
}

func (d *Dashboard) emit(ctx context.Context, typ events.Type, payload any) {
	ev, err := events.New(d.session.ID, typ, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to build dashboard event")
		return
	}
	if err := d.sink.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event_type", string(typ)).Msg("failed to publish dashboard event")
	}
}

// PlayerRow returns the roster row of a player, nil if never seen.
func (d *Dashboard) PlayerRow(id string) *view.Node {
	var n *view.Node
	d.doc.View(func() { n = d.roster.Row(id) })
	return n
}
