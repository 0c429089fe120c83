package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdev12/rikiki/go/internal/action"
	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/phase"
	"github.com/mcdev12/rikiki/go/internal/view"
)

var (
	ErrNotAvailable = errors.New("action not available in the current phase")
	ErrUnknownCard  = errors.New("card is not in hand")
)

// PlaceBid submits a bid when the bid form is open.
func (d *Dashboard) PlaceBid(ctx context.Context, bid int) error {
	form := d.layout.region(phase.RegionBidForm)
	if !d.available(form) {
		return fmt.Errorf("place bid: %w", ErrNotAvailable)
	}
	return d.afterAction(ctx, action.EndpointPlaceBid, d.submitter.PlaceBid(ctx, bid, form))
}

// PlayCard plays a card from the tray by id.
func (d *Dashboard) PlayCard(ctx context.Context, cardID string) error {
	tray := d.layout.region(phase.RegionCardTray)
	var value string
	var known, ok bool
	d.doc.View(func() {
		row := d.hand.Row(cardID)
		known = row != nil
		ok = known && !tray.Hidden() && !tray.Disabled() && !row.Hidden() && !row.Disabled()
		value = row.Attr(AttrValue)
	})
	if !known {
		return fmt.Errorf("play card %s: %w", cardID, ErrUnknownCard)
	}
	if !ok || d.Stopped() {
		return fmt.Errorf("play card %s: %w", cardID, ErrNotAvailable)
	}
	return d.afterAction(ctx, action.EndpointPlayCard, d.submitter.PlayCard(ctx, value, tray))
}

// FinishRound closes the finished round.
func (d *Dashboard) FinishRound(ctx context.Context) error {
	button := d.layout.region(phase.RegionFinishRound)
	if !d.available(button) {
		return fmt.Errorf("finish round: %w", ErrNotAvailable)
	}
	return d.afterAction(ctx, action.EndpointFinishRound, d.submitter.FinishRound(ctx, button))
}

// PlayableCards lists the ids of the cards that can be played right now.
func (d *Dashboard) PlayableCards() []string {
	var out []string
	d.doc.View(func() {
		tray := d.layout.region(phase.RegionCardTray)
		if tray.Hidden() || tray.Disabled() {
			return
		}
		for _, row := range tray.Children() {
			if !row.Hidden() && !row.Disabled() {
				out = append(out, strings.TrimPrefix(row.ID(), cardRowPrefix))
			}
		}
	})
	return out
}

func (d *Dashboard) available(n *view.Node) bool {
	if d.Stopped() {
		return false
	}
	var ok bool
	d.doc.View(func() { ok = !n.Hidden() && !n.Disabled() })
	return ok
}

func (d *Dashboard) afterAction(ctx context.Context, endpoint string, err error) error {
	if err != nil {
		payload := events.ActionPayload{Endpoint: endpoint, Message: err.Error()}
		var actionErr *action.Error
		if errors.As(err, &actionErr) {
			payload.Tier = actionErr.Tier.String()
			payload.Message = actionErr.Message
		}
		d.emit(ctx, events.TypeActionFailed, payload)
		return err
	}

	d.emit(ctx, events.TypeActionSubmitted, events.ActionPayload{Endpoint: endpoint})
	d.mu.RLock()
	p := d.poller
	d.mu.RUnlock()
	if p != nil {
		p.PollNow()
	}
	return nil
}
