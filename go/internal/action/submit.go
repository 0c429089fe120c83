// Package action submits player moves (bid, card, finish round) to the game
// server and reports the outcome on the dashboard.
package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/models"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/view"
)

const (
	EndpointPlaceBid    = "/player/place/bid/"
	EndpointPlayCard    = "/player/play/card/"
	EndpointFinishRound = "/player/finish/round/"

	FieldBid  = "bid"
	FieldCard = "card"
)

// Poster posts form fields to an endpoint. The player secret is added by the
// poster.
type Poster interface {
	Submit(ctx context.Context, endpoint string, form url.Values) poll.Result
}

// Tier classifies a failed action.
type Tier int

const (
	TierTransport Tier = iota + 1
	TierHTTP
	TierApplication
)

func (t Tier) String() string {
	switch t {
	case TierTransport:
		return "transport"
	case TierHTTP:
		return "http"
	case TierApplication:
		return "application"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Error is a failed action with the message shown to the player.
type Error struct {
	Tier    Tier
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failure: %s", e.Tier, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Form is one action: the endpoint, its fields and the control that issued
// it.
type Form struct {
	Endpoint string
	Fields   url.Values
	// Control is hidden on success. May be nil.
	Control *view.Node
	// Success is the feedback message on success.
	Success string
}

// Submitter sends actions and writes feedback into the view.
type Submitter struct {
	poster   Poster
	doc      *view.Document
	feedback *view.Node
	loc      *i18n.Localizer
}

// NewSubmitter creates a submitter. feedback may be nil.
func NewSubmitter(poster Poster, doc *view.Document, feedback *view.Node, loc *i18n.Localizer) *Submitter {
	if loc == nil {
		loc = i18n.New("en")
	}
	return &Submitter{poster: poster, doc: doc, feedback: feedback, loc: loc}
}

// Submit posts form. On success the control is hidden. On failure the
// control is left as it was and the returned *Error carries the message also
// written to the feedback node.
func (s *Submitter) Submit(ctx context.Context, form Form) error {
	res := s.poster.Submit(ctx, form.Endpoint, form.Fields)
	err := s.classify(res)

	s.doc.Update(func() {
		if err != nil {
			var actionErr *Error
			if errors.As(err, &actionErr) {
				s.feedback.SetText(actionErr.Message)
			}
			return
		}
		s.feedback.SetText(s.loc.T(form.Success))
		form.Control.Hide()
	})

	if err != nil {
		log.Warn().Err(err).Str("endpoint", form.Endpoint).Msg("action failed")
		return err
	}
	log.Debug().Str("endpoint", form.Endpoint).Msg("action accepted")
	return nil
}

// PlaceBid bids for a number of tricks.
func (s *Submitter) PlaceBid(ctx context.Context, bid int, control *view.Node) error {
	return s.Submit(ctx, Form{
		Endpoint: EndpointPlaceBid,
		Fields:   url.Values{FieldBid: {strconv.Itoa(bid)}},
		Control:  control,
		Success:  i18n.MsgBidPlaced,
	})
}

// PlayCard plays the card with the given value.
func (s *Submitter) PlayCard(ctx context.Context, card string, control *view.Node) error {
	return s.Submit(ctx, Form{
		Endpoint: EndpointPlayCard,
		Fields:   url.Values{FieldCard: {card}},
		Control:  control,
		Success:  i18n.MsgCardPlayed,
	})
}

// FinishRound closes the round once every trick is played.
func (s *Submitter) FinishRound(ctx context.Context, control *view.Node) error {
	return s.Submit(ctx, Form{
		Endpoint: EndpointFinishRound,
		Fields:   url.Values{},
		Control:  control,
		Success:  i18n.MsgRoundFinished,
	})
}

func (s *Submitter) classify(res poll.Result) error {
	switch res.Kind {
	case poll.KindTransportError:
		return &Error{Tier: TierTransport, Message: s.loc.T(i18n.MsgRetry), Cause: res.Err()}
	case poll.KindHTTPError:
		return &Error{
			Tier:    TierHTTP,
			Message: fmt.Sprintf("%d/%s", res.Status, res.StatusText),
			Cause:   res.Err(),
		}
	}

	var resp models.ActionResponse
	if err := json.Unmarshal(res.Body, &resp); err != nil {
		return &Error{Tier: TierTransport, Message: s.loc.T(i18n.MsgRetry), Cause: fmt.Errorf("decode action response: %w", err)}
	}
	if !resp.OK {
		return &Error{Tier: TierApplication, Message: resp.Error}
	}
	return nil
}
