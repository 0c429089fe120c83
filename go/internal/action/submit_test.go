package action

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/view"
)

type fakePoster struct {
	result   poll.Result
	endpoint string
	form     url.Values
}

func (p *fakePoster) Submit(_ context.Context, endpoint string, form url.Values) poll.Result {
	p.endpoint = endpoint
	p.form = form
	return p.result
}

func setup(t *testing.T, res poll.Result) (*fakePoster, *Submitter, *view.Document, *view.Node, *view.Node) {
	t.Helper()
	doc := view.NewDocument()
	var feedback, control *view.Node
	doc.Update(func() {
		feedback = doc.CreateElement("div", "feedback")
		control = doc.CreateElement("form", "bid_form")
		doc.Root().AppendChild(feedback)
		doc.Root().AppendChild(control)
	})
	poster := &fakePoster{result: res}
	return poster, NewSubmitter(poster, doc, feedback, i18n.New("en")), doc, feedback, control
}

func TestSubmitter_PlaceBidSuccess(t *testing.T) {
	poster, s, doc, feedback, control := setup(t, poll.Success([]byte(`{"ok":true}`)))

	require.NoError(t, s.PlaceBid(context.Background(), 2, control))

	assert.Equal(t, EndpointPlaceBid, poster.endpoint)
	assert.Equal(t, "2", poster.form.Get(FieldBid))
	doc.View(func() {
		assert.True(t, control.Hidden())
		assert.Equal(t, i18n.MsgBidPlaced, feedback.Text())
	})
}

func TestSubmitter_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		result  poll.Result
		tier    Tier
		message string
	}{
		{
			name:    "transport",
			result:  poll.TransportFailure(errors.New("connection refused")),
			tier:    TierTransport,
			message: i18n.MsgRetry,
		},
		{
			name:    "http",
			result:  poll.HTTPFailure(500, "Internal Server Error"),
			tier:    TierHTTP,
			message: "500/Internal Server Error",
		},
		{
			name:    "application",
			result:  poll.Success([]byte(`{"ok":false,"error":"Not your turn"}`)),
			tier:    TierApplication,
			message: "Not your turn",
		},
		{
			name:    "undecodable body",
			result:  poll.Success([]byte(`[1,2]`)),
			tier:    TierTransport,
			message: i18n.MsgRetry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s, doc, feedback, control := setup(t, tt.result)

			err := s.PlayCard(context.Background(), "17", control)
			var actionErr *Error
			require.ErrorAs(t, err, &actionErr)
			assert.Equal(t, tt.tier, actionErr.Tier)
			assert.Equal(t, tt.message, actionErr.Message)

			doc.View(func() {
				assert.False(t, control.Hidden(), "control stays usable after a failure")
				assert.Equal(t, tt.message, feedback.Text())
			})
		})
	}
}

func TestSubmitter_FinishRoundNilControl(t *testing.T) {
	poster, s, _, _, _ := setup(t, poll.Success([]byte(`{"ok":true}`)))
	require.NoError(t, s.FinishRound(context.Background(), nil))
	assert.Equal(t, EndpointFinishRound, poster.endpoint)
}

func TestSubmitter_LocalizedRetry(t *testing.T) {
	doc := view.NewDocument()
	poster := &fakePoster{result: poll.TransportFailure(errors.New("timeout"))}
	s := NewSubmitter(poster, doc, nil, i18n.New("de"))

	err := s.FinishRound(context.Background(), nil)
	var actionErr *Error
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Der Server ist nicht erreichbar. Bitte erneut versuchen.", actionErr.Message)
}
