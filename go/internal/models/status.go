package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcdev12/rikiki/go/internal/phase"
)

var (
	ErrMissingSummary = errors.New("status payload has no summary")
	ErrMissingField   = errors.New("status payload is missing a required field")
)

// Status is the body of the player status endpoint.
type Status struct {
	Summary          string          `json:"summary"`
	ID               string          `json:"id,omitempty"`
	GameState        phase.GamePhase `json:"game_state"`
	GameStatus       string          `json:"game_status,omitempty"`
	CurrentCardCount int             `json:"current_card_count,omitempty"`
	Round            *Round          `json:"round"`
	Players          []PlayerRecord  `json:"players"`
	Cards            *string         `json:"cards"`
	Trump            *string         `json:"trump"`
	Table            *string         `json:"table"`
	PlayableCards    []string        `json:"playable_cards"`

	// Partial is set when the server answered with the summary only because
	// nothing changed since the summary the client sent.
	Partial bool `json:"-"`
}

// Round is the current round, absent before the first deal.
type Round struct {
	State         phase.RoundPhase `json:"state"`
	CurrentPlayer string           `json:"current_player"`
}

// UnmarshalJSON defaults State to RoundUnknown so a round object without a
// state is reported as out of sync rather than as no round at all.
func (r *Round) UnmarshalJSON(data []byte) error {
	type plain Round
	p := plain{State: phase.RoundUnknown}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Round(p)
	return nil
}

// RoundPhase returns the round state, RoundNone when there is no round.
func (s *Status) RoundPhase() phase.RoundPhase {
	if s.Round == nil {
		return phase.RoundNone
	}
	return s.Round.State
}

// CurrentPlayer returns the id of the player whose turn it is, if any.
func (s *Status) CurrentPlayer() string {
	if s.Round == nil {
		return ""
	}
	return s.Round.CurrentPlayer
}

// TotalBids sums the bids placed so far.
func (s *Status) TotalBids() int {
	total := 0
	for _, p := range s.Players {
		if p.Bid != nil {
			total += *p.Bid
		}
	}
	return total
}

// Player returns the record with id, or nil.
func (s *Status) Player(id string) *PlayerRecord {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// DecodeStatus parses and validates a status body. A body holding only the
// summary decodes as a Partial status. Full bodies must carry game_state and
// players, and every player needs an id.
func DecodeStatus(body []byte) (*Status, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	if _, ok := fields["summary"]; ok && len(fields) == 1 {
		status.Partial = true
		return &status, nil
	}

	for _, required := range []string{"game_state", "players"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, required)
		}
	}

	current := status.CurrentPlayer()
	for i := range status.Players {
		p := &status.Players[i]
		if p.ID == "" {
			return nil, fmt.Errorf("%w: players[%d].id", ErrMissingField, i)
		}
		if p.Current == nil {
			isCurrent := current != "" && p.ID == current
			p.Current = &isCurrent
		}
	}

	return &status, nil
}
