package phase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveRegions(t *testing.T) {
	tests := []struct {
		name        string
		game        GamePhase
		round       RoundPhase
		current     string
		self        string
		visible     []Region
		hidden      []Region
		enabled     Region
		readOnly    bool
		placeholder string
	}{
		{
			name:    "confirming shows roster only",
			game:    GameConfirming,
			round:   RoundBidding,
			current: "p1",
			self:    "p1",
			visible: []Region{RegionRoster},
			hidden:  []Region{RegionCards, RegionTrump, RegionTable, RegionBidForm, RegionCardTray, RegionFinishRound},
		},
		{
			name:    "bidding on own turn enables bid form",
			game:    GamePlaying,
			round:   RoundBidding,
			current: "p1",
			self:    "p1",
			visible: []Region{RegionRoster, RegionStats, RegionCards, RegionTrump, RegionBidForm},
			hidden:  []Region{RegionTable, RegionCardTray, RegionFinishRound},
			enabled: RegionBidForm,
		},
		{
			name:    "bidding on someone else's turn",
			game:    GamePlaying,
			round:   RoundBidding,
			current: "p2",
			self:    "p1",
			visible: []Region{RegionBidForm},
			enabled: 0,
		},
		{
			name:    "playing shows tray and table",
			game:    GamePlaying,
			round:   RoundPlaying,
			current: "p2",
			self:    "p1",
			visible: []Region{RegionCardTray, RegionTable},
			hidden:  []Region{RegionBidForm, RegionFinishRound},
			enabled: RegionCardTray,
		},
		{
			name:    "between tricks behaves like playing",
			game:    GamePlaying,
			round:   RoundBetweenTricks,
			visible: []Region{RegionCardTray, RegionTable},
			enabled: RegionCardTray,
		},
		{
			name:     "round done offers finish round",
			game:     GamePaused,
			round:    RoundDone,
			visible:  []Region{RegionTable, RegionFinishRound},
			hidden:   []Region{RegionCardTray, RegionBidForm},
			enabled:  RegionFinishRound,
			readOnly: true,
		},
		{
			name:    "no round yet",
			game:    GamePlaying,
			round:   RoundNone,
			visible: []Region{RegionRoster, RegionStats},
			hidden:  []Region{RegionBidForm, RegionCardTray, RegionTable, RegionFinishRound},
		},
		{
			name:     "game over",
			game:     GameDone,
			round:    RoundDone,
			visible:  []Region{RegionRoster, RegionTable},
			hidden:   []Region{RegionFinishRound, RegionCardTray},
			readOnly: true,
		},
		{
			name:        "unknown round code",
			game:        GamePlaying,
			round:       RoundUnknown,
			visible:     []Region{RegionRoster},
			hidden:      []Region{RegionBidForm, RegionCardTray, RegionFinishRound},
			placeholder: OutOfSync,
		},
		{
			name:        "unknown game code",
			game:        GameUnknown,
			visible:     []Region{RegionRoster},
			hidden:      []Region{RegionCards, RegionTable},
			placeholder: OutOfSync,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ActiveRegions(tt.game, tt.round, tt.current, tt.self)
			for _, r := range tt.visible {
				assert.True(t, set.Shows(r), "expected %s visible, got %s", r, set.Visible)
			}
			for _, r := range tt.hidden {
				assert.False(t, set.Shows(r), "expected %s hidden, got %s", r, set.Visible)
			}
			assert.Equal(t, tt.enabled, set.Enabled, "enabled regions")
			assert.Equal(t, tt.readOnly, set.ReadOnlyTable)
			assert.Equal(t, tt.placeholder, set.Placeholder)
		})
	}
}

func TestActiveRegions_NoSelfNeverEnablesBid(t *testing.T) {
	set := ActiveRegions(GamePlaying, RoundBidding, "", "")
	assert.False(t, set.Enables(RegionBidForm))
}

func TestPhaseDecoding(t *testing.T) {
	var payload struct {
		Game  GamePhase  `json:"game"`
		Round RoundPhase `json:"round"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"game":1,"round":102}`), &payload))
	assert.Equal(t, GamePlaying, payload.Game)
	assert.Equal(t, RoundBetweenTricks, payload.Round)

	require.NoError(t, json.Unmarshal([]byte(`{"game":"2","round":"Bidding"}`), &payload))
	assert.Equal(t, GamePaused, payload.Game)
	assert.Equal(t, RoundBidding, payload.Round)

	require.NoError(t, json.Unmarshal([]byte(`{"game":42,"round":7}`), &payload))
	assert.Equal(t, GameUnknown, payload.Game)
	assert.Equal(t, RoundUnknown, payload.Round)
	assert.Equal(t, OutOfSync, payload.Game.Name())
	assert.Equal(t, OutOfSync, payload.Round.Name())

	require.NoError(t, json.Unmarshal([]byte(`{"game":"Waiting for players"}`), &payload))
	assert.Equal(t, GameUnknown, payload.Game)
}

func TestRegionString(t *testing.T) {
	assert.Equal(t, "none", Region(0).String())
	assert.Equal(t, "roster|bid_form", (RegionRoster | RegionBidForm).String())
}
