package phase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OutOfSync is shown instead of failing when the server reports a phase code
// this client does not know.
const OutOfSync = "state out of sync"

// GamePhase is the server-side Game.State.
type GamePhase int

const (
	GameConfirming GamePhase = 0
	GamePlaying    GamePhase = 1
	GamePaused     GamePhase = 2
	GameDone       GamePhase = 3

	// GameUnknown is never sent by the server; decoding maps unrecognised
	// values to it.
	GameUnknown GamePhase = -1
)

var gameNames = map[GamePhase]string{
	GameConfirming: "Confirming",
	GamePlaying:    "Playing",
	GamePaused:     "Paused between rounds",
	GameDone:       "Done",
}

// Known reports whether g is one of the server's game states.
func (g GamePhase) Known() bool {
	_, ok := gameNames[g]
	return ok
}

// Name is the display name, or the out-of-sync placeholder.
func (g GamePhase) Name() string {
	if name, ok := gameNames[g]; ok {
		return name
	}
	return OutOfSync
}

func (g GamePhase) String() string {
	if name, ok := gameNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GamePhase(%d)", int(g))
}

// UnmarshalJSON accepts the numeric code, a numeric string, or a state name.
// Anything else decodes to GameUnknown rather than failing the payload.
func (g *GamePhase) UnmarshalJSON(data []byte) error {
	code, ok := decodeCode(data)
	if !ok {
		code, ok = lookupName(data, gameNames)
	}
	*g = GamePhase(code)
	if !ok || !g.Known() {
		*g = GameUnknown
	}
	return nil
}

func (g GamePhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(g))
}

// RoundPhase is the server-side Round.State.
type RoundPhase int

const (
	RoundBidding       RoundPhase = 100
	RoundPlaying       RoundPhase = 101
	RoundBetweenTricks RoundPhase = 102
	RoundDone          RoundPhase = 103

	// RoundNone stands for "round": null.
	RoundNone RoundPhase = 0
	// RoundUnknown is an unrecognised round code.
	RoundUnknown RoundPhase = -1
)

var roundNames = map[RoundPhase]string{
	RoundBidding:       "Bidding",
	RoundPlaying:       "Playing",
	RoundBetweenTricks: "Between tricks",
	RoundDone:          "Done",
}

func (r RoundPhase) Known() bool {
	_, ok := roundNames[r]
	return ok
}

func (r RoundPhase) Name() string {
	if r == RoundNone {
		return ""
	}
	if name, ok := roundNames[r]; ok {
		return name
	}
	return OutOfSync
}

func (r RoundPhase) String() string {
	if name, ok := roundNames[r]; ok {
		return name
	}
	if r == RoundNone {
		return "None"
	}
	return fmt.Sprintf("RoundPhase(%d)", int(r))
}

func (r *RoundPhase) UnmarshalJSON(data []byte) error {
	code, ok := decodeCode(data)
	if !ok {
		code, ok = lookupName(data, roundNames)
	}
	*r = RoundPhase(code)
	if !ok || !r.Known() {
		*r = RoundUnknown
	}
	return nil
}

func (r RoundPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(r))
}

func decodeCode(data []byte) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := strconv.Atoi(n.String())
		return v, err == nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return v, err == nil
}

func lookupName[P ~int](data []byte, names map[P]string) (int, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	for code, name := range names {
		if strings.EqualFold(name, s) {
			return int(code), true
		}
	}
	return 0, false
}
