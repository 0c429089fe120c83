package phase

import "strings"

// Region is one area of the dashboard.
type Region uint16

const (
	RegionRoster Region = 1 << iota
	RegionStats
	RegionCards
	RegionTrump
	RegionTable
	RegionBidForm
	RegionCardTray
	RegionFinishRound
)

// Interactive regions accept user actions.
const Interactive = RegionBidForm | RegionCardTray | RegionFinishRound

var regionNames = []struct {
	region Region
	name   string
}{
	{RegionRoster, "roster"},
	{RegionStats, "stats"},
	{RegionCards, "cards"},
	{RegionTrump, "trump"},
	{RegionTable, "table"},
	{RegionBidForm, "bid_form"},
	{RegionCardTray, "card_tray"},
	{RegionFinishRound, "finish_round"},
}

// AllRegions lists every region in display order.
func AllRegions() []Region {
	out := make([]Region, 0, len(regionNames))
	for _, r := range regionNames {
		out = append(out, r.region)
	}
	return out
}

func (r Region) String() string {
	var parts []string
	for _, rn := range regionNames {
		if r&rn.region != 0 {
			parts = append(parts, rn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// RegionSet says which regions are shown and which accept input.
type RegionSet struct {
	Visible Region
	Enabled Region
	// ReadOnlyTable is set when the table is shown for review only.
	ReadOnlyTable bool
	// Placeholder is non-empty when a phase value was not understood.
	Placeholder string
}

func (s RegionSet) Shows(r Region) bool   { return s.Visible&r == r }
func (s RegionSet) Enables(r Region) bool { return s.Enabled&r == r }

const fullDashboard = RegionRoster | RegionStats | RegionCards | RegionTrump

type roundRule struct {
	visible  Region
	enabled  func(currentPlayerID, selfID string) bool
	readOnly bool
}

func always(string, string) bool { return true }

func selfToAct(currentPlayerID, selfID string) bool {
	return selfID != "" && currentPlayerID == selfID
}

// roundRules maps a round phase to its interactive region.
var roundRules = map[RoundPhase]roundRule{
	RoundBidding:       {visible: RegionBidForm, enabled: selfToAct},
	RoundPlaying:       {visible: RegionCardTray | RegionTable, enabled: always},
	RoundBetweenTricks: {visible: RegionCardTray | RegionTable, enabled: always},
	RoundDone:          {visible: RegionTable | RegionFinishRound, enabled: always, readOnly: true},
}

// ActiveRegions maps the game and round phases to the regions to show.
// It never fails: unknown phases yield a placeholder and no interactive region.
func ActiveRegions(game GamePhase, round RoundPhase, currentPlayerID, selfID string) RegionSet {
	switch game {
	case GameConfirming:
		return RegionSet{Visible: RegionRoster}

	case GameDone:
		return RegionSet{
			Visible:       RegionRoster | RegionStats | RegionTable,
			ReadOnlyTable: true,
		}

	case GamePlaying, GamePaused:
		set := RegionSet{Visible: fullDashboard}
		if round == RoundNone {
			return set
		}
		rule, ok := roundRules[round]
		if !ok {
			set.Placeholder = OutOfSync
			return set
		}
		set.Visible |= rule.visible
		set.ReadOnlyTable = rule.readOnly
		if rule.enabled(currentPlayerID, selfID) {
			set.Enabled = rule.visible & Interactive
		}
		return set

	default:
		return RegionSet{Visible: RegionRoster, Placeholder: OutOfSync}
	}
}
