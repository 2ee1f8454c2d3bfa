package trade

import (
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Upgrade records an incoming player taking a starting spot.
type Upgrade struct {
	PlayerID   string          `json:"player_id"`
	Name       string          `json:"name"`
	Position   models.Position `json:"position"`
	ReplacesID string          `json:"replaces_id,omitempty"`
	Gain       float64         `json:"gain"`
}

// Impact is one side's view of a trade.
type Impact struct {
	ValueGiven         float64   `json:"value_given"`
	ValueReceived      float64   `json:"value_received"`
	NetValue           float64   `json:"net_value"`
	LineupImprovement  float64   `json:"lineup_improvement"` // Starter gains minus the departing starter penalty
	Upgrades           []Upgrade `json:"upgrades"`
	PowerScoreChange   float64   `json:"power_score_change"`
	WouldImproveLineup bool      `json:"would_improve_lineup"`
}

type starterSlot struct {
	id    string
	value float64
}

// EstimateImpact applies entering players, highest value first, against a
// working copy of the team's starters. Each one that beats the weakest starter
// at its position replaces it; empty starter slots count as 0. Departing
// starters are charged a fraction of their value.
func EstimateImpact(needs NeedAnalysis, leaving, entering []models.Player, maxLineup float64, leagueType models.LeagueType, r rules.Rules) Impact {
	var imp Impact
	for _, p := range leaving {
		imp.ValueGiven += p.Value
	}
	for _, p := range entering {
		imp.ValueReceived += p.Value
	}
	imp.NetValue = imp.ValueReceived - imp.ValueGiven

	working := make(map[models.Position][]starterSlot)
	for pos, pn := range needs.Positions {
		slots := make([]starterSlot, pn.Required)
		for i, p := range pn.Starters {
			if i < len(slots) {
				slots[i] = starterSlot{id: p.ID, value: p.Value}
			}
		}
		working[pos] = slots
	}

	incoming := append([]models.Player(nil), entering...)
	sortByValue(incoming)
	var gained float64
	imp.Upgrades = []Upgrade{}
	for _, p := range incoming {
		slots := working[p.Position]
		if len(slots) == 0 {
			continue
		}
		worst := 0
		for i := range slots {
			if slots[i].value < slots[worst].value {
				worst = i
			}
		}
		if p.Value <= slots[worst].value {
			continue
		}
		gain := p.Value - slots[worst].value
		gained += gain
		imp.Upgrades = append(imp.Upgrades, Upgrade{
			PlayerID:   p.ID,
			Name:       p.Name,
			Position:   p.Position,
			ReplacesID: slots[worst].id,
			Gain:       gain,
		})
		slots[worst] = starterSlot{id: p.ID, value: p.Value}
	}

	var penalty float64
	startersGiven := false
	for _, p := range leaving {
		if needs.IsStarter(p.ID) {
			penalty += r.StarterPenalty * p.Value
			startersGiven = true
		}
	}

	net := gained - penalty
	imp.LineupImprovement = net
	if maxLineup > 0 {
		imp.PowerScoreChange = net / maxLineup * 100 * r.Weights(leagueType).Lineup
	}
	imp.WouldImproveLineup = net > 0 || (!startersGiven && net == 0 && imp.ValueReceived > imp.ValueGiven)
	return imp
}
