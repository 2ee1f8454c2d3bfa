// Package lineup assigns a roster's players to starting slots.
//
// Slots are filled greedily by slot class in a fixed order: dedicated
// positions, then FLEX (RB/WR/TE), then SUPER_FLEX (QB/RB/WR/TE). Within each
// class the highest-valued unused eligible player is taken first. This is not a
// global assignment solver; the order is part of the ranking's definition.
package lineup

import (
	"sort"

	"github.com/omarshaarawi/powerbot/internal/models"
)

type Assignment struct {
	Slot     models.Slot     `json:"slot"`
	PlayerID string          `json:"player_id"`
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Value    float64         `json:"value"`
}

type Lineup struct {
	TeamID   string       `json:"team_id"`
	Starters []Assignment `json:"starters"`
	Total    float64      `json:"total"`
}

// Optimize builds the lineup for players given in roster order. Ties in value
// keep roster order. Slots that cannot be filled stay empty.
func Optimize(teamID string, players []models.Player, league *models.LeagueSettings) Lineup {
	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return value(sorted[i]) > value(sorted[j])
	})

	l := Lineup{TeamID: teamID}
	if league == nil {
		return l
	}
	used := make(map[string]bool, len(sorted))

	fill := func(slot models.Slot, capacity int, eligible func(models.Position) bool) {
		for _, p := range sorted {
			if capacity <= 0 {
				return
			}
			if used[p.ID] || !eligible(p.Position) {
				continue
			}
			used[p.ID] = true
			capacity--
			l.Starters = append(l.Starters, Assignment{
				Slot:     slot,
				PlayerID: p.ID,
				Name:     p.Name,
				Position: p.Position,
				Value:    value(p),
			})
			l.Total += value(p)
		}
	}

	for _, pos := range models.Positions {
		fill(models.PositionSlot(pos), league.Required(pos), func(p models.Position) bool { return p == pos })
	}
	fill(models.SlotFlex, league.Flex, models.Position.FlexEligible)
	fill(models.SlotSuperFlex, league.SuperFlex, models.Position.SuperFlexEligible)

	return l
}

func (l Lineup) IsStarter(playerID string) bool {
	for _, a := range l.Starters {
		if a.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Slot returns the assignments for one slot class, highest value first.
func (l Lineup) Slot(s models.Slot) []Assignment {
	var out []Assignment
	for _, a := range l.Starters {
		if a.Slot == s {
			out = append(out, a)
		}
	}
	return out
}

// Bench returns the players not in the lineup, in their original order.
func Bench(players []models.Player, l Lineup) []models.Player {
	var out []models.Player
	for _, p := range players {
		if !l.IsStarter(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Slots lists the slot classes configured for a league in fill order.
func Slots(league *models.LeagueSettings) []models.Slot {
	var out []models.Slot
	if league == nil {
		return out
	}
	for _, pos := range models.Positions {
		if league.Required(pos) > 0 {
			out = append(out, models.PositionSlot(pos))
		}
	}
	if league.Flex > 0 {
		out = append(out, models.SlotFlex)
	}
	if league.SuperFlex > 0 {
		out = append(out, models.SlotSuperFlex)
	}
	return out
}

func value(p models.Player) float64 {
	if p.Value < 0 {
		return 0
	}
	return p.Value
}
