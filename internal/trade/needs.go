package trade

import (
	"sort"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

type Status string

const (
	StatusNeed    Status = "need"
	StatusSurplus Status = "surplus"
	StatusNeutral Status = "neutral"
)

type PositionNeed struct {
	Position   models.Position `json:"position"`
	Required   int             `json:"required"`
	Count      int             `json:"count"`
	AvgStarter float64         `json:"avg_starter"`
	LeagueAvg  float64         `json:"league_avg"`
	Score      float64         `json:"score"`
	Status     Status          `json:"status"`

	Starters []models.Player `json:"-"`
	Bench    []models.Player `json:"-"`
}

// NeedAnalysis classifies every position of one roster.
type NeedAnalysis struct {
	TeamID    string                           `json:"team_id"`
	Positions map[models.Position]PositionNeed `json:"positions"`
}

func (n NeedAnalysis) IsNeed(p models.Position) bool {
	return n.Positions[p].Status == StatusNeed
}

func (n NeedAnalysis) IsSurplus(p models.Position) bool {
	return n.Positions[p].Status == StatusSurplus
}

func (n NeedAnalysis) IsStarter(playerID string) bool {
	for _, pn := range n.Positions {
		for _, p := range pn.Starters {
			if p.ID == playerID {
				return true
			}
		}
	}
	return false
}

// Tradeable returns bench players worth at least minValue, highest value first.
func (n NeedAnalysis) Tradeable(minValue float64) []models.Player {
	var out []models.Player
	for _, pos := range models.Positions {
		for _, p := range n.Positions[pos].Bench {
			if p.Value >= minValue {
				out = append(out, p)
			}
		}
	}
	sortByValue(out)
	return out
}

// Needs lists the positions classified as need, in display order.
func (n NeedAnalysis) Needs() []models.Position {
	return n.with(StatusNeed)
}

func (n NeedAnalysis) Surpluses() []models.Position {
	return n.with(StatusSurplus)
}

func (n NeedAnalysis) with(s Status) []models.Position {
	var out []models.Position
	for _, pos := range models.Positions {
		if n.Positions[pos].Status == s {
			out = append(out, pos)
		}
	}
	return out
}

// LeagueAverages is the mean value of all rostered players per position.
func LeagueAverages(rosters [][]models.Player) map[models.Position]float64 {
	sums := make(map[models.Position]float64)
	counts := make(map[models.Position]int)
	for _, players := range rosters {
		for _, p := range players {
			sums[p.Position] += p.Value
			counts[p.Position]++
		}
	}
	out := make(map[models.Position]float64, len(sums))
	for pos, sum := range sums {
		out[pos] = sum / float64(counts[pos])
	}
	return out
}

// AnalyzeNeeds splits each position into its top-N starters and the bench and
// scores the position against the league.
func AnalyzeNeeds(teamID string, players []models.Player, league *models.LeagueSettings, leagueAvg map[models.Position]float64, r rules.Rules) NeedAnalysis {
	byPos := make(map[models.Position][]models.Player)
	for _, p := range players {
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	na := NeedAnalysis{TeamID: teamID, Positions: make(map[models.Position]PositionNeed, len(models.Positions))}
	for _, pos := range models.Positions {
		group := byPos[pos]
		sortByValue(group)

		n := league.Required(pos)
		pn := PositionNeed{
			Position:  pos,
			Required:  n,
			Count:     len(group),
			LeagueAvg: leagueAvg[pos],
			Status:    StatusNeutral,
		}
		split := min(n, len(group))
		pn.Starters, pn.Bench = group[:split], group[split:]

		if len(pn.Starters) > 0 {
			var sum float64
			for _, p := range pn.Starters {
				sum += p.Value
			}
			pn.AvgStarter = sum / float64(len(pn.Starters))
		}

		if n > 0 {
			var strength float64
			if ref := pn.LeagueAvg * r.LeagueAvgMultiplier; ref > 0 {
				strength = pn.AvgStarter/ref - 1
			}
			depth := float64(pn.Count-n) / float64(n)
			pn.Score = strength*r.StrengthWeight + depth*r.DepthWeight
			switch {
			case pn.Score < r.NeedThreshold:
				pn.Status = StatusNeed
			case pn.Score > r.SurplusThreshold:
				pn.Status = StatusSurplus
			}
		}
		na.Positions[pos] = pn
	}
	return na
}

// sortByValue orders players by descending value, ties by ID.
func sortByValue(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Value != players[j].Value {
			return players[i].Value > players[j].Value
		}
		return players[i].ID < players[j].ID
	})
}
