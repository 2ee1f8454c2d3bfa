// Package power computes the composite power score of every team in a league.
package power

import (
	"sort"

	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Components are the four 0-100 signals combined into the power score.
type Components struct {
	Lineup      float64 `json:"lineup"`
	Performance float64 `json:"performance"`
	Positional  float64 `json:"positional"`
	Depth       float64 `json:"depth"`
}

// TeamInput is everything the aggregator needs about one team. Players are in
// roster order.
type TeamInput struct {
	Roster  models.Roster
	Players []models.Player
	Lineup  lineup.Lineup
	Record  Record
}

type Score struct {
	TeamID     string        `json:"team_id"`
	Name       string        `json:"name"`
	ManagerID  string        `json:"manager_id,omitempty"`
	Rank       int           `json:"rank"`
	Score      float64       `json:"score"`
	Components Components    `json:"components"`
	Lineup     lineup.Lineup `json:"lineup"`
	Record     Record        `json:"record"`
}

// Rank scores every team and orders them by descending score. Ties keep the
// input order.
func Rank(teams []TeamInput, leagueType models.LeagueType, r rules.Rules) []Score {
	lineups := make([]lineup.Lineup, len(teams))
	for i, t := range teams {
		lineups[i] = t.Lineup
	}
	maxTotal := MaxLineupTotal(lineups)
	positional := PositionalAdvantage(lineups, r)
	w := r.Weights(leagueType)

	scores := make([]Score, len(teams))
	for i, t := range teams {
		c := Components{
			Lineup:      LineupScore(t.Lineup.Total, maxTotal),
			Performance: Performance(t.Record, r),
			Positional:  positional[i],
			Depth:       Depth(t.Players, t.Lineup, r),
		}
		scores[i] = Score{
			TeamID:     t.Roster.TeamID,
			Name:       t.Roster.Name,
			ManagerID:  t.Roster.ManagerID,
			Score:      clamp(c.Lineup*w.Lineup + c.Performance*w.Performance + c.Positional*w.Positional + c.Depth*w.Depth),
			Components: c,
			Lineup:     t.Lineup,
			Record:     t.Record,
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

// LineupScore is the lineup total as a percentage of the league's best.
func LineupScore(total, maxTotal float64) float64 {
	if maxTotal <= 0 {
		return 0
	}
	return clamp(total / maxTotal * 100)
}

func MaxLineupTotal(lineups []lineup.Lineup) float64 {
	var best float64
	for _, l := range lineups {
		if l.Total > best {
			best = l.Total
		}
	}
	return best
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
