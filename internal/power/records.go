package power

import (
	"sort"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Record is a team's actual and all-play record over completed matchups.
type Record struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	AllPlayWins   int     `json:"all_play_wins"`
	AllPlayLosses int     `json:"all_play_losses"`
	AllPlayTies   int     `json:"all_play_ties"`
}

// WinPct counts ties as half a win. No games played gives 0.
func (r Record) WinPct() float64 {
	return pct(r.Wins, r.Losses, r.Ties)
}

func (r Record) AllPlayPct() float64 {
	return pct(r.AllPlayWins, r.AllPlayLosses, r.AllPlayTies)
}

func pct(w, l, t int) float64 {
	games := w + l + t
	if games == 0 {
		return 0
	}
	return (float64(w) + 0.5*float64(t)) / float64(games)
}

// ComputeRecords builds records for teamIDs from completed matchups. The
// all-play record compares each team's weekly score with every other team
// that played that week.
func ComputeRecords(teamIDs []string, results []models.MatchupResult) map[string]Record {
	records := make(map[string]Record, len(teamIDs))
	for _, id := range teamIDs {
		records[id] = Record{}
	}

	weekly := make(map[int]map[string]float64)
	for _, m := range results {
		if m.HomeTeamID == "" || m.AwayTeamID == "" {
			continue
		}
		home, away := records[m.HomeTeamID], records[m.AwayTeamID]
		home.PointsFor += m.HomeScore
		home.PointsAgainst += m.AwayScore
		away.PointsFor += m.AwayScore
		away.PointsAgainst += m.HomeScore
		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			away.Losses++
		case m.HomeScore < m.AwayScore:
			home.Losses++
			away.Wins++
		default:
			home.Ties++
			away.Ties++
		}
		records[m.HomeTeamID], records[m.AwayTeamID] = home, away

		if weekly[m.Week] == nil {
			weekly[m.Week] = make(map[string]float64)
		}
		weekly[m.Week][m.HomeTeamID] = m.HomeScore
		weekly[m.Week][m.AwayTeamID] = m.AwayScore
	}

	weeks := make([]int, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	for _, w := range weeks {
		scores := weekly[w]
		for id, score := range scores {
			rec := records[id]
			for other, otherScore := range scores {
				if other == id {
					continue
				}
				switch {
				case score > otherScore:
					rec.AllPlayWins++
				case score < otherScore:
					rec.AllPlayLosses++
				default:
					rec.AllPlayTies++
				}
			}
			records[id] = rec
		}
	}
	return records
}

// Performance maps a record onto 0-100 using the all-play and actual win
// percentages.
func Performance(rec Record, r rules.Rules) float64 {
	return clamp(rec.AllPlayPct()*r.AllPlayWeight + rec.WinPct()*r.WinWeight)
}
