package service

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/powerbot/internal/analysis"
	"github.com/omarshaarawi/powerbot/internal/models"
)

// findTeam resolves a user-typed team name against the report's rosters by
// ID or abbreviation, then substring, then Levenshtein similarity.
func findTeam(report *analysis.Report, query string) (models.Roster, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return models.Roster{}, false
	}

	for _, r := range report.Rosters {
		if q == r.TeamID || q == strings.ToLower(r.Abbreviation) || q == strings.ToLower(r.Name) {
			return r, true
		}
	}
	for _, r := range report.Rosters {
		if fuzzy.MatchNormalizedFold(q, r.Name) {
			return r, true
		}
	}

	var bestMatch *models.Roster
	bestScore := 0.0
	threshold := 0.6

	for i, r := range report.Rosters {
		if similarity := similarity(q, strings.ToLower(r.Name)); similarity > threshold && similarity > bestScore {
			bestScore = similarity
			bestMatch = &report.Rosters[i]
		}
	}
	if bestMatch == nil {
		return models.Roster{}, false
	}
	return *bestMatch, true
}

// findPlayer resolves a player name against the value table.
func findPlayer(report *analysis.Report, query string) (models.Player, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return models.Player{}, false
	}

	var bestMatch *models.Player
	bestScore := 0.0
	threshold := 0.7

	for i, p := range report.Values {
		name := strings.ToLower(p.Name)
		if name == "" {
			continue
		}
		if name == q {
			return p, true
		}
		if similarity := similarity(q, name); similarity > threshold && similarity > bestScore {
			bestScore = similarity
			bestMatch = &report.Values[i]
		}
	}
	if bestMatch != nil {
		return *bestMatch, true
	}

	// Values are ordered by value, so a partial name picks the most valuable match.
	for _, p := range report.Values {
		if p.Name != "" && fuzzy.MatchNormalizedFold(q, p.Name) {
			return p, true
		}
	}
	return models.Player{}, false
}

func similarity(a, b string) float64 {
	distance := fuzzy.LevenshteinDistance(a, b)
	maxLen := float64(max(len(a), len(b)))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(distance)/maxLen
}

func ownerOf(report *analysis.Report, playerID string) (models.Roster, bool) {
	for _, r := range report.Rosters {
		for _, id := range r.PlayerIDs {
			if id == playerID {
				return r, true
			}
		}
	}
	return models.Roster{}, false
}
