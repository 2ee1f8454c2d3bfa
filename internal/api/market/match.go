package market

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/powerbot/internal/models"
)

const similarityThreshold = 0.8

// Matched is a feed keyed by the platform's player IDs.
type Matched struct {
	Market      map[string]models.MarketValue
	Projections map[string]float64
	Unmatched   int
}

// Match keys every feed entry by player ID. Entries without a known ID are
// matched to the directory by exact normalized name, then by fuzzy name
// within the same position. Entries that still match nobody stay in the
// market under a synthetic key so they keep counting toward scarcity.
func Match(feed *Feed, directory map[string]models.Player) Matched {
	m := Matched{
		Market:      make(map[string]models.MarketValue),
		Projections: make(map[string]float64),
	}
	if feed == nil {
		return m
	}

	ids := make([]string, 0, len(directory))
	for id := range directory {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byName := make(map[string][]string)
	for _, id := range ids {
		key := Normalize(directory[id].Name)
		byName[key] = append(byName[key], id)
	}
	used := make(map[string]bool)

	// Entries carrying a known player ID claim their player before any name
	// matching runs.
	entries := make([]Entry, 0, len(feed.Players))
	var byNameOnly []Entry
	for _, e := range feed.Players {
		if _, ok := directory[e.PlayerID]; e.PlayerID != "" && ok {
			entries = append(entries, e)
			used[e.PlayerID] = true
		} else {
			byNameOnly = append(byNameOnly, e)
		}
	}
	entries = append(entries, byNameOnly...)

	for _, e := range entries {
		pos, _ := models.ParsePosition(e.Position)

		id := e.PlayerID
		if _, ok := directory[id]; id == "" || !ok {
			if found := matchName(e.Name, pos, byName, directory, ids, used); found != "" {
				id = found
			}
		}
		if _, ok := directory[id]; !ok {
			m.Unmatched++
			if id == "" {
				id = "market:" + Normalize(e.Name)
			}
		}
		if _, dup := m.Market[id]; dup {
			continue
		}
		used[id] = true

		if p, ok := directory[id]; ok && pos == "" {
			pos = p.Position
		}
		m.Market[id] = models.MarketValue{
			PlayerID:     id,
			Name:         e.Name,
			Position:     pos,
			Value:        e.Value,
			PositionRank: e.PositionRank,
			Age:          e.Age,
		}
		if e.Projection > 0 {
			m.Projections[id] = e.Projection
		}
	}
	return m
}

func matchName(name string, pos models.Position, byName map[string][]string, directory map[string]models.Player, ids []string, used map[string]bool) string {
	key := Normalize(name)
	if key == "" {
		return ""
	}
	for _, id := range byName[key] {
		if !used[id] && (pos == "" || directory[id].Position == pos) {
			return id
		}
	}

	best, bestScore := "", similarityThreshold
	for _, id := range ids {
		p := directory[id]
		if used[id] || (pos != "" && p.Position != pos) {
			continue
		}
		if score := Similarity(key, Normalize(p.Name)); score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

// Similarity is 1 minus the Levenshtein distance relative to the longer name.
func Similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(maxLen)
}

// Normalize lowercases a name and drops punctuation and generational suffixes.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	if n := len(fields); n > 1 {
		switch fields[n-1] {
		case "jr", "sr", "ii", "iii", "iv", "v":
			fields = fields[:n-1]
		}
	}
	return strings.Join(fields, " ")
}
