// Package scarcity derives per-position multipliers from market values using
// value over replacement (VOR), normalized so that WR = 100.
package scarcity

import (
	"math"
	"sort"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

type Map map[models.Position]float64

type Method string

const (
	MethodVOR      Method = "vor"
	MethodFallback Method = "fallback"
	MethodMixed    Method = "mixed"
)

type PositionDetail struct {
	Position       models.Position `json:"position"`
	Available      int             `json:"available"`
	StartersNeeded float64         `json:"starters_needed"`
	Elite          float64         `json:"elite_value"`
	Replacement    float64         `json:"replacement_value"`
	VOR            float64         `json:"vor"`
	Multiplier     float64         `json:"multiplier"`
	Source         Method          `json:"source"`
}

// Result is the scarcity map together with how each entry was derived.
type Result struct {
	Map       Map              `json:"map"`
	Method    Method           `json:"method"`
	Superflex bool             `json:"superflex"`
	Positions []PositionDetail `json:"positions"`
}

// Compute builds the scarcity map for a league. It never fails: positions the
// market cannot support fall back to the static table for that position, and a
// missing or zero WR baseline falls back for every position.
func Compute(market map[string]models.MarketValue, league *models.LeagueSettings, r rules.Rules) Result {
	superflex := league.IsSuperflex()
	ranked := rankByPosition(market)

	details := make([]PositionDetail, 0, len(models.Positions))
	for _, pos := range models.Positions {
		d := PositionDetail{
			Position:       pos,
			Available:      len(ranked[pos]),
			StartersNeeded: StartersNeeded(pos, league, r),
		}
		if d.Available > 0 {
			idx := int(math.Floor(d.StartersNeeded))
			if idx > d.Available-1 {
				idx = d.Available - 1
			}
			d.Elite = ranked[pos][0].Value
			d.Replacement = ranked[pos][idx].Value
			d.VOR = math.Max(0, d.Elite-d.Replacement)
		}
		details = append(details, d)
	}

	var wrVOR float64
	wrOK := false
	for _, d := range details {
		if d.Position == models.WR && d.Available > 0 {
			wrVOR, wrOK = d.VOR, d.VOR > 0
		}
	}

	res := Result{Map: make(Map, len(details)), Superflex: superflex}
	vorCount := 0
	for i := range details {
		d := &details[i]
		switch {
		case !wrOK || d.Available == 0:
			d.Multiplier = r.FallbackScarcity(superflex, d.Position)
			d.Source = MethodFallback
		case d.Position == models.WR:
			d.Multiplier = 100
			d.Source = MethodVOR
			vorCount++
		default:
			d.Multiplier = clamp(d.VOR/wrVOR*100, r.ScarcityMin, r.ScarcityMax)
			d.Source = MethodVOR
			vorCount++
		}
		res.Map[d.Position] = d.Multiplier
	}
	res.Positions = details

	switch vorCount {
	case 0:
		res.Method = MethodFallback
	case len(details):
		res.Method = MethodVOR
	default:
		res.Method = MethodMixed
	}
	return res
}

// StartersNeeded estimates how many players at a position start league-wide,
// crediting a share of FLEX and SUPER_FLEX slots to the eligible positions.
func StartersNeeded(pos models.Position, league *models.LeagueSettings, r rules.Rules) float64 {
	if league == nil {
		return 0
	}
	teams := float64(league.TeamCount)
	n := float64(league.Required(pos)) * teams
	if pos.FlexEligible() {
		n += r.FlexShare * float64(league.Flex) * teams
	}
	if league.SuperFlex > 0 {
		pool := float64(league.SuperFlex) * teams
		switch {
		case pos == models.QB:
			n += r.SuperFlexQBShare * pool
		case pos.FlexEligible():
			n += r.SuperFlexOtherShare * pool
		}
	}
	return n
}

// Fallback returns the static scarcity table for the league.
func Fallback(league *models.LeagueSettings, r rules.Rules) Map {
	m := make(Map, len(models.Positions))
	for _, pos := range models.Positions {
		m[pos] = r.FallbackScarcity(league.IsSuperflex(), pos)
	}
	return m
}

func rankByPosition(market map[string]models.MarketValue) map[models.Position][]models.MarketValue {
	ranked := make(map[models.Position][]models.MarketValue)
	for _, mv := range market {
		if mv.Value <= 0 {
			continue
		}
		ranked[mv.Position] = append(ranked[mv.Position], mv)
	}
	for pos := range ranked {
		list := ranked[pos]
		sort.Slice(list, func(i, j int) bool {
			ri, rj := list[i].PositionRank, list[j].PositionRank
			switch {
			case ri > 0 && rj > 0 && ri != rj:
				return ri < rj
			case ri > 0 && rj <= 0:
				return true
			case ri <= 0 && rj > 0:
				return false
			}
			if list[i].Value != list[j].Value {
				return list[i].Value > list[j].Value
			}
			return list[i].PlayerID < list[j].PlayerID
		})
	}
	return ranked
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
