// Package trade searches every team pair for exchanges that are fair and
// improve both rosters.
//
// The search is a bounded heuristic: candidates come from four generators over
// each side's tradeable bench, pass a value fairness filter, and are scored by
// their estimated effect on both lineups. Each pair keeps at most
// Rules.MaxCandidatesPerPair results.
package trade

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Team is one roster with its players in roster order.
type Team struct {
	Roster  models.Roster
	Players []models.Player
}

type Result struct {
	Needs      []NeedAnalysis `json:"needs"`
	Candidates []Candidate    `json:"candidates"`
	Pairs      int            `json:"pairs"`
	Generated  int            `json:"generated"`
}

type Engine struct {
	league    *models.LeagueSettings
	maxLineup float64
	rules     rules.Rules
}

// NewEngine returns an engine for one league. maxLineup is the best lineup
// total in the league and scales power score deltas.
func NewEngine(league *models.LeagueSettings, maxLineup float64, r rules.Rules) *Engine {
	return &Engine{league: league, maxLineup: maxLineup, rules: r}
}

// Needs analyzes every team against the league-wide position averages.
func (e *Engine) Needs(teams []Team) []NeedAnalysis {
	rosters := make([][]models.Player, len(teams))
	for i, t := range teams {
		rosters[i] = t.Players
	}
	avg := LeagueAverages(rosters)

	out := make([]NeedAnalysis, len(teams))
	for i, t := range teams {
		out[i] = AnalyzeNeeds(t.Roster.TeamID, t.Players, e.league, avg, e.rules)
	}
	return out
}

// Recommend searches all unordered team pairs. Pairs are independent and run
// on up to Rules.Workers goroutines; the merged list is sorted once.
func (e *Engine) Recommend(teams []Team) Result {
	needs := e.Needs(teams)
	pools := make([][]models.Player, len(needs))
	for i, na := range needs {
		pools[i] = na.Tradeable(e.rules.MinTradeValue)
	}

	type pair struct{ a, b int }
	var pairs []pair
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	perPair := make([][]Candidate, len(pairs))
	generated := make([]int, len(pairs))

	var g errgroup.Group
	g.SetLimit(max(1, e.rules.Workers))
	for idx, p := range pairs {
		idx, p := idx, p
		g.Go(func() error {
			perPair[idx], generated[idx] = e.searchPair(needs[p.a], needs[p.b], pools[p.a], pools[p.b])
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Needs: needs, Pairs: len(pairs), Candidates: []Candidate{}}
	for i := range perPair {
		res.Candidates = append(res.Candidates, perPair[i]...)
		res.Generated += generated[i]
	}
	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return less(res.Candidates[i], res.Candidates[j])
	})
	if e.rules.MaxTrades > 0 && len(res.Candidates) > e.rules.MaxTrades {
		res.Candidates = res.Candidates[:e.rules.MaxTrades]
	}
	return res
}

// searchPair runs generation, fairness, scoring and ranking for one pair. It
// returns the retained candidates and the number of proposals generated.
func (e *Engine) searchPair(na, nb NeedAnalysis, poolA, poolB []models.Player) ([]Candidate, int) {
	proposals := generate(na, nb, poolA, poolB, e.rules)

	var out []Candidate
	for _, p := range proposals {
		givenA, givenB := total(p.aGives), total(p.bGives)
		if !IsFair(givenA, givenB, p.kind.Tolerance(e.rules)) {
			continue
		}
		out = append(out, e.score(na, nb, p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	if limit := e.rules.MaxCandidatesPerPair; limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, len(proposals)
}

func (e *Engine) score(na, nb NeedAnalysis, p proposal) Candidate {
	lt := models.Redraft
	if e.league != nil {
		lt = e.league.LeagueType
	}
	ia := EstimateImpact(na, p.aGives, p.bGives, e.maxLineup, lt, e.rules)
	ib := EstimateImpact(nb, p.bGives, p.aGives, e.maxLineup, lt, e.rules)

	b := e.rules.Bonus
	s := b.PowerDelta*(ia.PowerScoreChange+ib.PowerScoreChange) + fit(na, nb, p, b) + b.Fair

	bothImprove := ia.WouldImproveLineup && ib.WouldImproveLineup
	bothUpgrade := len(ia.Upgrades) > 0 && len(ib.Upgrades) > 0
	if bothImprove {
		s += b.BothImprove
	}
	if bothUpgrade {
		s += b.BothUpgrade
	}
	for _, imp := range []Impact{ia, ib} {
		if imp.WouldImproveLineup {
			s += b.TeamImprove
		}
	}
	s += b.PerUpgrade * float64(len(ia.Upgrades)+len(ib.Upgrades))

	return Candidate{
		Kind:          p.kind,
		TeamA:         na.TeamID,
		TeamB:         nb.TeamID,
		AGives:        p.aGives,
		BGives:        p.bGives,
		ImpactA:       ia,
		ImpactB:       ib,
		Fair:          true,
		MutualBenefit: bothImprove,
		BothUpgrade:   bothUpgrade,
		Score:         s,
		Key:           p.key(),
	}
}

// fit awards assets leaving a surplus position and assets arriving at a need
// position, on both sides.
func fit(na, nb NeedAnalysis, p proposal, b rules.TradeBonuses) float64 {
	var s float64
	for _, pl := range p.aGives {
		if na.IsSurplus(pl.Position) {
			s += b.SurplusGiven
		}
		if nb.IsNeed(pl.Position) {
			s += b.NeedReceived
		}
	}
	for _, pl := range p.bGives {
		if nb.IsSurplus(pl.Position) {
			s += b.SurplusGiven
		}
		if na.IsNeed(pl.Position) {
			s += b.NeedReceived
		}
	}
	return s
}
