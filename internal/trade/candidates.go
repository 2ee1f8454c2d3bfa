package trade

import (
	"sort"
	"strings"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Kind classifies how a candidate was generated.
type Kind string

const (
	KindComplementary   Kind = "complementary"
	KindNeedFulfillment Kind = "need_fulfillment"
	KindValueSwap       Kind = "value_swap"
	KindConsolidation   Kind = "consolidation"
)

func (k Kind) Tolerance(r rules.Rules) float64 {
	switch k {
	case KindConsolidation:
		return r.Tolerance.Consolidation
	case KindValueSwap:
		return r.Tolerance.ValueSwap
	}
	return r.Tolerance.Default
}

type Candidate struct {
	Kind          Kind            `json:"kind"`
	TeamA         string          `json:"team_a"`
	TeamB         string          `json:"team_b"`
	AGives        []models.Player `json:"a_gives"`
	BGives        []models.Player `json:"b_gives"`
	ImpactA       Impact          `json:"impact_a"`
	ImpactB       Impact          `json:"impact_b"`
	Fair          bool            `json:"fair"`
	MutualBenefit bool            `json:"mutual_benefit"`
	BothUpgrade   bool            `json:"both_upgrade"`
	Score         float64         `json:"score"`
	Key           string          `json:"key"`
}

// Involves reports whether teamID is either side of the trade.
func (c Candidate) Involves(teamID string) bool {
	return c.TeamA == teamID || c.TeamB == teamID
}

// proposal is an unscored exchange between two bench pools.
type proposal struct {
	kind   Kind
	aGives []models.Player
	bGives []models.Player
}

func (p proposal) key() string {
	return sideKey(p.aGives) + "|" + sideKey(p.bGives)
}

func sideKey(players []models.Player) string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func total(players []models.Player) float64 {
	var v float64
	for _, p := range players {
		v += p.Value
	}
	return v
}

// generate lists every proposal between two teams in generator order. The
// first generator to produce a given exchange keeps it.
func generate(na, nb NeedAnalysis, poolA, poolB []models.Player, r rules.Rules) []proposal {
	var out []proposal
	seen := make(map[string]bool)
	add := func(p proposal) {
		k := p.key()
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, p)
	}

	for _, p := range complementary(na, nb, poolA, poolB) {
		add(p)
	}
	for _, p := range needFulfillment(na, nb, poolA, poolB) {
		add(p)
	}
	for _, p := range needFulfillment(nb, na, poolB, poolA) {
		add(p.swap())
	}
	for _, p := range valueSwaps(poolA, poolB) {
		add(p)
	}
	for _, p := range consolidations(poolA, poolB, r) {
		add(p)
	}
	for _, p := range consolidations(poolB, poolA, r) {
		add(p.swap())
	}
	return out
}

func (p proposal) swap() proposal {
	return proposal{kind: p.kind, aGives: p.bGives, bGives: p.aGives}
}

// complementary pairs A's surplus at X into B's need at X with B's surplus at
// Y into A's need at Y.
func complementary(na, nb NeedAnalysis, poolA, poolB []models.Player) []proposal {
	var out []proposal
	for _, x := range na.Surpluses() {
		if !nb.IsNeed(x) {
			continue
		}
		for _, y := range nb.Surpluses() {
			if y == x || !na.IsNeed(y) {
				continue
			}
			for _, a := range atPosition(poolA, x) {
				for _, b := range atPosition(poolB, y) {
					out = append(out, proposal{kind: KindComplementary, aGives: one(a), bGives: one(b)})
				}
			}
		}
	}
	return out
}

// needFulfillment fills a need of the first team from the second team's bench
// at that position, paid for with any bench player at another position.
func needFulfillment(needy, other NeedAnalysis, needyPool, otherPool []models.Player) []proposal {
	var out []proposal
	for _, pos := range needy.Needs() {
		if other.IsNeed(pos) {
			continue
		}
		for _, b := range atPosition(otherPool, pos) {
			for _, a := range needyPool {
				if a.Position == pos {
					continue
				}
				out = append(out, proposal{kind: KindNeedFulfillment, aGives: one(a), bGives: one(b)})
			}
		}
	}
	return out
}

func valueSwaps(poolA, poolB []models.Player) []proposal {
	var out []proposal
	for _, a := range poolA {
		for _, b := range poolB {
			if a.Position == b.Position {
				continue
			}
			out = append(out, proposal{kind: KindValueSwap, aGives: one(a), bGives: one(b)})
		}
	}
	return out
}

// consolidations offers each star from starPool for every unordered pair of
// mid-value players from pairPool.
func consolidations(starPool, pairPool []models.Player, r rules.Rules) []proposal {
	var out []proposal
	for _, star := range starPool {
		if star.Value < r.ConsolidationMinValue {
			continue
		}
		lo, hi := star.Value*r.ConsolidationMidMin, star.Value*r.ConsolidationMidMax
		var mids []models.Player
		for _, p := range pairPool {
			if p.Value >= lo && p.Value <= hi {
				mids = append(mids, p)
			}
		}
		for i := 0; i < len(mids); i++ {
			for j := i + 1; j < len(mids); j++ {
				out = append(out, proposal{
					kind:   KindConsolidation,
					aGives: one(star),
					bGives: []models.Player{mids[i], mids[j]},
				})
			}
		}
	}
	return out
}

func atPosition(pool []models.Player, pos models.Position) []models.Player {
	var out []models.Player
	for _, p := range pool {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

func one(p models.Player) []models.Player {
	return []models.Player{p}
}

// less orders candidates: both-upgrade first, then score, then key.
func less(a, b Candidate) bool {
	if a.BothUpgrade != b.BothUpgrade {
		return a.BothUpgrade
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Key < b.Key
}
