package trade

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

func twoByTwo() *models.LeagueSettings {
	return &models.LeagueSettings{
		TeamCount:  2,
		LeagueType: models.Redraft,
		Slots:      map[models.Position]int{models.RB: 2, models.WR: 2},
	}
}

func p(id string, pos models.Position, value float64) models.Player {
	return models.Player{ID: id, Name: id, Position: pos, Value: value}
}

func team(id string, players ...models.Player) Team {
	return Team{Roster: models.Roster{TeamID: id, Name: "Team " + id}, Players: players}
}

// Each side is strong at one position and thin at the other, with a 1000 bench
// player at its strong position.
func mirroredTeams() []Team {
	return []Team{
		team("A", p("a-rb1", models.RB, 5000), p("a-rb2", models.RB, 4000), p("a-rb3", models.RB, 1000),
			p("a-wr1", models.WR, 4500), p("a-wr2", models.WR, 3500)),
		team("B", p("b-wr1", models.WR, 5000), p("b-wr2", models.WR, 4000), p("b-wr3", models.WR, 1000),
			p("b-rb1", models.RB, 4500), p("b-rb2", models.RB, 3500)),
	}
}

func TestIsFair_Symmetric(t *testing.T) {
	tests := []struct {
		a, b, tol float64
		want      bool
	}{
		{a: 1000, b: 1000, tol: 0.30, want: true},
		{a: 1000, b: 700, tol: 0.30, want: true},
		{a: 1000, b: 690, tol: 0.30, want: false},
		{a: 0, b: 0, tol: 0.25, want: true},
		{a: 100, b: 0, tol: 0.35, want: false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v-%v", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.want, IsFair(tc.a, tc.b, tc.tol))
			assert.Equal(t, tc.want, IsFair(tc.b, tc.a, tc.tol))
		})
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a, b, tol := rng.Float64()*10000, rng.Float64()*10000, rng.Float64()
		assert.Equal(t, IsFair(a, b, tol), IsFair(b, a, tol))
	}
}

func TestAnalyzeNeeds(t *testing.T) {
	teams := mirroredTeams()
	e := NewEngine(twoByTwo(), 17000, rules.Default())

	needs := e.Needs(teams)
	require.Len(t, needs, 2)
	a := needs[0]

	// League average is 3600 at both positions.
	assert.InDelta(t, 3600, a.Positions[models.RB].LeagueAvg, 1e-9)
	assert.InDelta(t, (4500.0/5400-1)*70+0.5*30, a.Positions[models.RB].Score, 1e-9)
	assert.Equal(t, StatusNeutral, a.Positions[models.RB].Status)
	assert.Equal(t, StatusNeed, a.Positions[models.WR].Status)
	assert.Equal(t, StatusNeutral, a.Positions[models.QB].Status)
	assert.True(t, a.IsStarter("a-rb2"))
	assert.False(t, a.IsStarter("a-rb3"))
	assert.Equal(t, []string{"a-rb3"}, ids(a.Tradeable(500)))
	assert.Empty(t, a.Tradeable(1500))
}

func TestAnalyzeNeeds_ZeroLeagueAverage(t *testing.T) {
	na := AnalyzeNeeds("A", []models.Player{p("rb", models.RB, 0), p("rb2", models.RB, 0), p("rb3", models.RB, 0)},
		twoByTwo(), map[models.Position]float64{}, rules.Default())

	rb := na.Positions[models.RB]
	assert.InDelta(t, 0.5*30, rb.Score, 1e-9)
	assert.Equal(t, StatusNeutral, rb.Status)
	// No WR at all: depth ratio -1.
	assert.Equal(t, StatusNeed, na.Positions[models.WR].Status)
}

func TestRecommend_BenchForBenchScoredOnFitOnly(t *testing.T) {
	e := NewEngine(twoByTwo(), 17000, rules.Default())

	res := e.Recommend(mirroredTeams())

	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, KindNeedFulfillment, c.Kind)
	assert.Equal(t, "a-rb3|b-wr3", c.Key)
	assert.True(t, c.Fair)
	assert.False(t, c.ImpactA.WouldImproveLineup)
	assert.False(t, c.ImpactB.WouldImproveLineup)
	assert.Zero(t, c.ImpactA.PowerScoreChange)
	assert.Empty(t, c.ImpactA.Upgrades)
	// Each side receives into a need: 15 + 15, plus the fairness bonus.
	assert.Equal(t, 30.0+20, c.Score)
	assert.Equal(t, 1, res.Pairs)
}

func TestEstimateImpact_Upgrade(t *testing.T) {
	r := rules.Default()
	teams := mirroredTeams()
	na := NewEngine(twoByTwo(), 17000, r).Needs(teams)[0]

	imp := EstimateImpact(na, []models.Player{p("a-rb3", models.RB, 1000)}, []models.Player{p("x-wr", models.WR, 4000)}, 17000, models.Dynasty, r)

	require.Len(t, imp.Upgrades, 1)
	assert.Equal(t, "a-wr2", imp.Upgrades[0].ReplacesID)
	assert.Equal(t, 500.0, imp.LineupImprovement)
	assert.InDelta(t, 500.0/17000*100*0.5, imp.PowerScoreChange, 1e-9)
	assert.True(t, imp.WouldImproveLineup)
	assert.Equal(t, 3000.0, imp.NetValue)
}

func TestEstimateImpact_StarterPenaltyAndEmptySlot(t *testing.T) {
	r := rules.Default()
	players := []models.Player{p("rb1", models.RB, 4000), p("wr1", models.WR, 3000)}
	na := AnalyzeNeeds("A", players, twoByTwo(), map[models.Position]float64{}, r)

	imp := EstimateImpact(na,
		[]models.Player{players[0]},
		[]models.Player{p("in-rb", models.RB, 1000), p("in-wr", models.WR, 800)},
		10000, models.Redraft, r)

	// Both arrivals fill empty starter slots; the departing starter costs half its value.
	assert.Len(t, imp.Upgrades, 2)
	assert.Equal(t, 1800.0-2000, imp.LineupImprovement)
	assert.False(t, imp.WouldImproveLineup)
	assert.Less(t, imp.PowerScoreChange, 0.0)

	zero := EstimateImpact(na, nil, []models.Player{p("in-rb", models.RB, 1000)}, 0, models.Redraft, r)
	assert.Zero(t, zero.PowerScoreChange)
}

// Receiving more value at the same positions without giving up a starter
// never hurts the lineup.
func TestEstimateImpact_SignProperty(t *testing.T) {
	r := rules.Default()
	rng := rand.New(rand.NewSource(5))
	positions := []models.Position{models.RB, models.WR}

	for trial := 0; trial < 300; trial++ {
		var roster []models.Player
		for i := 0; i < 3+rng.Intn(6); i++ {
			roster = append(roster, p(fmt.Sprintf("r%d", i), positions[rng.Intn(2)], float64(rng.Intn(8000))))
		}
		na := AnalyzeNeeds("A", roster, twoByTwo(), map[models.Position]float64{models.RB: 3000, models.WR: 3000}, r)

		var leaving, entering []models.Player
		for i, pl := range roster {
			if na.IsStarter(pl.ID) || rng.Intn(2) == 0 {
				continue
			}
			leaving = append(leaving, pl)
			entering = append(entering, p(fmt.Sprintf("in%d", i), pl.Position, pl.Value+1+float64(rng.Intn(3000))))
		}
		if len(leaving) == 0 {
			continue
		}

		imp := EstimateImpact(na, leaving, entering, 20000, models.Dynasty, r)
		assert.True(t, imp.WouldImproveLineup, "trial %d", trial)
		assert.GreaterOrEqual(t, imp.PowerScoreChange, 0.0, "trial %d", trial)
	}
}

func TestConsolidations(t *testing.T) {
	r := rules.Default()
	stars := []models.Player{p("star", models.WR, 6000), p("small", models.WR, 1900)}
	pool := []models.Player{p("m1", models.RB, 3000), p("m2", models.RB, 2800), p("lo", models.RB, 1000), p("hi", models.RB, 5500)}

	out := consolidations(stars, pool, r)

	require.Len(t, out, 1)
	assert.Equal(t, KindConsolidation, out[0].kind)
	assert.Equal(t, "star|m1,m2", out[0].key())
}

func TestRecommend_ConsolidationBothDirections(t *testing.T) {
	league := twoByTwo()
	teams := []Team{
		team("A", p("a-rb1", models.RB, 8000), p("a-rb2", models.RB, 7000), p("a-rb3", models.RB, 6000),
			p("a-wr1", models.WR, 7000), p("a-wr2", models.WR, 7000)),
		team("B", p("b-rb1", models.RB, 8000), p("b-rb2", models.RB, 7000),
			p("b-wr1", models.WR, 7000), p("b-wr2", models.WR, 7000), p("b-wr3", models.WR, 3100), p("b-wr4", models.WR, 2900)),
	}
	r := rules.Default().WithSearchBounds(1, 100, 100)

	res := NewEngine(league, 30000, r).Recommend(teams)

	var found bool
	for _, c := range res.Candidates {
		if c.Kind == KindConsolidation {
			found = true
			assert.Equal(t, "a-rb3|b-wr3,b-wr4", c.Key)
			assert.Len(t, c.BGives, 2)
		}
	}
	assert.True(t, found)
}

func TestRecommend_BoundsAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	positions := []models.Position{models.QB, models.RB, models.WR, models.TE}
	league := &models.LeagueSettings{
		TeamCount: 6,
		Slots:     map[models.Position]int{models.QB: 1, models.RB: 2, models.WR: 2, models.TE: 1},
		Flex:      1,
	}
	var teams []Team
	for i := 0; i < 6; i++ {
		var players []models.Player
		for j := 0; j < 14; j++ {
			players = append(players, p(fmt.Sprintf("%d-%d", i, j), positions[rng.Intn(4)], float64(rng.Intn(9000))))
		}
		teams = append(teams, team(fmt.Sprint(i), players...))
	}

	r := rules.Default().WithSearchBounds(1, 3, 20)
	serial := NewEngine(league, 40000, r).Recommend(teams)
	parallel := NewEngine(league, 40000, r.WithSearchBounds(8, 0, 0)).Recommend(teams)

	assert.Equal(t, serial.Candidates, parallel.Candidates)
	assert.Equal(t, 15, serial.Pairs)
	assert.LessOrEqual(t, len(serial.Candidates), 20)

	perPair := map[string]int{}
	keys := map[string]bool{}
	for i, c := range serial.Candidates {
		perPair[c.TeamA+"-"+c.TeamB]++
		assert.False(t, keys[c.Key], "duplicate %s", c.Key)
		keys[c.Key] = true
		assert.True(t, IsFair(total(c.AGives), total(c.BGives), c.Kind.Tolerance(r)))
		if i > 0 {
			assert.False(t, less(c, serial.Candidates[i-1]), "out of order at %d", i)
		}
	}
	for pair, n := range perPair {
		assert.LessOrEqual(t, n, 3, pair)
	}
}

func TestRecommend_NoCandidates(t *testing.T) {
	teams := []Team{
		team("A", p("a-rb1", models.RB, 5000)),
		team("B", p("b-wr1", models.WR, 5000)),
	}

	res := NewEngine(twoByTwo(), 5000, rules.Default()).Recommend(teams)

	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
}

func TestLess_BothUpgradeFirst(t *testing.T) {
	up := Candidate{BothUpgrade: true, Score: 10, Key: "b"}
	high := Candidate{Score: 500, Key: "a"}
	tieA := Candidate{Score: 100, Key: "a"}
	tieB := Candidate{Score: 100, Key: "b"}

	assert.True(t, less(up, high))
	assert.True(t, less(tieA, tieB))
	assert.False(t, less(tieB, tieA))
}

func ids(players []models.Player) []string {
	out := make([]string, len(players))
	for i, pl := range players {
		out[i] = pl.ID
	}
	return out
}
