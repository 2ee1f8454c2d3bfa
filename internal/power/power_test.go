package power

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

func TestComputeRecords(t *testing.T) {
	results := []models.MatchupResult{
		{Week: 1, HomeTeamID: "A", AwayTeamID: "B", HomeScore: 100, AwayScore: 80},
		{Week: 1, HomeTeamID: "C", AwayTeamID: "D", HomeScore: 90, AwayScore: 90},
		{Week: 2, HomeTeamID: "A", AwayTeamID: "C", HomeScore: 70, AwayScore: 120},
		{Week: 2, HomeTeamID: "B", AwayTeamID: "D", HomeScore: 60, AwayScore: 50},
	}

	records := ComputeRecords([]string{"A", "B", "C", "D", "E"}, results)

	a := records["A"]
	assert.Equal(t, Record{Wins: 1, Losses: 1, PointsFor: 170, PointsAgainst: 200, AllPlayWins: 5, AllPlayLosses: 1}, a)
	c := records["C"]
	assert.Equal(t, 1, c.Ties)
	assert.Equal(t, 4, c.AllPlayWins)
	assert.Equal(t, 1, c.AllPlayTies)
	assert.Equal(t, Record{}, records["E"])

	r := rules.Default()
	assert.InDelta(t, 5.0/6*60+0.5*40, Performance(a, r), 1e-9)
	assert.InDelta(t, 75, Performance(c, r), 1e-9)
	assert.Zero(t, Performance(records["E"], r))
}

func TestPositionalAdvantage(t *testing.T) {
	rb := models.PositionSlot(models.RB)
	lineups := []lineup.Lineup{
		{TeamID: "A", Starters: []lineup.Assignment{{Slot: rb, Value: 3000}, {Slot: rb, Value: 1000}}},
		{TeamID: "B", Starters: []lineup.Assignment{{Slot: rb, Value: 1000}, {Slot: rb, Value: 1000}}},
		{TeamID: "C"},
	}

	scores := PositionalAdvantage(lineups, rules.Default())

	require.Len(t, scores, 3)
	assert.InDelta(t, 66.25, scores[0], 1e-9)
	assert.InDelta(t, 33.75, scores[1], 1e-9)
	assert.Equal(t, 50.0, scores[2])
}

func depthLeague() *models.LeagueSettings {
	return &models.LeagueSettings{
		TeamCount: 10,
		Slots:     map[models.Position]int{models.QB: 1, models.RB: 1, models.WR: 1, models.TE: 1},
	}
}

func TestDepth_EmptyPositionLeftOutOfReference(t *testing.T) {
	players := []models.Player{
		{ID: "qb1", Position: models.QB, Value: 3000},
		{ID: "qb2", Position: models.QB, Value: 1000},
		{ID: "rb1", Position: models.RB, Value: 4000},
		{ID: "rb2", Position: models.RB, Value: 2000},
		{ID: "wr1", Position: models.WR, Value: 3000},
		{ID: "wr2", Position: models.WR, Value: 500},
		{ID: "te1", Position: models.TE, Value: 1500},
		{ID: "k1", Position: models.K, Value: 900},
	}
	l := lineup.Optimize("t", players, depthLeague())

	// QB, RB and WR contribute; TE has no bench player.
	assert.InDelta(t, 3500.0/6000*100, Depth(players, l, rules.Default()), 1e-9)
}

func TestDepth_Bounds(t *testing.T) {
	r := rules.Default()
	starters := []models.Player{{ID: "qb1", Position: models.QB, Value: 3000}}
	assert.Zero(t, Depth(starters, lineup.Optimize("t", starters, depthLeague()), r))

	deep := []models.Player{
		{ID: "qb1", Position: models.QB, Value: 3000},
		{ID: "qb2", Position: models.QB, Value: 9000},
	}
	l := lineup.Lineup{Starters: []lineup.Assignment{{PlayerID: "qb1"}}}
	assert.Equal(t, 100.0, Depth(deep, l, r))
}

func TestRank_OrderAndTies(t *testing.T) {
	league := depthLeague()
	r := rules.Default()
	roster := []models.Player{{ID: "qb", Position: models.QB, Value: 1000}}

	teams := []TeamInput{
		{Roster: models.Roster{TeamID: "1", Name: "First"}, Players: roster, Lineup: lineup.Optimize("1", roster, league)},
		{Roster: models.Roster{TeamID: "2", Name: "Second"}, Players: roster, Lineup: lineup.Optimize("2", roster, league)},
		{Roster: models.Roster{TeamID: "3", Name: "Winner"}, Players: roster, Lineup: lineup.Optimize("3", roster, league),
			Record: Record{Wins: 3, AllPlayWins: 9}},
	}

	scores := Rank(teams, models.Redraft, r)

	assert.Equal(t, []string{"3", "1", "2"}, []string{scores[0].TeamID, scores[1].TeamID, scores[2].TeamID})
	assert.Equal(t, []int{1, 2, 3}, []int{scores[0].Rank, scores[1].Rank, scores[2].Rank})
	assert.Equal(t, 100.0, scores[0].Components.Performance)
	assert.Equal(t, 100.0, scores[0].Components.Lineup)
	assert.InDelta(t, 100*0.35+100*0.45+50*0.15, scores[0].Score, 1e-9)
}

func TestRank_ScoresStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	positions := []models.Position{models.QB, models.RB, models.WR, models.TE, models.K, models.DEF}
	league := &models.LeagueSettings{
		TeamCount: 8,
		Slots:     map[models.Position]int{models.QB: 1, models.RB: 2, models.WR: 2, models.TE: 1, models.K: 1, models.DEF: 1},
		Flex:      1,
		SuperFlex: 1,
	}
	r := rules.Default()

	for trial := 0; trial < 50; trial++ {
		teams := make([]TeamInput, 8)
		for i := range teams {
			n := rng.Intn(20)
			players := make([]models.Player, n)
			for j := range players {
				players[j] = models.Player{
					ID:       fmt.Sprintf("%d-%d", i, j),
					Position: positions[rng.Intn(len(positions))],
					Value:    float64(rng.Intn(10000)),
				}
			}
			id := fmt.Sprint(i)
			teams[i] = TeamInput{
				Roster:  models.Roster{TeamID: id},
				Players: players,
				Lineup:  lineup.Optimize(id, players, league),
				Record:  Record{Wins: rng.Intn(5), Losses: rng.Intn(5), AllPlayWins: rng.Intn(30), AllPlayLosses: rng.Intn(30)},
			}
		}

		for _, lt := range []models.LeagueType{models.Dynasty, models.Redraft} {
			for _, s := range Rank(teams, lt, r) {
				for _, v := range []float64{s.Score, s.Components.Lineup, s.Components.Performance, s.Components.Positional, s.Components.Depth} {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 100.0)
				}
			}
		}
	}
}

func TestLineupScore_ZeroMax(t *testing.T) {
	assert.Zero(t, LineupScore(0, 0))
	assert.Equal(t, 50.0, LineupScore(500, 1000))
}
