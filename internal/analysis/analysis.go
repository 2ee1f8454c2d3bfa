// Package analysis runs the full valuation, power ranking and trade search
// over one league snapshot.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/power"
	"github.com/omarshaarawi/powerbot/internal/rules"
	"github.com/omarshaarawi/powerbot/internal/scarcity"
	"github.com/omarshaarawi/powerbot/internal/trade"
	"github.com/omarshaarawi/powerbot/internal/valuation"
)

var (
	ErrNoLeague  = errors.New("no league configuration")
	ErrNoRosters = errors.New("no rosters")
)

type TradeStats struct {
	Pairs     int `json:"pairs"`
	Generated int `json:"generated"`
	Retained  int `json:"retained"`
}

// Report is the serializable result of one run. It carries no timestamps, so
// identical snapshots produce identical reports.
type Report struct {
	League       models.LeagueSettings      `json:"league"`
	Superflex    bool                       `json:"superflex"`
	Rosters      []models.Roster            `json:"rosters"`
	Scarcity     scarcity.Result            `json:"scarcity"`
	Rankings     []power.Score              `json:"rankings"`
	Values       []models.Player            `json:"values"`
	ValueSources map[models.ValueSource]int `json:"value_sources"`
	Needs        []trade.NeedAnalysis       `json:"needs"`
	Trades       []trade.Candidate          `json:"trades"`
	TradeStats   TradeStats                 `json:"trade_stats"`
}

// Run computes the report for snap. Only a missing league or an empty roster
// list is an error; every other gap degrades the result instead.
func Run(snap *models.Snapshot, r rules.Rules) (*Report, error) {
	if snap == nil || snap.League == nil {
		return nil, fmt.Errorf("running analysis: %w", ErrNoLeague)
	}
	if len(snap.Rosters) == 0 {
		return nil, fmt.Errorf("running analysis for league %s: %w", snap.League.LeagueID, ErrNoRosters)
	}

	league := *snap.League
	if league.TeamCount == 0 {
		league.TeamCount = len(snap.Rosters)
	}

	sc := scarcity.Compute(snap.Feeds.Market, &league, r)
	slog.Debug("Scarcity computed", "method", sc.Method, "superflex", sc.Superflex)

	resolver := valuation.NewResolver(snap.Feeds, sc.Map, r)
	values := resolver.ResolveAll(directory(snap))

	teams := make([]power.TeamInput, len(snap.Rosters))
	tradeTeams := make([]trade.Team, len(snap.Rosters))
	teamIDs := make([]string, len(snap.Rosters))
	rosters := make([]models.Roster, len(snap.Rosters))
	for i, roster := range snap.Rosters {
		roster.PlayerIDs = dedupe(roster.PlayerIDs)
		rosters[i] = roster
		players := make([]models.Player, 0, len(roster.PlayerIDs))
		for _, id := range roster.PlayerIDs {
			players = append(players, values[id])
		}
		teams[i] = power.TeamInput{
			Roster:  roster,
			Players: players,
			Lineup:  lineup.Optimize(roster.TeamID, players, &league),
		}
		tradeTeams[i] = trade.Team{Roster: roster, Players: players}
		teamIDs[i] = roster.TeamID
	}

	records := power.ComputeRecords(teamIDs, snap.Results)
	lineups := make([]lineup.Lineup, len(teams))
	for i := range teams {
		teams[i].Record = records[teams[i].Roster.TeamID]
		lineups[i] = teams[i].Lineup
	}
	rankings := power.Rank(teams, league.LeagueType, r)

	engine := trade.NewEngine(&league, power.MaxLineupTotal(lineups), r)
	trades := engine.Recommend(tradeTeams)
	slog.Debug("Trade search finished",
		"pairs", trades.Pairs,
		"generated", trades.Generated,
		"retained", len(trades.Candidates),
	)

	return &Report{
		League:       league,
		Superflex:    league.IsSuperflex(),
		Rosters:      rosters,
		Scarcity:     sc,
		Rankings:     rankings,
		Values:       valuation.Table(values),
		ValueSources: valuation.Tally(values),
		Needs:        trades.Needs,
		Trades:       trades.Candidates,
		TradeStats: TradeStats{
			Pairs:     trades.Pairs,
			Generated: trades.Generated,
			Retained:  len(trades.Candidates),
		},
	}, nil
}

// directory returns every known player plus any rostered player the snapshot's
// directory is missing. Missing players are built from their market entry
// when there is one.
func directory(snap *models.Snapshot) map[string]models.Player {
	out := make(map[string]models.Player, len(snap.Players))
	for id, p := range snap.Players {
		p.ID = id
		out[id] = p
	}
	for _, roster := range snap.Rosters {
		for _, id := range roster.PlayerIDs {
			if _, ok := out[id]; ok {
				continue
			}
			p := models.Player{ID: id}
			if mv, ok := snap.Feeds.Market[id]; ok {
				p.Name, p.Position, p.Age = mv.Name, mv.Position, mv.Age
			}
			out[id] = p
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
