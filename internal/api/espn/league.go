package espn

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/omarshaarawi/powerbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// RosterData is everything the mRoster view gives us about the league's players.
type RosterData struct {
	Rosters     []models.Roster
	Players     map[string]models.Player
	Projections map[string]float64
	Production  map[string]models.Production
}

func (a *API) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
}

// Flush drops cached ESPN responses so the next call refetches.
func (a *API) Flush() {
	a.client.Flush()
}

func (a *API) GetLeagueSettings(ctx context.Context) (*models.LeagueSettings, error) {
	var espnResponse models.LeagueResponse
	params := map[string]string{
		"view": "mSettings",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &espnResponse); err != nil {
		return nil, fmt.Errorf("fetching league settings: %w", err)
	}

	settings := &models.LeagueSettings{
		LeagueID:  strconv.Itoa(espnResponse.ID),
		Name:      espnResponse.Settings.Name,
		Season:    espnResponse.SeasonID,
		Week:      espnResponse.Status.CurrentMatchupPeriod,
		TeamCount: espnResponse.Settings.Size,
		Slots:     make(map[models.Position]int),
	}

	for key, count := range espnResponse.Settings.RosterSettings.LineupSlotCounts {
		slotID, err := strconv.Atoi(key)
		if err != nil || count <= 0 {
			continue
		}
		switch slot := lineupSlot(slotID); slot {
		case "":
		case models.SlotFlex:
			settings.Flex += count
		case models.SlotSuperFlex:
			settings.SuperFlex += count
		default:
			settings.Slots[models.Position(slot)] += count
		}
	}

	return settings, nil
}

func (a *API) GetRosters(ctx context.Context) (*RosterData, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mTeam,mRoster",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	data := &RosterData{
		Players:     make(map[string]models.Player),
		Projections: make(map[string]float64),
		Production:  make(map[string]models.Production),
	}
	season := leagueResponse.SeasonID

	for _, team := range leagueResponse.Teams {
		roster := models.Roster{
			TeamID:       strconv.Itoa(team.ID),
			Name:         teamName(team),
			Abbreviation: team.Abbreviation,
			ManagerID:    team.PrimaryOwner,
		}

		for _, entry := range team.Roster.Entries {
			player := entry.PlayerPoolEntry.Player
			if player.ID == 0 {
				player.ID = entry.PlayerID
			}
			id := strconv.Itoa(player.ID)
			roster.PlayerIDs = append(roster.PlayerIDs, id)

			data.Players[id] = models.Player{
				ID:           id,
				Name:         player.FullName,
				Position:     position(player.DefaultPositionID),
				ProTeam:      proTeam(player.ProTeamID),
				InjuryStatus: injuryStatus(player.InjuryStatus),
			}
			if prod, ok := production(player.Stats, season); ok {
				data.Production[id] = prod
			}
			if proj, ok := restOfSeason(player.Stats, season); ok {
				data.Projections[id] = proj
			}
		}

		data.Rosters = append(data.Rosters, roster)
	}

	return data, nil
}

// GetSchedule returns the completed matchups of the season. Byes and
// undecided games are skipped.
func (a *API) GetSchedule(ctx context.Context) ([]models.MatchupResult, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mMatchupScore",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	var results []models.MatchupResult
	for _, match := range leagueResponse.Schedule {
		if match.Winner == "UNDECIDED" || match.Winner == "" || match.Away.TeamID == 0 {
			continue
		}
		results = append(results, models.MatchupResult{
			Week:       match.MatchupPeriodID,
			HomeTeamID: strconv.Itoa(match.Home.TeamID),
			AwayTeamID: strconv.Itoa(match.Away.TeamID),
			HomeScore:  roundPoints(match.Home.TotalPoints),
			AwayScore:  roundPoints(match.Away.TotalPoints),
		})
	}
	return results, nil
}

func roundPoints(v float64) float64 {
	return math.Round(v*100) / 100
}

func teamName(team models.Team) string {
	if team.Name != "" {
		return team.Name
	}
	return strings.TrimSpace(team.Location + " " + team.Nickname)
}

// seasonStat finds the full-season line for a stat source.
func seasonStat(stats []models.Stat, season, source int) (models.Stat, bool) {
	for _, stat := range stats {
		if stat.StatSourceID == source && stat.StatSplitTypeID == 0 && (season == 0 || stat.SeasonID == season) {
			return stat, true
		}
	}
	return models.Stat{}, false
}

// production derives points per game and games played from the season's
// actual line. ESPN does not report games started.
func production(stats []models.Stat, season int) (models.Production, bool) {
	actual, ok := seasonStat(stats, season, 0)
	if !ok || actual.AppliedAverage <= 0 {
		return models.Production{}, false
	}
	return models.Production{
		PointsPerGame: actual.AppliedAverage,
		GamesPlayed:   int(math.Round(actual.AppliedTotal / actual.AppliedAverage)),
	}, true
}

// restOfSeason is the projected season total minus points already scored.
func restOfSeason(stats []models.Stat, season int) (float64, bool) {
	projected, ok := seasonStat(stats, season, 1)
	if !ok || projected.AppliedTotal <= 0 {
		return 0, false
	}
	var scored float64
	if actual, ok := seasonStat(stats, season, 0); ok {
		scored = actual.AppliedTotal
	}
	return math.Max(0, projected.AppliedTotal-scored), true
}

// injuryStatus drops ESPN's healthy marker so only real designations remain.
func injuryStatus(status string) string {
	if status == "ACTIVE" || status == "NORMAL" {
		return ""
	}
	return status
}

func position(positionID int) models.Position {
	positions := map[int]models.Position{
		1: models.QB, 2: models.RB, 3: models.WR, 4: models.TE, 5: models.K, 16: models.DEF,
	}
	return positions[positionID]
}

func proTeam(proTeamID int) string {
	teams := map[int]string{
		1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
		9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA", 16: "MIN",
		17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
		25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
	}

	if team, ok := teams[proTeamID]; ok {
		return team
	}

	return ""
}

// lineupSlot maps an ESPN lineup slot ID to a starting slot class. Bench, IR
// and IDP slots map to "".
func lineupSlot(slotID int) models.Slot {
	switch slotID {
	case 0, 1:
		return models.PositionSlot(models.QB)
	case 2:
		return models.PositionSlot(models.RB)
	case 4:
		return models.PositionSlot(models.WR)
	case 6:
		return models.PositionSlot(models.TE)
	case 16:
		return models.PositionSlot(models.DEF)
	case 17:
		return models.PositionSlot(models.K)
	case 3, 5, 23:
		return models.SlotFlex
	case 7:
		return models.SlotSuperFlex
	default:
		return ""
	}
}
