package models

import (
	"strings"
	"time"
)

type Position string

const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	K   Position = "K"
	DEF Position = "DEF"
)

// Positions lists every rosterable position in display order.
var Positions = []Position{QB, RB, WR, TE, K, DEF}

// SkillPositions are the positions that count toward bench depth.
var SkillPositions = []Position{QB, RB, WR, TE}

func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return QB, true
	case "RB":
		return RB, true
	case "WR":
		return WR, true
	case "TE":
		return TE, true
	case "K", "PK":
		return K, true
	case "DEF", "D/ST", "DST":
		return DEF, true
	}
	return "", false
}

func (p Position) FlexEligible() bool {
	return p == RB || p == WR || p == TE
}

func (p Position) SuperFlexEligible() bool {
	return p == QB || p.FlexEligible()
}

// Slot is a starting lineup slot class. Dedicated slots share the position's name.
type Slot string

const (
	SlotFlex      Slot = "FLEX"
	SlotSuperFlex Slot = "SUPER_FLEX"
)

func PositionSlot(p Position) Slot {
	return Slot(p)
}

type LeagueType string

const (
	Dynasty LeagueType = "dynasty"
	Redraft LeagueType = "redraft"
)

func ParseLeagueType(s string) LeagueType {
	if strings.EqualFold(strings.TrimSpace(s), string(Dynasty)) {
		return Dynasty
	}
	return Redraft
}

// ValueSource records which resolver tier produced a player's value.
type ValueSource string

const (
	SourceMarket      ValueSource = "market"
	SourceMarketBlend ValueSource = "market_blend"
	SourceProjection  ValueSource = "projection"
	SourceProduction  ValueSource = "production"
	SourceFloor       ValueSource = "floor"
)

type Player struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Position      Position    `json:"position"`
	ProTeam       string      `json:"pro_team,omitempty"`
	Age           int         `json:"age,omitempty"`
	Value         float64     `json:"value"`
	ValueSource   ValueSource `json:"value_source,omitempty"`
	PositionRank  int         `json:"position_rank,omitempty"`
	Projection    float64     `json:"ros_projection,omitempty"`
	PointsPerGame float64     `json:"points_per_game,omitempty"`
	GamesPlayed   int         `json:"games_played,omitempty"`
	GamesStarted  int         `json:"games_started,omitempty"`
	InjuryStatus  string      `json:"injury_status,omitempty"`
}

type LeagueSettings struct {
	LeagueID   string           `json:"league_id"`
	Name       string           `json:"name"`
	Season     int              `json:"season"`
	Week       int              `json:"week"`
	TeamCount  int              `json:"team_count"`
	LeagueType LeagueType       `json:"league_type"`
	Slots      map[Position]int `json:"slots"`
	Flex       int              `json:"flex"`
	SuperFlex  int              `json:"super_flex"`
}

// IsSuperflex reports whether QBs are startable beyond a single dedicated slot.
func (s *LeagueSettings) IsSuperflex() bool {
	if s == nil {
		return false
	}
	return s.SuperFlex > 0 || s.Slots[QB] >= 2
}

func (s *LeagueSettings) Required(p Position) int {
	if s == nil {
		return 0
	}
	return s.Slots[p]
}

func (s *LeagueSettings) LineupSize() int {
	if s == nil {
		return 0
	}
	n := s.Flex + s.SuperFlex
	for _, c := range s.Slots {
		n += c
	}
	return n
}

type Roster struct {
	TeamID       string   `json:"team_id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation,omitempty"`
	ManagerID    string   `json:"manager_id,omitempty"`
	PlayerIDs    []string `json:"player_ids"`
}

// MarketValue is one entry of an external trade-value feed.
type MarketValue struct {
	PlayerID     string   `json:"player_id"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Value        float64  `json:"value"`
	PositionRank int      `json:"position_rank,omitempty"`
	Age          int      `json:"age,omitempty"`
}

type Production struct {
	PointsPerGame float64 `json:"points_per_game"`
	GamesPlayed   int     `json:"games_played"`
	GamesStarted  int     `json:"games_started"`
}

type MatchupResult struct {
	Week       int     `json:"week"`
	HomeTeamID string  `json:"home_team_id"`
	AwayTeamID string  `json:"away_team_id"`
	HomeScore  float64 `json:"home_score"`
	AwayScore  float64 `json:"away_score"`
}

// Feeds holds the valuation inputs keyed by player ID.
type Feeds struct {
	Market      map[string]MarketValue `json:"market,omitempty"`
	Projections map[string]float64     `json:"projections,omitempty"`
	Production  map[string]Production  `json:"production,omitempty"`
}

// Snapshot is the immutable input of one analysis run.
type Snapshot struct {
	League    *LeagueSettings   `json:"league"`
	Rosters   []Roster          `json:"rosters"`
	Players   map[string]Player `json:"players"`
	Feeds     Feeds             `json:"feeds"`
	Results   []MatchupResult   `json:"results,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}
