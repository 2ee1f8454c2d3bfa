package models

type LeagueResponse struct {
	ID       int            `json:"id"`
	SeasonID int            `json:"seasonId"`
	Status   Status         `json:"status"`
	Teams    []Team         `json:"teams"`
	Settings Settings       `json:"settings"`
	Schedule []MatchupScore `json:"schedule"`
}

type Settings struct {
	Name           string         `json:"name"`
	Size           int            `json:"size"`
	RosterSettings RosterSettings `json:"rosterSettings"`
}

type RosterSettings struct {
	// LineupSlotCounts is keyed by ESPN lineup slot ID.
	LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
}

type Status struct {
	CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
}

type Team struct {
	ID           int        `json:"id"`
	Abbreviation string     `json:"abbrev"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	Nickname     string     `json:"nickname"`
	PrimaryOwner string     `json:"primaryOwner"`
	Roster       TeamRoster `json:"roster"`
}

// TeamRoster is the ESPN roster block of a team.
type TeamRoster struct {
	Entries []RosterEntry `json:"entries"`
}

type MatchupScore struct {
	MatchupPeriodID int       `json:"matchupPeriodId"`
	Away            TeamScore `json:"away"`
	Home            TeamScore `json:"home"`
	Winner          string    `json:"winner"`
}

type TeamScore struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type RosterEntry struct {
	PlayerID        int             `json:"playerId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
}

type PlayerPoolEntry struct {
	Player PoolPlayer `json:"player"`
}

// PoolPlayer is a player as ESPN's player pool describes it.
type PoolPlayer struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	Stats             []Stat `json:"stats"`
	InjuryStatus      string `json:"injuryStatus"`
}

// Stat is one ESPN stat line. StatSourceID is 0 for actual and 1 for
// projected; StatSplitTypeID is 0 for the season and 1 for a single week.
type Stat struct {
	SeasonID        int     `json:"seasonId"`
	StatSourceID    int     `json:"statSourceId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	AppliedTotal    float64 `json:"appliedTotal"`
	AppliedAverage  float64 `json:"appliedAverage"`
}
