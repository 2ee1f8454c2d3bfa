package fantasy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omarshaarawi/powerbot/internal/api/espn"
	"github.com/omarshaarawi/powerbot/internal/api/market"
	"github.com/omarshaarawi/powerbot/internal/models"
)

type LeagueSource interface {
	GetLeagueSettings(ctx context.Context) (*models.LeagueSettings, error)
	GetRosters(ctx context.Context) (*espn.RosterData, error)
	GetSchedule(ctx context.Context) ([]models.MatchupResult, error)
	Flush()
}

type MarketSource interface {
	Fetch(ctx context.Context) (*market.Feed, error)
}

type API struct {
	league     LeagueSource
	market     MarketSource
	leagueType models.LeagueType
}

func NewAPI(league LeagueSource, market MarketSource, leagueType models.LeagueType) *API {
	return &API{league: league, market: market, leagueType: leagueType}
}

// Snapshot fetches league settings, rosters, schedule and the market feed
// concurrently and joins them. Settings and rosters are required; a failed
// schedule or market fetch only degrades the snapshot.
func (a *API) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	var (
		settings *models.LeagueSettings
		rosters  *espn.RosterData
		results  []models.MatchupResult
		feed     *market.Feed
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = a.league.GetLeagueSettings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rosters, err = a.league.GetRosters(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if results, err = a.league.GetSchedule(gctx); err != nil {
			slog.Warn("Schedule unavailable, performance scores will be zero", "error", err)
			results = nil
		}
		return nil
	})
	g.Go(func() error {
		if a.market == nil {
			return nil
		}
		var err error
		if feed, err = a.market.Fetch(gctx); err != nil {
			slog.Warn("Market feed unavailable, falling back to projections and production", "error", err)
			feed = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building league snapshot: %w", err)
	}

	settings.LeagueType = a.leagueType
	matched := market.Match(feed, rosters.Players)
	if matched.Unmatched > 0 {
		slog.Debug("Market entries without a rostered player", "count", matched.Unmatched)
	}

	projections := make(map[string]float64, len(rosters.Projections)+len(matched.Projections))
	for id, v := range rosters.Projections {
		projections[id] = v
	}
	for id, v := range matched.Projections {
		projections[id] = v
	}

	return &models.Snapshot{
		League:  settings,
		Rosters: rosters.Rosters,
		Players: rosters.Players,
		Feeds: models.Feeds{
			Market:      matched.Market,
			Projections: projections,
			Production:  rosters.Production,
		},
		Results:   results,
		FetchedAt: time.Now(),
	}, nil
}

// Refresh drops cached league responses.
func (a *API) Refresh() {
	a.league.Flush()
}
