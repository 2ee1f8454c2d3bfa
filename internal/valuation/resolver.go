// Package valuation turns the valuation feeds into one scalar value per player.
//
// Values are produced by an ordered chain of strategies. Each strategy either
// resolves the player or passes; the last strategy (the position floor) always
// resolves, so a player is never dropped.
package valuation

import (
	"sort"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
	"github.com/omarshaarawi/powerbot/internal/scarcity"
)

// Strategy is one tier of the resolution chain.
type Strategy interface {
	Resolve(p models.Player) (float64, models.ValueSource, bool)
}

type Resolver struct {
	feeds models.Feeds
	chain []Strategy
}

// NewResolver builds the default chain: market (blended with projections when
// both exist), projection alone, production, position floor.
func NewResolver(feeds models.Feeds, sc scarcity.Map, r rules.Rules) *Resolver {
	scale := ProjectionScale(feeds, r)
	return NewResolverWithChain(feeds,
		marketStrategy{feeds: feeds, scale: scale, rules: r},
		projectionStrategy{feeds: feeds, scale: scale},
		productionStrategy{feeds: feeds, scarcity: sc, rules: r},
		floorStrategy{rules: r},
	)
}

func NewResolverWithChain(feeds models.Feeds, chain ...Strategy) *Resolver {
	return &Resolver{feeds: feeds, chain: chain}
}

// Resolve returns a copy of p with Value, ValueSource and the provenance fields
// filled from the feeds.
func (res *Resolver) Resolve(p models.Player) models.Player {
	if mv, ok := res.feeds.Market[p.ID]; ok {
		p.PositionRank = mv.PositionRank
		if p.Age == 0 {
			p.Age = mv.Age
		}
	}
	if proj, ok := res.feeds.Projections[p.ID]; ok {
		p.Projection = proj
	}
	if prod, ok := res.feeds.Production[p.ID]; ok {
		p.PointsPerGame = prod.PointsPerGame
		p.GamesPlayed = prod.GamesPlayed
		p.GamesStarted = prod.GamesStarted
	}

	p.Value, p.ValueSource = 0, ""
	for _, s := range res.chain {
		if v, src, ok := s.Resolve(p); ok {
			p.Value, p.ValueSource = v, src
			break
		}
	}
	return p
}

func (res *Resolver) ResolveAll(players map[string]models.Player) map[string]models.Player {
	out := make(map[string]models.Player, len(players))
	for id, p := range players {
		out[id] = res.Resolve(p)
	}
	return out
}

// ProjectionScale maps projected points into the market value range. When
// either feed is empty the configured default is used.
func ProjectionScale(feeds models.Feeds, r rules.Rules) float64 {
	var maxMarket, maxProj float64
	for _, mv := range feeds.Market {
		if mv.Value > maxMarket {
			maxMarket = mv.Value
		}
	}
	for _, pts := range feeds.Projections {
		if pts > maxProj {
			maxProj = pts
		}
	}
	if maxMarket <= 0 || maxProj <= 0 {
		return r.ProjectionScale
	}
	return maxMarket / maxProj
}

// Tally counts players per resolution tier.
func Tally(players map[string]models.Player) map[models.ValueSource]int {
	out := make(map[models.ValueSource]int)
	for _, p := range players {
		out[p.ValueSource]++
	}
	return out
}

// Table returns players ordered by descending value, ties by ID.
func Table(players map[string]models.Player) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type marketStrategy struct {
	feeds models.Feeds
	scale float64
	rules rules.Rules
}

func (s marketStrategy) Resolve(p models.Player) (float64, models.ValueSource, bool) {
	mv, ok := s.feeds.Market[p.ID]
	if !ok || mv.Value <= 0 {
		return 0, "", false
	}
	if proj := s.feeds.Projections[p.ID]; proj > 0 {
		return s.rules.MarketWeight*mv.Value + s.rules.ProjectionWeight*proj*s.scale, models.SourceMarketBlend, true
	}
	return mv.Value, models.SourceMarket, true
}

type projectionStrategy struct {
	feeds models.Feeds
	scale float64
}

func (s projectionStrategy) Resolve(p models.Player) (float64, models.ValueSource, bool) {
	proj := s.feeds.Projections[p.ID]
	if proj <= 0 {
		return 0, "", false
	}
	return proj * s.scale, models.SourceProjection, true
}

type productionStrategy struct {
	feeds    models.Feeds
	scarcity scarcity.Map
	rules    rules.Rules
}

func (s productionStrategy) Resolve(p models.Player) (float64, models.ValueSource, bool) {
	prod, ok := s.feeds.Production[p.ID]
	if !ok || prod.PointsPerGame <= 0 {
		return 0, "", false
	}
	mult, ok := s.scarcity[p.Position]
	if !ok {
		return 0, "", false
	}
	v := prod.PointsPerGame * mult
	if prod.GamesPlayed > 0 && prod.GamesStarted*2 > prod.GamesPlayed {
		v *= 1 + s.rules.StarterBonus
	}
	return v, models.SourceProduction, true
}

type floorStrategy struct {
	rules rules.Rules
}

func (s floorStrategy) Resolve(p models.Player) (float64, models.ValueSource, bool) {
	return s.rules.Floor(p.Position), models.SourceFloor, true
}
