// Package rules holds the tuning tables shared by every stage of the analysis.
//
// A Rules value is built once with Default and then passed by value into each
// component. Lookup tables are unexported and only reachable through accessor
// methods, so a Rules value cannot be changed after construction; the With*
// helpers return modified copies.
package rules

import "github.com/omarshaarawi/powerbot/internal/models"

// PowerWeights are the component weights of the final power score.
type PowerWeights struct {
	Lineup      float64 `json:"lineup"`
	Performance float64 `json:"performance"`
	Positional  float64 `json:"positional"`
	Depth       float64 `json:"depth"`
}

func (w PowerWeights) Sum() float64 {
	return w.Lineup + w.Performance + w.Positional + w.Depth
}

// Tolerances are the maximum relative value gaps accepted per trade kind.
type Tolerances struct {
	Default       float64
	Consolidation float64
	ValueSwap     float64
}

// TradeBonuses are the additive terms of a candidate's score.
type TradeBonuses struct {
	PowerDelta   float64 // Multiplier on the summed power-score deltas
	Fair         float64 // Every candidate that passed the fairness filter
	BothImprove  float64 // Both lineups improve
	BothUpgrade  float64 // Both teams gain at least one new starter
	TeamImprove  float64 // Per team whose lineup improves
	PerUpgrade   float64 // Per starter upgrade, summed over both teams
	SurplusGiven float64 // Per asset given from a surplus position
	NeedReceived float64 // Per asset received into a need position
}

type Rules struct {
	// Scarcity
	ScarcityMin         float64
	ScarcityMax         float64
	FlexShare           float64 // Share of FLEX slots credited to each flex-eligible position
	SuperFlexQBShare    float64 // Share of SUPER_FLEX slots credited to QB
	SuperFlexOtherShare float64 // Share of SUPER_FLEX slots credited to each of RB/WR/TE

	// Valuation
	MarketWeight       float64
	ProjectionWeight   float64
	ProjectionScale    float64 // Used when the feeds give no range to scale projections into
	StarterBonus       float64 // Production tier bonus for players who started most games
	PlayerFloor        float64
	KickerDefenseFloor float64

	// Power score
	DepthReference float64 // Value of a good backup at one position
	AllPlayWeight  float64
	WinWeight      float64

	// Trade search
	NeedThreshold         float64
	SurplusThreshold      float64
	StrengthWeight        float64
	DepthWeight           float64
	LeagueAvgMultiplier   float64
	StarterPenalty        float64 // Fraction of a departing starter's value charged to the lineup
	Tolerance             Tolerances
	Bonus                 TradeBonuses
	MinTradeValue         float64 // Bench players below this never enter a candidate
	ConsolidationMinValue float64 // Minimum value of the single player in a 2-for-1
	ConsolidationMidMin   float64 // Pair members must be worth at least this share of the star
	ConsolidationMidMax   float64 // and at most this share
	MaxCandidatesPerPair  int
	MaxTrades             int
	Workers               int

	fallback          map[models.Position]float64
	fallbackSuperflex map[models.Position]float64
	slotWeights       map[models.Slot]float64
	powerWeights      map[models.LeagueType]PowerWeights
}

func Default() Rules {
	return Rules{
		ScarcityMin:         20,
		ScarcityMax:         200,
		FlexShare:           0.33,
		SuperFlexQBShare:    0.40,
		SuperFlexOtherShare: 0.20,

		MarketWeight:       0.7,
		ProjectionWeight:   0.3,
		ProjectionScale:    30,
		StarterBonus:       0.10,
		PlayerFloor:        200,
		KickerDefenseFloor: 50,

		DepthReference: 2000,
		AllPlayWeight:  60,
		WinWeight:      40,

		NeedThreshold:       -10,
		SurplusThreshold:    15,
		StrengthWeight:      70,
		DepthWeight:         30,
		LeagueAvgMultiplier: 1.5,
		StarterPenalty:      0.5,
		Tolerance: Tolerances{
			Default:       0.30,
			Consolidation: 0.35,
			ValueSwap:     0.25,
		},
		Bonus: TradeBonuses{
			PowerDelta:   10,
			Fair:         20,
			BothImprove:  40,
			BothUpgrade:  50,
			TeamImprove:  25,
			PerUpgrade:   20,
			SurplusGiven: 10,
			NeedReceived: 15,
		},
		MinTradeValue:         500,
		ConsolidationMinValue: 2000,
		ConsolidationMidMin:   0.25,
		ConsolidationMidMax:   0.90,
		MaxCandidatesPerPair:  10,
		MaxTrades:             50,
		Workers:               4,

		fallback: map[models.Position]float64{
			models.QB:  80,
			models.RB:  150,
			models.WR:  100,
			models.TE:  120,
			models.K:   20,
			models.DEF: 25,
		},
		fallbackSuperflex: map[models.Position]float64{
			models.QB:  160,
			models.RB:  140,
			models.WR:  100,
			models.TE:  115,
			models.K:   20,
			models.DEF: 25,
		},
		slotWeights: map[models.Slot]float64{
			models.PositionSlot(models.QB):  1.0,
			models.PositionSlot(models.RB):  1.3,
			models.PositionSlot(models.WR):  0.9,
			models.PositionSlot(models.TE):  1.2,
			models.PositionSlot(models.K):   0.3,
			models.PositionSlot(models.DEF): 0.4,
			models.SlotFlex:                 0.8,
			models.SlotSuperFlex:            1.1,
		},
		powerWeights: map[models.LeagueType]PowerWeights{
			models.Dynasty: {Lineup: 0.50, Performance: 0.30, Positional: 0.15, Depth: 0.05},
			models.Redraft: {Lineup: 0.35, Performance: 0.45, Positional: 0.15, Depth: 0.05},
		},
	}
}

// FallbackScarcity returns the static multiplier used when market data cannot
// support a value-over-replacement estimate for a position.
func (r Rules) FallbackScarcity(superflex bool, p models.Position) float64 {
	table := r.fallback
	if superflex {
		table = r.fallbackSuperflex
	}
	if v, ok := table[p]; ok {
		return v
	}
	return r.ScarcityMin
}

func (r Rules) SlotWeight(s models.Slot) float64 {
	if w, ok := r.slotWeights[s]; ok {
		return w
	}
	return 1.0
}

// Weights returns the power weights for a league type; unknown types use redraft.
func (r Rules) Weights(t models.LeagueType) PowerWeights {
	if w, ok := r.powerWeights[t]; ok {
		return w
	}
	return r.powerWeights[models.Redraft]
}

// Floor is the value given to a player no feed knows anything about.
func (r Rules) Floor(p models.Position) float64 {
	if p == models.K || p == models.DEF {
		return r.KickerDefenseFloor
	}
	return r.PlayerFloor
}

// WithSearchBounds returns a copy with the trade search bounds replaced.
// Non-positive arguments keep the current value.
func (r Rules) WithSearchBounds(workers, perPair, maxTrades int) Rules {
	if workers > 0 {
		r.Workers = workers
	}
	if perPair > 0 {
		r.MaxCandidatesPerPair = perPair
	}
	if maxTrades > 0 {
		r.MaxTrades = maxTrades
	}
	return r
}

// WithMinTradeValue returns a copy with the bench value floor for trade candidates replaced.
func (r Rules) WithMinTradeValue(v float64) Rules {
	if v > 0 {
		r.MinTradeValue = v
	}
	return r
}
