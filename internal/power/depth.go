package power

import (
	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// Depth rewards the best bench player at each skill position. Positions with
// an empty bench are left out of the reference total.
func Depth(players []models.Player, l lineup.Lineup, r rules.Rules) float64 {
	best := make(map[models.Position]float64)
	has := make(map[models.Position]bool)
	for _, p := range lineup.Bench(players, l) {
		if !p.Position.SuperFlexEligible() {
			continue
		}
		has[p.Position] = true
		if p.Value > best[p.Position] {
			best[p.Position] = p.Value
		}
	}

	var sum float64
	var contributing int
	for _, pos := range models.SkillPositions {
		if !has[pos] {
			continue
		}
		sum += best[pos]
		contributing++
	}
	if contributing == 0 || r.DepthReference <= 0 {
		return 0
	}
	return clamp(sum / (float64(contributing) * r.DepthReference) * 100)
}
