package power

import (
	"fmt"

	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

// PositionalAdvantage scores every lineup against the league average of each
// slot instance (RB#1, RB#2, FLEX#1, ...). The result is aligned with lineups;
// 50 is league average.
func PositionalAdvantage(lineups []lineup.Lineup, r rules.Rules) []float64 {
	type total struct {
		sum   float64
		teams int
	}
	averages := make(map[string]total)
	for _, l := range lineups {
		for key, a := range instances(l) {
			t := averages[key]
			t.sum += a.Value
			t.teams++
			averages[key] = t
		}
	}

	scores := make([]float64, len(lineups))
	for i, l := range lineups {
		var weighted float64
		var n int
		// Starters are walked in lineup order so the float sum is reproducible.
		seen := make(map[string]int)
		for _, a := range l.Starters {
			key := instanceKey(a, seen)
			t := averages[key]
			if t.teams == 0 {
				continue
			}
			avg := t.sum / float64(t.teams)
			if avg <= 0 {
				continue
			}
			weighted += (a.Value - avg) / avg * r.SlotWeight(a.Slot)
			n++
		}
		if n == 0 {
			scores[i] = 50
			continue
		}
		scores[i] = clamp(50 + weighted/float64(n)*50)
	}
	return scores
}

func instances(l lineup.Lineup) map[string]lineup.Assignment {
	out := make(map[string]lineup.Assignment, len(l.Starters))
	seen := make(map[string]int)
	for _, a := range l.Starters {
		out[instanceKey(a, seen)] = a
	}
	return out
}

func instanceKey(a lineup.Assignment, seen map[string]int) string {
	seen[string(a.Slot)]++
	return fmt.Sprintf("%s#%d", a.Slot, seen[string(a.Slot)])
}
