package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/omarshaarawi/powerbot/internal/analysis"
	"github.com/omarshaarawi/powerbot/internal/lineup"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/power"
	"github.com/omarshaarawi/powerbot/internal/trade"
)

const maxTradesShown = 5

func (s *PowerService) PowerRankings(ctx context.Context) (string, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return "", fmt.Errorf("error generating power rankings: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Power Rankings - Week %d*\n\n", report.League.Week))
	for _, team := range report.Rankings {
		c := team.Components
		sb.WriteString(fmt.Sprintf("%d. *%s* (%.1f)\n", team.Rank, team.Name, team.Score))
		sb.WriteString(fmt.Sprintf("   Lineup %.0f | Perf %.0f | Pos %.0f | Depth %.0f\n", c.Lineup, c.Performance, c.Positional, c.Depth))
		sb.WriteString(fmt.Sprintf("   Record: %s (all-play %d-%d-%d)\n\n",
			formatRecord(team.Record), team.Record.AllPlayWins, team.Record.AllPlayLosses, team.Record.AllPlayTies))
	}

	return sb.String(), nil
}

// Trades lists trade ideas for one team, or the best ideas league-wide when
// team is empty.
func (s *PowerService) Trades(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return "", fmt.Errorf("error generating trades: %w", err)
	}

	candidates := report.Trades
	title := "🔄 *Trade Ideas*"
	if strings.TrimSpace(team) != "" {
		roster, ok := findTeam(report, team)
		if !ok {
			return fmt.Sprintf("🔍 No team found matching '%s'.", team), nil
		}
		title = fmt.Sprintf("🔄 *Trade Ideas for %s*", roster.Name)
		candidates = nil
		for _, c := range report.Trades {
			if c.Involves(roster.TeamID) {
				candidates = append(candidates, c)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	if len(candidates) == 0 {
		sb.WriteString("No fair trades found right now.")
		return sb.String(), nil
	}

	names := teamNames(report)
	for i, c := range candidates {
		if i == maxTradesShown {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. *%s* gives: %s\n", i+1, names[c.TeamA], formatPlayers(c.AGives)))
		sb.WriteString(fmt.Sprintf("   *%s* gives: %s\n", names[c.TeamB], formatPlayers(c.BGives)))
		sb.WriteString(fmt.Sprintf("   Score %.1f | %s%s\n", c.Score, kindLabel(c.Kind), benefitLabel(c)))
		for _, side := range []struct {
			team   string
			impact trade.Impact
		}{{c.TeamA, c.ImpactA}, {c.TeamB, c.ImpactB}} {
			if len(side.impact.Upgrades) > 0 {
				sb.WriteString(fmt.Sprintf("   ⬆️ %s: %+.1f power\n", names[side.team], side.impact.PowerScoreChange))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (s *PowerService) Lineup(ctx context.Context, team string) (string, error) {
	if strings.TrimSpace(team) == "" {
		return "Please provide a team name. Usage: /lineup <team name>", nil
	}
	report, err := s.Report(ctx)
	if err != nil {
		return "", fmt.Errorf("error generating lineup: %w", err)
	}

	roster, ok := findTeam(report, team)
	if !ok {
		return fmt.Sprintf("🔍 No team found matching '%s'.", team), nil
	}

	var score power.Score
	for _, r := range report.Rankings {
		if r.TeamID == roster.TeamID {
			score = r
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s's Optimal Lineup*\n\n", roster.Name))
	for _, slot := range lineup.Slots(&report.League) {
		for _, a := range score.Lineup.Slot(slot) {
			sb.WriteString(fmt.Sprintf("▫️ %s %s - %.0f\n", slot, a.Name, a.Value))
		}
	}
	sb.WriteString(fmt.Sprintf("\n*Total:* %.0f (rank %d)", score.Lineup.Total, score.Rank))

	return sb.String(), nil
}

func (s *PowerService) PlayerValue(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "Please provide a player name. Usage: /value <player name>", nil
	}
	report, err := s.Report(ctx)
	if err != nil {
		return "", fmt.Errorf("error looking up player value: %w", err)
	}

	p, ok := findPlayer(report, name)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", name), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s", p.Name, p.Position))
	if p.ProTeam != "" {
		sb.WriteString(" - " + p.ProTeam)
	}
	sb.WriteString(")\n━━━━━━━━━━━━━━━━\n")
	if p.InjuryStatus != "" {
		sb.WriteString(fmt.Sprintf("🚑 %s\n", p.InjuryStatus))
	}
	sb.WriteString(fmt.Sprintf("Value: %.0f (%s)\n", p.Value, p.ValueSource))
	if p.PositionRank > 0 {
		sb.WriteString(fmt.Sprintf("Position rank: %s%d\n", p.Position, p.PositionRank))
	}
	if p.Projection > 0 {
		sb.WriteString(fmt.Sprintf("ROS projection: %.1f pts\n", p.Projection))
	}
	if p.PointsPerGame > 0 {
		sb.WriteString(fmt.Sprintf("%.1f pts/game over %d games\n", p.PointsPerGame, p.GamesPlayed))
	}
	if owner, ok := ownerOf(report, p.ID); ok {
		sb.WriteString(fmt.Sprintf("\nRostered by *%s*", owner.Name))
	} else {
		sb.WriteString("\nNot rostered")
	}

	return sb.String(), nil
}

func (s *PowerService) Scarcity(ctx context.Context) (string, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return "", fmt.Errorf("error generating scarcity: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚖️ *Positional Scarcity* (%s)\n\n", report.Scarcity.Method))
	for _, d := range report.Scarcity.Positions {
		sb.WriteString(fmt.Sprintf("*%s* %.0f", d.Position, d.Multiplier))
		if d.VOR > 0 {
			sb.WriteString(fmt.Sprintf(" - elite %.0f, replacement %.0f", d.Elite, d.Replacement))
		}
		sb.WriteString("\n")
	}
	if report.Superflex {
		sb.WriteString("\nSuperflex league")
	}

	return sb.String(), nil
}

func formatRecord(r power.Record) string {
	if r.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
	}
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

func formatPlayers(players []models.Player) string {
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("%s (%s, %.0f)", p.Name, p.Position, p.Value)
	}
	return strings.Join(parts, " + ")
}

func kindLabel(k trade.Kind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}

func benefitLabel(c trade.Candidate) string {
	switch {
	case c.BothUpgrade:
		return " | ✅ both upgrade"
	case c.MutualBenefit:
		return " | ✅ both improve"
	}
	return ""
}

func teamNames(report *analysis.Report) map[string]string {
	names := make(map[string]string, len(report.Rosters))
	for _, r := range report.Rosters {
		names[r.TeamID] = r.Name
	}
	return names
}
