package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarshaarawi/powerbot/internal/analysis"
	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/observability"
	"github.com/omarshaarawi/powerbot/internal/repository/memory"
	"github.com/omarshaarawi/powerbot/internal/rules"
	"github.com/omarshaarawi/powerbot/internal/scarcity"
)

// maxReportAge is how long a stored report is served before it is rebuilt.
const maxReportAge = 24 * time.Hour

type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	Refresh()
}

type PowerService struct {
	api     SnapshotSource
	repo    *memory.Repository
	rules   rules.Rules
	metrics *observability.Metrics
	now     func() time.Time

	generateMu sync.Mutex
}

func NewPowerService(api SnapshotSource, repo *memory.Repository, r rules.Rules, metrics *observability.Metrics) *PowerService {
	return &PowerService{
		api:     api,
		repo:    repo,
		rules:   r,
		metrics: metrics,
		now:     time.Now,
	}
}

// Generate fetches a fresh snapshot, runs the analysis and stores the report.
// Concurrent calls run one at a time.
func (s *PowerService) Generate(ctx context.Context) (*analysis.Report, error) {
	s.generateMu.Lock()
	defer s.generateMu.Unlock()

	start := s.now()
	report, err := s.generate(ctx)
	elapsed := s.now().Sub(start).Seconds()

	if err != nil {
		s.recordRun("error", elapsed)
		return nil, err
	}
	s.recordRun("success", elapsed)
	return report, nil
}

func (s *PowerService) generate(ctx context.Context) (*analysis.Report, error) {
	fetchStart := s.now()
	snap, err := s.api.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching league snapshot: %w", err)
	}
	s.recordPhase("fetch", fetchStart)

	analysisStart := s.now()
	report, err := analysis.Run(snap, s.rules)
	if err != nil {
		return nil, fmt.Errorf("error running analysis: %w", err)
	}
	s.recordPhase("analysis", analysisStart)

	s.repo.SaveReport(report, s.now())
	if s.metrics != nil {
		s.metrics.RecordTrades(report.TradeStats.Generated, report.TradeStats.Retained)
		s.metrics.RecordValueSources(report.ValueSources)
		if report.Scarcity.Method == scarcity.MethodFallback {
			s.metrics.RecordScarcityFallback()
		}
		s.metrics.MarkSuccess(s.now().Unix())
	}

	slog.Info("Power rankings generated",
		"league", report.League.Name,
		"teams", len(report.Rankings),
		"players", len(report.Values),
		"scarcity", report.Scarcity.Method,
		"trades", len(report.Trades),
	)
	return report, nil
}

// Report returns the stored report, generating one when none exists or the
// stored one is older than a day.
func (s *PowerService) Report(ctx context.Context) (*analysis.Report, error) {
	report, updated := s.repo.GetReport()
	if report == nil || s.now().Sub(updated) > maxReportAge {
		return s.Generate(ctx)
	}
	return report, nil
}

// Refresh drops cached upstream responses and regenerates the report.
func (s *PowerService) Refresh(ctx context.Context) (string, error) {
	s.api.Refresh()
	report, err := s.Generate(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🔄 Rankings regenerated for *%s*: %d teams, %d trade ideas.", report.League.Name, len(report.Rankings), len(report.Trades)), nil
}

func (s *PowerService) ReportJSON(ctx context.Context) ([]byte, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding report: %w", err)
	}
	return data, nil
}

func (s *PowerService) recordRun(status string, seconds float64) {
	if s.metrics != nil {
		s.metrics.RecordPipelineRun(status, seconds)
	}
}

func (s *PowerService) recordPhase(phase string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordPhase(phase, s.now().Sub(start).Seconds())
	}
}
