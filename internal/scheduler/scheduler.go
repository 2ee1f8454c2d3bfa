package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/powerbot/internal/config"
)

// Service is the part of the power service the scheduled job drives.
type Service interface {
	Refresh(ctx context.Context) (string, error)
	PowerRankings(ctx context.Context) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	service     Service
	sendMessage func(string) error
	expr        string
	schedule    cron.Schedule
	location    *time.Location
}

func NewScheduler(cfg config.Schedule, service Service, sendMessage func(string) error) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid regenerate schedule %q: %w", cfg.Cron, err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		service:     service,
		sendMessage: sendMessage,
		expr:        cfg.Cron,
		schedule:    schedule,
		location:    location,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.expr, false),
		gocron.NewTask(s.regenerate),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create regenerate job: %w", err)
	}

	slog.Info("Scheduled power rankings", "cron", s.expr, "next_run", s.NextRun(time.Now()))
	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// NextRun returns the first scheduled regeneration after t in the scheduler's
// location.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

func (s *Scheduler) regenerate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.service.Refresh(ctx); err != nil {
		slog.Error("Failed to regenerate power rankings", "error", err)
		return
	}

	rankings, err := s.service.PowerRankings(ctx)
	if err != nil {
		slog.Error("Failed to get power rankings", "error", err)
		return
	}
	if s.sendMessage == nil {
		return
	}
	if err := s.sendMessage(rankings); err != nil {
		slog.Error("Failed to send power rankings", "error", err)
	}
}
