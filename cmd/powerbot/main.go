package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/powerbot/internal/api/espn"
	"github.com/omarshaarawi/powerbot/internal/api/fantasy"
	"github.com/omarshaarawi/powerbot/internal/api/market"
	"github.com/omarshaarawi/powerbot/internal/bot"
	"github.com/omarshaarawi/powerbot/internal/config"
	"github.com/omarshaarawi/powerbot/internal/observability"
	"github.com/omarshaarawi/powerbot/internal/repository/memory"
	"github.com/omarshaarawi/powerbot/internal/scheduler"
	"github.com/omarshaarawi/powerbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	once := flag.Bool("once", false, "generate one report, print it as JSON and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	metrics := observability.NewMetrics("powerbot")

	espnClient := espn.NewClient(cfg.ESPNAPI, espn.WithRecorder(metrics))
	espnAPI := espn.NewAPI(espnClient)
	marketClient := market.NewClient(cfg.Market, metrics)
	fantasyAPI := fantasy.NewAPI(espnAPI, marketClient, cfg.Engine.Type())

	repo := memory.NewRepository()
	powerService := service.NewPowerService(fantasyAPI, repo, cfg.Engine.Rules(), metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		data, err := powerService.ReportJSON(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	var sendMessage func(string) error
	if cfg.BotEnabled() {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, powerService)
		if err != nil {
			return err
		}
		sendMessage = telegramBot.SendMessage

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("Telegram not configured, running without bot")
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule, powerService, sendMessage)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", healthCheckHandler)
	mux.HandleFunc("/report", reportHandler(powerService))
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func reportHandler(svc *service.PowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.ReportJSON(r.Context())
		if err != nil {
			slog.Error("Error building report", "error", err)
			http.Error(w, "report unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			slog.Error("Error writing report", "error", err)
		}
	}
}
