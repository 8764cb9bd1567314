package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/roadwatch/internal/adapters/nats"
	"github.com/samirrijal/roadwatch/internal/adapters/sheets"
	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/pkg/config"
	"github.com/samirrijal/roadwatch/internal/pkg/logging"
)

// The exporter mirrors accepted submissions into the shared spreadsheet.
// It consumes the durable SUBMISSIONS stream, so the API keeps accepting
// reports while the spreadsheet is unreachable and the backlog drains later.
func main() {
	cfg, err := config.Load("roadwatch-exporter")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("roadwatch-exporter", logLevel, "json")

	if cfg.Sheets.SpreadsheetID == "" {
		log.Fatal("sheets.spreadsheet_id is required for the exporter")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appender, err := sheets.New(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}

	if err := appender.EnsureHeader(ctx); err != nil {
		log.Fatalf("ensure header: %v", err)
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeSubmissions(ctx, func(ctx context.Context, s *domain.Submission) error {
		if err := appender.Append(ctx, s.Row()); err != nil {
			slog.Error("append failed, will retry", "id", s.ID, "error", err)
			return err
		}
		slog.Info("mirrored submission", "id", s.ID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("exporter started", "spreadsheet", cfg.Sheets.SpreadsheetID, "sheet", cfg.Sheets.SheetName)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
	cancel()
	// Give an in-flight append time to finish before draining
	time.Sleep(2 * time.Second)
}
