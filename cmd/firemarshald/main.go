package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vsinha/firemarshal/pkg/application/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
	"github.com/vsinha/firemarshal/pkg/infrastructure/config"
	"github.com/vsinha/firemarshal/pkg/infrastructure/events"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
	"github.com/vsinha/firemarshal/pkg/interfaces/api"
)

func main() {
	fs := config.NewDaemonFlagSet("firemarshald")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	settings, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if settings.GetBool(config.KeyHelp) {
		fmt.Println("Usage: firemarshald [flags]")
		fmt.Println()
		fs.PrintDefaults()
		return
	}

	logger := logging.New(settings.GetInt(config.KeyLogLevel))

	evaluator, err := advisories.Load(settings.GetString(config.KeyRules))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	journalSize := settings.GetInt(config.KeyJournalSize)
	if journalSize < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s must be at least 1, got %d\n", config.KeyJournalSize, journalSize)
		os.Exit(1)
	}
	journal := events.NewInMemoryEventStore(journalSize)

	service := services.NewBurnServiceWithConfig(services.ServiceConfig{
		Advisories: evaluator,
		Journal:    journal,
		Logger:     logger,
	})

	addr := settings.GetString(config.KeyListen)
	srv := api.NewServer(addr, service, journal, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("starting server on %s (rules %s, journal %d)", addr, evaluator.Version(), journalSize)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server listen error: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
		os.Exit(1)
	}

	logger.Infof("server stopped")
}
