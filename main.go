package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pairscreen/config"
	"pairscreen/logger"
	"pairscreen/models"
	"pairscreen/provider"
	"pairscreen/provider/binance"
	"pairscreen/provider/yahoo"
	"pairscreen/screener"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	outputPath := flag.String("output", "", "Write batch result JSON to this file instead of stdout")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Pairscreen.Name,
		"version": cfg.Pairscreen.Version,
	}).Info("starting pairscreen")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	// A batch is finite; a signal cancels in-flight fetches and the run
	// ends with whatever pairs completed.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
		cancel()
	}()

	p, err := newProvider(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to create price provider")
		os.Exit(1)
	}

	s, err := screener.New(cfg, p)
	if err != nil {
		log.WithError(err).Error("Failed to create screener")
		os.Exit(1)
	}

	batch := s.Run(ctx)

	if err := writeResult(batch, *outputPath); err != nil {
		log.WithError(err).Error("Failed to write batch result")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{"batch_id": batch.BatchID}).Info("pairscreen finished")
}

func newProvider(cfg *config.Config) (provider.PriceSeriesProvider, error) {
	switch strings.ToLower(cfg.Provider.Name) {
	case "", "yahoo":
		return yahoo.NewClient(cfg), nil
	case "binance":
		return binance.NewClient(cfg), nil
	default:
		return nil, &unknownProviderError{name: cfg.Provider.Name}
	}
}

type unknownProviderError struct {
	name string
}

func (e *unknownProviderError) Error() string {
	return "unknown provider '" + e.name + "' (expected yahoo or binance)"
}

func writeResult(batch *models.BatchResult, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(batch)
}
