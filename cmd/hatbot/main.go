package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/hatbot/internal/bot"
	"github.com/fadedpez/hatbot/internal/config"
	"github.com/fadedpez/hatbot/internal/discord"
	"github.com/fadedpez/hatbot/internal/health"
	"github.com/fadedpez/hatbot/internal/logging"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("hatbot: %v", err)
	}
}

// options are the command line overrides
type options struct {
	envFile string
	storage string
	logFile string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}

	flagSet := pflag.NewFlagSet("hatbot", pflag.ContinueOnError)
	flagSet.StringVar(&opts.envFile, "env-file", ".env", "path to a .env file (ignored if missing)")
	flagSet.StringVar(&opts.storage, "storage", "", "storage backend: file, memory, sqlite or elasticsearch (overrides STORAGE_TYPE)")
	flagSet.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if opts.storage != "" {
		os.Setenv("STORAGE_TYPE", opts.storage)
	}

	// Load configuration
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg, opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.StorageType, err)
	}
	defer store.Close()

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Create and initialize bot
	hatBot, err := bot.New(cfg, session, store, logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// Start the bot
	if err := hatBot.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	var healthServer *health.Server
	if cfg.HealthAddr != "" {
		healthServer = health.NewServer(cfg.HealthAddr, hatBot.Transactor(), logger)
		healthServer.Start()
	}

	logger.Info("Bot is now running with %s storage. Press CTRL-C to exit.", cfg.StorageType)

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	// Cleanup and exit
	logger.Info("Shutting down...")
	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error stopping health server: %v", err)
		}
	}
	hatBot.Shutdown()
	return nil
}

// newLogger builds the process logger from LOG_LEVEL and the optional log file
func newLogger(cfg *config.Config, logFile string) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("%v, using %s", err, level)
	}

	if logFile == "" {
		logger := logging.NewLogger(level, nil)
		return logger, logger.Close, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := logging.NewLogger(level, f)
	return logger, func() {
		logger.Close()
		f.Close()
	}, nil
}
