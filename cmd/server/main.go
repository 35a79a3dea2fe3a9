package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/scanvocab/scanvocab/internal/server"
	"github.com/scanvocab/scanvocab/internal/server/jwt"
	"github.com/scanvocab/scanvocab/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

type config struct {
	addr      string
	dbPath    string
	jwtSecret string
	logFile   string
	logLevel  slog.Level
}

func loadConfig() (config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg := config{
		addr:     envOr("SCANVOCAB_ADDR", ":8080"),
		dbPath:   envOr("SCANVOCAB_DB_PATH", "scanvocab-server.db"),
		logFile:  os.Getenv("SCANVOCAB_LOG_FILE"),
		logLevel: slog.LevelInfo,
	}

	cfg.jwtSecret = os.Getenv("SCANVOCAB_JWT_SECRET")
	if cfg.jwtSecret == "" {
		return config{}, errors.New("SCANVOCAB_JWT_SECRET must be set")
	}

	if lvl := os.Getenv("SCANVOCAB_LOG_LEVEL"); lvl != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(lvl)); err != nil {
			return config{}, fmt.Errorf("invalid SCANVOCAB_LOG_LEVEL %q: %w", lvl, err)
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(cfg config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.logFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.logLevel}))
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.New(ctx, cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	tokens := jwt.NewService(cfg.jwtSecret, jwt.DefaultAccessTokenTTL)
	router := server.NewRouter(logger, storage, storage, tokens, server.Config{
		Version:    Version,
		AuthRate:   10,
		AuthWindow: time.Minute,
	})

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func printVersion() {
	fmt.Printf("ScanVocab Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
