package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scanvocab/scanvocab/internal/client/api"
	"github.com/scanvocab/scanvocab/internal/client/auth"
	"github.com/scanvocab/scanvocab/internal/client/cli"
	"github.com/scanvocab/scanvocab/internal/client/iocli"
	"github.com/scanvocab/scanvocab/internal/client/progress"
	"github.com/scanvocab/scanvocab/internal/client/storage/boltdb"
	"github.com/scanvocab/scanvocab/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "scanvocab-client.db", "Path to local database")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	if err := run(args[0], args[1:], *serverURL, *dbPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, serverURL, dbPath string, verbose bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	boltStorage, err := boltdb.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// The token source reads the stored session on every request, so a
	// fresh login is picked up without rebuilding the client.
	apiClient := api.NewClient(serverURL, func() string {
		session, err := boltStorage.GetSession(ctx)
		if err != nil {
			return ""
		}
		return session.AccessToken
	})

	syncService := sync.NewService(boltStorage, apiClient, boltStorage, boltStorage, boltStorage, logger)
	scheduler := sync.NewScheduler(syncService, apiClient, logger)

	cache := progress.NewCache(progress.DefaultCacheTTL, time.Now)
	progressService := progress.NewService(boltStorage, boltStorage, syncService, cache, logger)
	authService := auth.NewService(apiClient, boltStorage, boltStorage, progressService, logger)

	c := cli.New(iocli.NewStdio(), authService, progressService, syncService, apiClient, scheduler)
	return c.Run(ctx, command, args)
}

func printVersion() {
	fmt.Printf("ScanVocab Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
