package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/ludonova/internal/client/api"
	"github.com/iudanet/ludonova/internal/client/auth"
	"github.com/iudanet/ludonova/internal/client/cli"
	"github.com/iudanet/ludonova/internal/client/iocli"
	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/internal/client/storage"
	"github.com/iudanet/ludonova/internal/client/storage/boltdb"
	"github.com/iudanet/ludonova/internal/config"
	"github.com/iudanet/ludonova/internal/logger"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Глобальные флаги, переопределяют переменные окружения
	showVersion := flag.Bool("version", false, "Show version information")
	flag.StringVar(&cfg.API.URL, "server", cfg.API.URL, "API base URL")
	flag.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "Path to local session database")
	flag.StringVar(&cfg.Env, "env", cfg.Env, "Environment: development or production")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.API.InsecureTLS, "insecure", cfg.API.InsecureTLS, "Skip TLS certificate verification (development only)")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		_ = cli.New(stdio, nil, nil, log.Logger).PrintUsage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	store := session.NewStore(boltStorage, session.Options{
		SameSite: storage.SameSiteLax,
		TTL:      cfg.Session.TTL,
		Secure:   cfg.SecureCookies(),
	}, log.Logger)

	if cfg.Session.Passphrase != "" {
		if err := store.EnableEncryption(ctx, boltStorage, cfg.Session.Passphrase); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to unlock session store: %v\n", err)
			return 1
		}
	}

	apiClient := api.NewClient(api.Config{
		BaseURL:              cfg.API.URL,
		LoginRoute:           cfg.API.LoginRoute,
		UnauthenticatedPaths: cfg.API.UnauthenticatedPaths,
		Timeout:              cfg.API.Timeout,
		RefreshTimeout:       cfg.API.RefreshTimeout,
		InsecureSkipVerify:   cfg.InsecureTLS(),
	}, store, cli.NewLoginNotice(stdio), log.Logger)

	authService := auth.NewAuthService(apiClient, store, log.Logger)

	// Выполняем команду
	app := cli.New(stdio, authService, apiClient, log.Logger)
	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func printVersion() {
	fmt.Printf("LudoNova Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
