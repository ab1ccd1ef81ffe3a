package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/authd/internal/config"
	"github.com/iudanet/authd/internal/server"
	"github.com/iudanet/authd/internal/server/auth"
	"github.com/iudanet/authd/internal/server/handlers"
	"github.com/iudanet/authd/internal/server/hasher"
	"github.com/iudanet/authd/internal/server/mail"
	"github.com/iudanet/authd/internal/server/storage"
	"github.com/iudanet/authd/internal/server/storage/boltdb"
	"github.com/iudanet/authd/internal/server/storage/sqlite"
	"github.com/iudanet/authd/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store interface {
		storage.AccountStorage
		Close() error
	}

	switch cfg.StorageDriver {
	case config.DriverBolt:
		store, err = boltdb.New(ctx, cfg.DatabasePath)
	default:
		store, err = sqlite.New(ctx, cfg.DatabasePath)
	}
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	mailer := mail.NewClient(mail.ClientConfig{
		Endpoint:    cfg.MailEndpoint,
		Token:       cfg.MailToken,
		SenderEmail: cfg.MailSenderEmail,
		SenderName:  cfg.MailSenderName,
	})

	service := auth.NewService(logger, store, hasher.NewBcrypt(0), mailer, auth.Config{
		VerificationTTL: cfg.VerificationTTL,
		ResetTTL:        cfg.ResetTTL,
		AppURL:          cfg.AppURL,
	})

	tokenCfg := token.Config{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.SessionTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, service, tokenCfg, cfg.IsProduction())
	healthHandler := handlers.NewHealthHandler(logger, Version)

	srv := server.New(logger, cfg.Addr, authHandler, healthHandler, tokenCfg)

	logger.Info("starting authd",
		slog.String("version", Version),
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StorageDriver))

	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("Authd Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
