package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avogel/juryvote/internal/app"
	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/config"
	"github.com/avogel/juryvote/internal/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
		appLog.Info("Generated admin password", "password", password)
	}
	secret := cfg.SessionSecret
	if secret == "" {
		// Sessions will not survive a restart without a configured secret
		secret = auth.GenerateToken()
	}
	adminAuth := auth.NewAdmin(password, secret)

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.Info("JuryVote", "version", version, "base_url", cfg.BaseURL)
	if err := a.Run(ctx, cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
