package main

import (
	"os"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithOutput(os.Stderr),
		logger.WithPrefix("admin"),
	)
	logger.SetDefault(log)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}

	// Tokens are never issued here; the manager only satisfies the service.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	cli := &commandLine{
		db:    database.DB,
		users: services.NewAuthService(sqlite.NewUserRepository(database.DB), tokens),
		out:   os.Stdout,
	}

	err = cli.run(os.Args)
	database.Close()
	if err != nil {
		if err != errHelp {
			log.Error("%v", err)
		}
		os.Exit(1)
	}
}
