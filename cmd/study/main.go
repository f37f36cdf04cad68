package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/logger"
)

func main() {
	cfg := config.LoadClient()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(envOr("LOG_LEVEL", "WARN"))),
		logger.WithOutput(os.Stderr),
		logger.WithPrefix("study"),
	)
	logger.SetDefault(log)

	api := client.New(cfg.BaseURL,
		client.WithToken(cfg.Token),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	cli := &commandLine{
		cfg:    cfg,
		client: api,
		store:  client.NewStore(api),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx = logger.NewContext(ctx, log)

	err := cli.run(ctx, os.Args)
	stop()
	if err != nil {
		if err != errHelp {
			if client.IsUnauthorized(err) {
				log.Error("not logged in or session expired, run: study login")
			} else {
				log.Error("%v", err)
			}
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
