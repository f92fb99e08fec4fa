package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"twitch-stream-lookup/auth"
	"twitch-stream-lookup/config"
	"twitch-stream-lookup/secrets"
	"twitch-stream-lookup/tokens"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "app" {
		fmt.Fprintln(os.Stderr, "usage: twitch-auth app")
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	provider, err := secrets.NewEnvProvider(os.Getenv("SECRETS_FILE"))
	if err != nil {
		log.Fatalf("secrets: %v", err)
	}

	cfg, err := config.Load(ctx, provider)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	var opts []auth.Option
	if cfg.Twitch.TraceFile != "" {
		opts = append(opts, auth.WithTracer(tokens.FileTracer{Path: cfg.Twitch.TraceFile}))
	}

	token, err := auth.NewProvider(cfg.Twitch, opts...).Token(ctx)
	if err != nil {
		log.Fatalf("get app token: %v", err)
	}

	fmt.Printf("ok, %s, expires at %s\n", token, token.ExpiresAt().Format(time.RFC3339))
}
