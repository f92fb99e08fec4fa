package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"twitch-stream-lookup/auth"
	"twitch-stream-lookup/config"
	"twitch-stream-lookup/secrets"
	"twitch-stream-lookup/service"
	"twitch-stream-lookup/storage"
	"twitch-stream-lookup/tokens"
	"twitch-stream-lookup/twitch"
)

const storageTimeout = 5 * time.Second

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(cmd); err != nil {
		log.Fatalf("stream-lookup: %v", err)
	}
}

func run(cmd command) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	provider, err := secrets.NewEnvProvider(os.Getenv("SECRETS_FILE"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx, provider)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	login, err := resolveLogin(cmd, cfg.Twitch)
	if err != nil {
		return err
	}

	var authOpts []auth.Option
	if cfg.Twitch.TraceFile != "" {
		authOpts = append(authOpts, auth.WithTracer(tokens.FileTracer{Path: cfg.Twitch.TraceFile}))
	}

	token, err := auth.NewProvider(cfg.Twitch, authOpts...).Token(ctx)
	if err != nil {
		return err
	}
	slog.Info("authenticated", slog.Any("token", token))

	var svcOpts []service.Option
	if cfg.Postgres.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return fmt.Errorf("pgxpool.New: %w", err)
		}
		defer pool.Close()

		svcOpts = recorderOptions(ctx, storage.NewSnapshotStore(pool, storageTimeout))
	}

	srv := service.New(twitch.NewClient(cfg.Twitch, token), os.Stdout, svcOpts...)
	slog.Debug("run started", slog.String("run_id", srv.RunID().String()), slog.String("command", cmd.name))

	switch cmd.name {
	case cmdUser:
		_, err = srv.User(ctx, login)
	case cmdChannel:
		err = srv.Channel(ctx, login)
	default:
		err = srv.Stream(ctx, login)
	}
	return err
}

// resolveLogin берёт логин из аргумента, иначе из TWITCH_LOGIN.
func resolveLogin(cmd command, cfg config.TwitchConfig) (string, error) {
	login := strings.TrimSpace(cmd.login)
	if login == "" {
		login = strings.TrimSpace(cfg.Login)
	}
	if login == "" {
		return "", fmt.Errorf("требуется логин: аргумент или TWITCH_LOGIN")
	}
	return login, nil
}

type schemaRecorder interface {
	service.Recorder
	EnsureSchema(ctx context.Context) error
}

// recorderOptions включает запись снимков, только если схема доступна.
// Недоступная база не мешает самому запросу.
func recorderOptions(ctx context.Context, store schemaRecorder) []service.Option {
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Warn("snapshot recording disabled", slog.Any("error", err))
		return nil
	}
	return []service.Option{service.WithRecorder(store)}
}
