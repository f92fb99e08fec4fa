package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"twitch-stream-lookup/model"
)

// Lookup — операции ресурсного клиента Helix, нужные сервису.
type Lookup interface {
	LookupUser(ctx context.Context, login string) (model.User, error)
	Channel(ctx context.Context, broadcasterID string) (model.Document, error)
	Streams(ctx context.Context, login string) ([]model.Document, error)
}

// Recorder сохраняет полученные документы.
type Recorder interface {
	Record(ctx context.Context, snap model.Snapshot) error
}

// Service выполняет запросы и печатает документы в out.
type Service struct {
	client   Lookup
	out      io.Writer
	recorder Recorder
	runID    uuid.UUID
	now      func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithRecorder включает запись снимков.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithRunID задаёт идентификатор запуска вместо случайного.
func WithRunID(id uuid.UUID) Option {
	return func(s *Service) { s.runID = id }
}

// New создаёт Service с уже собранным клиентом.
func New(client Lookup, out io.Writer, opts ...Option) *Service {
	s := &Service{
		client: client,
		out:    out,
		runID:  uuid.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID возвращает идентификатор текущего запуска.
func (s *Service) RunID() uuid.UUID {
	return s.runID
}

// Stream печатает все полученные страницы трансляций пользователя.
func (s *Service) Stream(ctx context.Context, login string) error {
	pages, err := s.client.Streams(ctx, login)
	if err != nil {
		return fmt.Errorf("stream %s: %w", login, err)
	}

	if len(pages) > 0 {
		switch cursor, _ := pages[len(pages)-1].Cursor(); {
		case cursor != "":
			slog.Info("page limit reached, more pages available",
				slog.String("login", login),
				slog.Int("pages", len(pages)),
			)
		case len(pages) == 1:
			slog.Info("no further pages", slog.String("login", login))
		}
	}

	for i, page := range pages {
		if err := s.emit(ctx, model.KindStream, login, i+1, page); err != nil {
			return err
		}
	}
	return nil
}

// User печатает ответ /users и возвращает id пользователя.
func (s *Service) User(ctx context.Context, login string) (string, error) {
	user, err := s.client.LookupUser(ctx, login)
	if err != nil {
		return "", fmt.Errorf("user %s: %w", login, err)
	}

	if err := s.emit(ctx, model.KindUser, login, 1, user.Document); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Channel находит id пользователя по логину и печатает его канал.
func (s *Service) Channel(ctx context.Context, login string) error {
	broadcasterID, err := s.User(ctx, login)
	if err != nil {
		return err
	}

	doc, err := s.client.Channel(ctx, broadcasterID)
	if err != nil {
		return fmt.Errorf("channel %s: %w", broadcasterID, err)
	}

	return s.emit(ctx, model.KindChannel, broadcasterID, 1, doc)
}

func (s *Service) emit(ctx context.Context, kind model.Kind, query string, page int, doc model.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s document: %w", kind, err)
	}
	if _, err := fmt.Fprintln(s.out, string(data)); err != nil {
		return fmt.Errorf("write %s document: %w", kind, err)
	}

	if s.recorder == nil {
		return nil
	}

	snap := model.Snapshot{
		RunID:     s.runID,
		Kind:      kind,
		Query:     query,
		Page:      page,
		Document:  doc,
		FetchedAt: s.now(),
	}
	if err := s.recorder.Record(ctx, snap); err != nil {
		slog.Warn("snapshot not recorded",
			slog.String("kind", string(kind)),
			slog.String("query", query),
			slog.Any("error", err),
		)
	}
	return nil
}
