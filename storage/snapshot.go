package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"twitch-stream-lookup/model"
)

const schema = `
create table if not exists helix_snapshots (
  id         bigserial primary key,
  run_id     uuid not null,
  kind       text not null,
  query      text not null,
  page       int not null,
  document   jsonb not null,
  fetched_at timestamptz not null
);`

const insertSnapshot = `
insert into helix_snapshots (
  run_id, kind, query, page, document, fetched_at
) values ($1, $2, $3, $4, $5, $6);`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SnapshotStore записывает полученные документы в Postgres.
type SnapshotStore struct {
	db      execer
	timeout time.Duration
}

// NewSnapshotStore создаёт хранилище поверх пула или соединения pgx.
func NewSnapshotStore(db execer, timeout time.Duration) *SnapshotStore {
	return &SnapshotStore{db: db, timeout: timeout}
}

// EnsureSchema создаёт таблицу снимков, если её нет.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.Exec(dbCtx, schema); err != nil {
		return fmt.Errorf("storage: ensure schema: %w", err)
	}
	return nil
}

// Record сохраняет снимок с учётом заданного таймаута.
func (s *SnapshotStore) Record(ctx context.Context, snap model.Snapshot) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	docJSON, err := json.Marshal(snap.Document)
	if err != nil {
		return fmt.Errorf("storage: encode document: %w", err)
	}

	_, err = s.db.Exec(dbCtx, insertSnapshot,
		snap.RunID, string(snap.Kind), snap.Query, snap.Page, docJSON, snap.FetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: insert snapshot: %w", err)
	}
	return nil
}
