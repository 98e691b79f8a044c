package matrix

// syncstore.go implements mautrix.SyncStore backed by the Selah SQLite
// database. Persisting the next_batch token across restarts keeps the bot
// from replaying old room history and re-answering messages it already
// handled in a previous run.

import (
	"context"
	"database/sql"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

var _ mautrix.SyncStore = (*syncStore)(nil)

// syncStore stores each sync value as a row in matrix_sync_state keyed by
// (user_id, key).
type syncStore struct {
	db *sql.DB
}

func newSyncStore(db *sql.DB) *syncStore {
	return &syncStore{db: db}
}

func (s *syncStore) SaveFilterID(ctx context.Context, userID id.UserID, filterID string) error {
	return s.save(ctx, userID.String(), "filter_id", filterID)
}

func (s *syncStore) LoadFilterID(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID.String(), "filter_id")
}

func (s *syncStore) SaveNextBatch(ctx context.Context, userID id.UserID, nextBatchToken string) error {
	return s.save(ctx, userID.String(), "next_batch", nextBatchToken)
}

func (s *syncStore) LoadNextBatch(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID.String(), "next_batch")
}

func (s *syncStore) save(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matrix_sync_state (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value
	`, userID, key, value)
	return err
}

// load returns ("", nil) when the row is missing (first run).
func (s *syncStore) load(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM matrix_sync_state WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
