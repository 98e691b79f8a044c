package dialog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bdobrica/Selah/internal/selah/ref"
)

// Status is the lifecycle state of a pending dialog.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusDeclined   Status = "declined"
	StatusExpired    Status = "expired"
	StatusSuperseded Status = "superseded"
)

// DefaultTTL is how long a confirmation stays answerable before the sweep
// expires it.
const DefaultTTL = 10 * time.Minute

// State is one pending confirmation, scoped to a (room, sender) pair. It is
// created when citations are detected conversationally and destroyed once a
// terminal outcome is reached or the TTL passes.
type State struct {
	ID        string
	RoomID    string
	Sender    string
	Citations []ref.Citation
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Plural reports whether the confirmation covers more than one citation.
func (s *State) Plural() bool {
	return len(s.Citations) > 1
}

// Store persists pending dialogs in SQLite so a confirmation survives
// between inbound events (and process restarts).
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore creates a dialog Store backed by the given database. ttl controls
// how long a pending confirmation remains answerable; pass 0 for DefaultTTL.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl}
}

// Begin opens a new pending dialog for the (room, sender) pair, superseding
// any confirmation already pending for the same pair.
func (s *Store) Begin(ctx context.Context, roomID, sender string, cits []ref.Citation) (*State, error) {
	citsJSON, err := json.Marshal(cits)
	if err != nil {
		return nil, fmt.Errorf("serialize citations: %w", err)
	}

	now := time.Now()
	st := &State{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		Sender:    sender,
		Citations: cits,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin dialog tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE pending_dialogs SET status = ?
		WHERE room_id = ? AND sender = ? AND status = ?
	`, StatusSuperseded, roomID, sender, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("supersede pending dialog: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pending_dialogs (id, room_id, sender, citations_json, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, st.ID, roomID, sender, string(citsJSON), StatusPending, st.CreatedAt, st.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("create pending dialog: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit pending dialog: %w", err)
	}
	return st, nil
}

// Pending returns the open dialog for the (room, sender) pair, or (nil, nil)
// when there is none that is still within its TTL.
func (s *Store) Pending(ctx context.Context, roomID, sender string) (*State, error) {
	st := &State{RoomID: roomID, Sender: sender}
	var citsJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, citations_json, created_at, expires_at
		FROM pending_dialogs
		WHERE room_id = ? AND sender = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT 1
	`, roomID, sender, StatusPending, time.Now()).Scan(&st.ID, &citsJSON, &st.CreatedAt, &st.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pending dialog: %w", err)
	}

	if err := json.Unmarshal([]byte(citsJSON), &st.Citations); err != nil {
		return nil, fmt.Errorf("decode pending citations: %w", err)
	}
	return st, nil
}

// Resolve marks a dialog with its terminal status.
func (s *Store) Resolve(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_dialogs SET status = ? WHERE id = ? AND status = ?
	`, status, id, StatusPending)
	if err != nil {
		return fmt.Errorf("resolve dialog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve dialog: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dialog %s is not pending", id)
	}
	return nil
}

// ExpireStale marks every pending dialog past its deadline as expired and
// returns the count. Called periodically from the app's sweep loop.
func (s *Store) ExpireStale(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_dialogs SET status = ?
		WHERE status = ? AND expires_at <= ?
	`, StatusExpired, StatusPending, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expire stale dialogs: %w", err)
	}
	return res.RowsAffected()
}
