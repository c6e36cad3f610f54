package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

// PostgresStore keeps snapshots in a sessions table, one row per session
// with the current snapshot and the previous one side by side. The rotation
// happens inside the upsert so it stays atomic.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger, now: time.Now}
}

func (s *PostgresStore) Save(ctx context.Context, session *entity.Session) error {
	data, err := encodeSnapshot(session, s.now())
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO sessions (id, snapshot, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET backup   = sessions.snapshot,
		    snapshot = EXCLUDED.snapshot,
		    saved_at = EXCLUDED.saved_at`

	if _, err := s.db.Exec(ctx, query, session.ID, data, s.now().UTC()); err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadColumn(ctx, id, "snapshot")
}

func (s *PostgresStore) LoadBackup(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadColumn(ctx, id, "backup")
}

func (s *PostgresStore) loadColumn(ctx context.Context, id, column string) (*entity.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, column)

	var data []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	session := decodeSnapshot(data)
	if session == nil {
		s.logger.Warn("discarding unreadable session snapshot",
			zap.String("session_id", id),
			zap.String("column", column),
		)
		return nil, nil
	}
	return session, nil
}

func (s *PostgresStore) Clear(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("clear session snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check session snapshot: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
