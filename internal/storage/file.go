package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

const (
	snapshotExt = ".json"
	backupExt   = ".json.bak"
)

// FileStore keeps one JSON snapshot file per session under a directory,
// with the previous snapshot rotated to a .bak file on every save.
type FileStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger, now: time.Now}, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.dir, id+snapshotExt)
}

func (s *FileStore) backupPath(id string) string {
	return filepath.Join(s.dir, id+backupExt)
}

// Save rotates the current snapshot to the backup file, then writes the new
// snapshot atomically via a temp file and rename.
func (s *FileStore) Save(ctx context.Context, session *entity.Session) error {
	data, err := encodeSnapshot(session, s.now())
	if err != nil {
		return err
	}

	current := s.snapshotPath(session.ID)
	if _, statErr := os.Stat(current); statErr == nil {
		if err := os.Rename(current, s.backupPath(session.ID)); err != nil {
			return fmt.Errorf("rotate snapshot to backup: %w", err)
		}
	}

	tmp, err := os.CreateTemp(s.dir, session.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, current); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish snapshot: %w", err)
	}

	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadFrom(s.snapshotPath(id), id)
}

func (s *FileStore) LoadBackup(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadFrom(s.backupPath(id), id)
}

func (s *FileStore) loadFrom(path, id string) (*entity.Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	session := decodeSnapshot(data)
	if session == nil {
		s.logger.Warn("discarding unreadable session snapshot",
			zap.String("session_id", id),
			zap.String("path", path),
		)
		return nil, nil
	}
	return session, nil
}

func (s *FileStore) Clear(ctx context.Context, id string) error {
	for _, path := range []string{s.snapshotPath(id), s.backupPath(id)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}
	return nil
}

func (s *FileStore) Has(ctx context.Context, id string) (bool, error) {
	_, err := os.Stat(s.snapshotPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat snapshot: %w", err)
	}
	return true, nil
}

func (s *FileStore) Close() error {
	return nil
}
