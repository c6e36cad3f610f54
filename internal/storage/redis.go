package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix    = "interview:session:"
	redisBackupSuffix = ":backup"
)

// RedisStore keeps the current snapshot and its backup under separate keys.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger, now: time.Now}
}

func sessionKey(id string) string {
	return redisKeyPrefix + id
}

func backupKey(id string) string {
	return sessionKey(id) + redisBackupSuffix
}

// Save rotates the current snapshot to the backup key and writes the new
// one. The rotation and the write go through one transactional pipeline so
// readers never see a half-rotated pair.
func (s *RedisStore) Save(ctx context.Context, session *entity.Session) error {
	data, err := encodeSnapshot(session, s.now())
	if err != nil {
		return err
	}

	key := sessionKey(session.ID)
	prev, err := s.client.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("read previous snapshot: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(prev) > 0 {
			pipe.Set(ctx, backupKey(session.ID), prev, 0)
		}
		pipe.Set(ctx, key, data, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadKey(ctx, id, sessionKey(id))
}

func (s *RedisStore) LoadBackup(ctx context.Context, id string) (*entity.Session, error) {
	return s.loadKey(ctx, id, backupKey(id))
}

func (s *RedisStore) loadKey(ctx context.Context, id, key string) (*entity.Session, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}

	session := decodeSnapshot(data)
	if session == nil {
		s.logger.Warn("discarding unreadable session snapshot",
			zap.String("session_id", id),
			zap.String("key", key),
		)
		return nil, nil
	}
	return session, nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), backupKey(id)).Err(); err != nil {
		return fmt.Errorf("clear session snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Has(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check session snapshot: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
