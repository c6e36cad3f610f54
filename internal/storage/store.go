package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

// Store persists interview session snapshots. Every Save keeps the previous
// snapshot as a backup so one bad write never loses the whole interview.
// Load treats a missing or unreadable snapshot as absence, never as a hard
// failure: the interview simply starts fresh.
type Store interface {
	Save(ctx context.Context, session *entity.Session) error
	Load(ctx context.Context, id string) (*entity.Session, error)
	LoadBackup(ctx context.Context, id string) (*entity.Session, error)
	Clear(ctx context.Context, id string) error
	Has(ctx context.Context, id string) (bool, error)
	Close() error
}

// envelope is the on-disk/on-wire snapshot format.
type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Session *entity.Session `json:"session"`
}

func encodeSnapshot(session *entity.Session, now time.Time) ([]byte, error) {
	data, err := json.Marshal(envelope{SavedAt: now.UTC(), Session: session})
	if err != nil {
		return nil, fmt.Errorf("encode session snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot returns (nil, nil) for corrupt payloads so callers fall
// back to a fresh session.
func decodeSnapshot(data []byte) *entity.Session {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if env.Session == nil || env.Session.ID == "" {
		return nil
	}
	return env.Session
}
