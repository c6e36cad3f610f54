package storage

import (
	"context"
	"testing"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

func TestAutosaverFlushesAfterDebounce(t *testing.T) {
	store := NewMemoryStore()
	saver := NewAutosaver(store, time.Hour, 10*time.Millisecond, zap.NewNop())
	saver.Start()
	defer saver.Stop(context.Background())

	session := sampleSession(t)
	saver.Notify(session)

	deadline := time.After(2 * time.Second)
	for {
		if has, _ := store.Has(context.Background(), session.ID); has {
			break
		}
		select {
		case <-deadline:
			t.Fatal("snapshot never flushed after debounce")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAutosaverSkipsLandingSessions(t *testing.T) {
	store := NewMemoryStore()
	saver := NewAutosaver(store, time.Hour, 5*time.Millisecond, zap.NewNop())
	saver.Start()

	session := sampleSession(t)
	session.CurrentState = entity.StateLanding
	saver.Notify(session)

	time.Sleep(50 * time.Millisecond)
	saver.Stop(context.Background())

	if has, _ := store.Has(context.Background(), session.ID); has {
		t.Error("landing session was persisted")
	}
}

func TestAutosaverStopFlushesPending(t *testing.T) {
	store := NewMemoryStore()
	saver := NewAutosaver(store, time.Hour, time.Hour, zap.NewNop())
	saver.Start()

	session := sampleSession(t)
	saver.Notify(session)
	saver.Stop(context.Background())

	if has, _ := store.Has(context.Background(), session.ID); !has {
		t.Error("pending snapshot lost on Stop")
	}
}

func TestAutosaverNotifyClonesSession(t *testing.T) {
	store := NewMemoryStore()
	saver := NewAutosaver(store, time.Hour, time.Hour, zap.NewNop())
	saver.Start()

	session := sampleSession(t)
	saver.Notify(session)
	session.CandidateName = "mutated after notify"
	saver.Stop(context.Background())

	got, err := store.Load(context.Background(), session.ID)
	if err != nil || got == nil {
		t.Fatalf("Load = %+v, %v", got, err)
	}
	if got.CandidateName == "mutated after notify" {
		t.Error("autosaver persisted a session mutated after Notify")
	}
}
