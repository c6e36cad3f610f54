package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

func sampleSession(t *testing.T) *entity.Session {
	t.Helper()

	started := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	session := entity.NewSession("sess-1")
	session.CandidateName = "Dana"
	session.CurrentState = entity.StateActive
	session.StartedAt = &started
	session.UsedQuestionIDs = []string{"react-hooks-1"}
	session.Responses = []entity.Response{
		{
			QuestionID: "react-hooks-1",
			AnswerText: "We used useEffect for subscriptions at my last job.",
			Timestamp:  started.Add(90 * time.Second),
			Evaluation: entity.Evaluation{HasSpecifics: true, Reasoning: "ok"},
		},
	}
	return session
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	session := sampleSession(t)

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load = nil, want session")
	}

	if got.CandidateName != session.CandidateName || got.CurrentState != session.CurrentState {
		t.Errorf("loaded session = %+v, want fields preserved", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(*session.StartedAt) {
		t.Errorf("StartedAt = %v, want %v rehydrated", got.StartedAt, session.StartedAt)
	}
	if len(got.Responses) != 1 || !got.Responses[0].Timestamp.Equal(session.Responses[0].Timestamp) {
		t.Errorf("response timestamps not rehydrated: %+v", got.Responses)
	}
}

func TestFileStoreRotatesBackup(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	session := sampleSession(t)
	session.CandidateName = "first"
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	session.CandidateName = "second"
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	current, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if current.CandidateName != "second" {
		t.Errorf("current CandidateName = %q, want latest snapshot", current.CandidateName)
	}

	backup, err := store.LoadBackup(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadBackup: %v", err)
	}
	if backup == nil || backup.CandidateName != "first" {
		t.Errorf("backup = %+v, want the previous snapshot", backup)
	}
}

func TestFileStoreCorruptSnapshotIsAbsent(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	path := filepath.Join(store.dir, "broken"+snapshotExt)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	got, err := store.Load(ctx, "broken")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil for corrupt snapshot", got)
	}
}

func TestFileStoreMissingIsAbsent(t *testing.T) {
	store := newTestFileStore(t)

	got, err := store.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil for missing snapshot", got)
	}
}

func TestFileStoreClearAndHas(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	session := sampleSession(t)

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if has, _ := store.Has(ctx, session.ID); !has {
		t.Fatal("Has = false after Save")
	}

	if err := store.Clear(ctx, session.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if has, _ := store.Has(ctx, session.ID); has {
		t.Error("Has = true after Clear")
	}
	if backup, _ := store.LoadBackup(ctx, session.ID); backup != nil {
		t.Error("backup survived Clear")
	}
}
