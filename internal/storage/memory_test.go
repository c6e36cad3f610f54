package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreRotatesBackup(t *testing.T) {
	store := NewMemoryStore()
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
	if err != nil || current == nil {
		t.Fatalf("Load = %+v, %v", current, err)
	}
	if current.CandidateName != "second" {
		t.Errorf("current = %q, want latest snapshot", current.CandidateName)
	}

	backup, err := store.LoadBackup(ctx, session.ID)
	if err != nil || backup == nil {
		t.Fatalf("LoadBackup = %+v, %v", backup, err)
	}
	if backup.CandidateName != "first" {
		t.Errorf("backup = %q, want previous snapshot", backup.CandidateName)
	}

	if err := store.Clear(ctx, session.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if has, _ := store.Has(ctx, session.ID); has {
		t.Error("Has = true after Clear")
	}
}
