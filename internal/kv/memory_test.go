package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_FailWrites(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	quota := errors.New("quota exceeded")

	store.Set(ctx, "theme", "dark")
	store.FailWrites(quota)

	if err := store.Set(ctx, "theme", "light"); !errors.Is(err, quota) {
		t.Fatalf("expected quota error, got %v", err)
	}

	value, _, _ := store.Get(ctx, "theme")
	if value != "dark" {
		t.Errorf("expected failed write to leave dark, got %q", value)
	}

	store.FailWrites(nil)
	if err := store.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("expected write to succeed after clearing failure: %v", err)
	}
}

func TestMemoryStore_FailReads(t *testing.T) {
	store := NewMemory()
	unavailable := errors.New("storage unavailable")
	store.FailReads(unavailable)

	if _, _, err := store.Get(context.Background(), "tasks"); !errors.Is(err, unavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "memory", opts: Options{Backend: BackendMemory}},
		{name: "sqlite default driver", opts: Options{Backend: BackendSQLite, DBPath: ":memory:"}},
		{name: "sqlite pure go", opts: Options{Backend: BackendSQLite, Driver: DriverPureGo, DBPath: ":memory:"}},
		{name: "file", opts: Options{Backend: BackendFile, FilePath: dir + "/tasks.yaml"}},
		{name: "unknown", opts: Options{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.opts)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Fatalf("expected ErrUnknownBackend, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			store.Close()
		})
	}
}
