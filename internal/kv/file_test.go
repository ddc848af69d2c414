package kv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tasklist.yaml")
	ctx := context.Background()

	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := store.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "tasks", `[{"id":"a","text":"buy milk"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	value, ok, err := reopened.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("expected tasks key, ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"a","text":"buy milk"}]` {
		t.Errorf("unexpected value %q", value)
	}

	theme, _, _ := reopened.Get(ctx, "theme")
	if theme != "dark" {
		t.Errorf("expected dark, got %q", theme)
	}
}

func TestFileStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	ctx := context.Background()

	store, _ := OpenFile(path)
	store.Set(ctx, "theme", "dark")

	if err := store.Delete(ctx, "theme"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if strings.Contains(string(data), "dark") {
		t.Errorf("expected theme to be removed from file, got %q", data)
	}
}

func TestOpenFile_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	if err := os.WriteFile(path, []byte("tasks: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpenFile_EmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := store.Set(context.Background(), "theme", "light"); err != nil {
		t.Fatalf("Set on empty document failed: %v", err)
	}
}
