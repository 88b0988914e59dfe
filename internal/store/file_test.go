package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	in := map[string][]string{"chat-1": {"fact one", "fact two"}}
	if err := fs.SaveTable(context.Background(), TableMemory, in); err != nil {
		t.Fatalf("SaveTable() error = %v", err)
	}

	out := map[string][]string{}
	if err := fs.LoadTable(context.Background(), TableMemory, &out); err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if len(out["chat-1"]) != 2 || out["chat-1"][0] != "fact one" {
		t.Fatalf("unexpected document after round trip: %#v", out)
	}
}

func TestFileStoreAbsentDocumentLeavesDefault(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	out := map[string][]string{"seed": {"kept"}}
	if err := fs.LoadTable(context.Background(), TableTodos, &out); err != nil {
		t.Fatalf("LoadTable() on absent document error = %v", err)
	}
	if out["seed"][0] != "kept" {
		t.Fatalf("dest mutated on absent document: %#v", out)
	}
}

func TestFileStoreCorruptDocumentReturnsError(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TableConversations+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	out := map[string]any{}
	if err := fs.LoadTable(context.Background(), TableConversations, &out); err == nil {
		t.Fatalf("LoadTable() on corrupt document succeeded, want error")
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	if err := fs.SaveTable(ctx, TableMemory, map[string][]string{"a": {"1", "2"}}); err != nil {
		t.Fatalf("SaveTable() error = %v", err)
	}
	if err := fs.SaveTable(ctx, TableMemory, map[string][]string{"a": {"3"}}); err != nil {
		t.Fatalf("SaveTable() error = %v", err)
	}

	out := map[string][]string{}
	if err := fs.LoadTable(ctx, TableMemory, &out); err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if len(out["a"]) != 1 || out["a"][0] != "3" {
		t.Fatalf("document not fully overwritten: %#v", out)
	}
}
