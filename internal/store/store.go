package store

import (
	"context"
	"strings"
)

// Logical tables, one durable JSON document each.
const (
	TableConversations = "conversations"
	TableTodos         = "todos"
	TableMemory        = "memory"
)

// Store persists whole-table JSON documents. Each document maps a
// conversation ID to that conversation's records. Writes replace the
// document as a unit; there is no cross-table transaction.
type Store interface {
	// LoadTable decodes the document for table into dest. An absent
	// document leaves dest untouched and returns nil; a corrupt one
	// returns an error so the caller can fall back to its empty default.
	LoadTable(ctx context.Context, table string, dest any) error

	// SaveTable serializes value and overwrites the table's document.
	SaveTable(ctx context.Context, table string, value any) error

	Close() error
}

// New creates a postgres-backed store when configured, otherwise a
// file-backed store rooted at dataDir.
func New(ctx context.Context, databaseURL, dataDir string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFileStore(dataDir)
	}
	return NewPostgresStore(ctx, databaseURL)
}
