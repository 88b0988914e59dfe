// Package todo manages the per-conversation to-do list.
package todo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starkproject/stark/internal/store"
)

// Item is a single to-do entry. The ID is a stable identifier assigned at
// creation; list position is display ordering only.
type Item struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Done    bool   `json:"done"`
	AddedBy string `json:"added_by"`
	Date    string `json:"date"`
}

const emptyListMessage = "📋 Geen taken op de lijst!"

// Ledger holds to-do lists keyed by conversation ID.
type Ledger struct {
	mu    sync.RWMutex
	items map[string][]Item
	store store.Store
	now   func() time.Time
}

// NewLedger loads persisted to-dos. A read fault logs and starts empty.
func NewLedger(ctx context.Context, st store.Store) *Ledger {
	l := &Ledger{
		items: make(map[string][]Item),
		store: st,
		now:   time.Now,
	}
	if err := st.LoadTable(ctx, store.TableTodos, &l.items); err != nil {
		log.Printf("todo: load failed, starting empty: %v", err)
		l.items = make(map[string][]Item)
	}
	return l
}

// Add appends a new open item attributed to addedBy, dated today
// (dd-mm-yyyy, the Dutch locale format the team reads).
func (l *Ledger) Add(ctx context.Context, chatID, text, addedBy string) Item {
	item := Item{
		ID:      uuid.NewString(),
		Text:    strings.TrimSpace(text),
		AddedBy: addedBy,
		Date:    l.now().Format("02-01-2006"),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[chatID] = append(l.items[chatID], item)
	l.saveLocked(ctx)
	return item
}

// Complete marks the item at the zero-based position done. Done never
// reverts. Returns false on an out-of-range position.
func (l *Ledger) Complete(ctx context.Context, chatID string, index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := l.items[chatID]
	if index < 0 || index >= len(seq) {
		return false
	}
	seq[index].Done = true
	l.saveLocked(ctx)
	return true
}

// Remove deletes the item at the zero-based position, shifting later items
// left. Returns false on an out-of-range position.
func (l *Ledger) Remove(ctx context.Context, chatID string, index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := l.items[chatID]
	if index < 0 || index >= len(seq) {
		return false
	}
	l.items[chatID] = append(seq[:index], seq[index+1:]...)
	l.saveLocked(ctx)
	return true
}

// Render produces the numbered human-readable listing.
func (l *Ledger) Render(chatID string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq := l.items[chatID]
	if len(seq) == 0 {
		return emptyListMessage
	}
	var b strings.Builder
	b.WriteString("📋 *To-Do Lijst:*\n")
	for i, item := range seq {
		glyph := "⬜"
		if item.Done {
			glyph = "✅"
		}
		fmt.Fprintf(&b, "%d. %s %s _(%s, %s)_\n", i+1, glyph, item.Text, item.AddedBy, item.Date)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Items returns a copy of the conversation's list in display order.
func (l *Ledger) Items(chatID string) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq := l.items[chatID]
	out := make([]Item, len(seq))
	copy(out, seq)
	return out
}

func (l *Ledger) saveLocked(ctx context.Context) {
	if err := l.store.SaveTable(ctx, store.TableTodos, l.items); err != nil {
		log.Printf("todo: save failed: %v", err)
	}
}
