// Package history keeps the per-conversation sliding window of chat turns.
package history

import (
	"context"
	"log"
	"sync"

	"github.com/starkproject/stark/internal/store"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchange unit. Immutable once appended; the window
// only ever evicts from the front.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ledger holds conversation histories keyed by conversation ID, bounded to
// a fixed window per conversation.
type Ledger struct {
	mu     sync.RWMutex
	window int
	turns  map[string][]Turn
	store  store.Store
}

// NewLedger loads persisted histories. A read fault logs and starts empty.
func NewLedger(ctx context.Context, st store.Store, window int) *Ledger {
	if window <= 0 {
		window = 50
	}
	l := &Ledger{
		window: window,
		turns:  make(map[string][]Turn),
		store:  st,
	}
	if err := st.LoadTable(ctx, store.TableConversations, &l.turns); err != nil {
		log.Printf("history: load failed, starting empty: %v", err)
		l.turns = make(map[string][]Turn)
	}
	return l
}

// Append adds a turn and evicts oldest-first beyond the window, then
// persists. Write faults are logged; memory stays authoritative.
func (l *Ledger) Append(ctx context.Context, chatID string, turn Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := append(l.turns[chatID], turn)
	if len(seq) > l.window {
		seq = seq[len(seq)-l.window:]
	}
	l.turns[chatID] = seq
	l.saveLocked(ctx)
}

// Turns returns a copy of the conversation's history, oldest first.
func (l *Ledger) Turns(chatID string) []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq := l.turns[chatID]
	out := make([]Turn, len(seq))
	copy(out, seq)
	return out
}

// Reset clears only this conversation's history. To-dos and memory live in
// their own ledgers and survive.
func (l *Ledger) Reset(ctx context.Context, chatID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.turns, chatID)
	l.saveLocked(ctx)
}

func (l *Ledger) Len(chatID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns[chatID])
}

// ConversationCount reports how many conversations have stored history.
func (l *Ledger) ConversationCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

func (l *Ledger) saveLocked(ctx context.Context) {
	if err := l.store.SaveTable(ctx, store.TableConversations, l.turns); err != nil {
		log.Printf("history: save failed: %v", err)
	}
}
