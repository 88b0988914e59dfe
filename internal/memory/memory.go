// Package memory keeps the append-only per-conversation fact list the
// model populates through its ONTHOUD markers.
package memory

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/starkproject/stark/internal/store"
)

// Ledger holds remembered facts keyed by conversation ID. Facts are opaque
// strings; there is no dedup and no deletion path.
type Ledger struct {
	mu    sync.RWMutex
	facts map[string][]string
	store store.Store
}

// NewLedger loads persisted facts. A read fault logs and starts empty.
func NewLedger(ctx context.Context, st store.Store) *Ledger {
	l := &Ledger{
		facts: make(map[string][]string),
		store: st,
	}
	if err := st.LoadTable(ctx, store.TableMemory, &l.facts); err != nil {
		log.Printf("memory: load failed, starting empty: %v", err)
		l.facts = make(map[string][]string)
	}
	return l
}

// Append pushes each fact onto the conversation's list and persists.
func (l *Ledger) Append(ctx context.Context, chatID string, facts ...string) {
	if len(facts) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.facts[chatID] = append(l.facts[chatID], facts...)
	if err := l.store.SaveTable(ctx, store.TableMemory, l.facts); err != nil {
		log.Printf("memory: save failed: %v", err)
	}
}

// Render produces a bullet list, or the empty string when no facts exist
// so the prompt section can be omitted entirely.
func (l *Ledger) Render(chatID string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq := l.facts[chatID]
	if len(seq) == 0 {
		return ""
	}
	var b strings.Builder
	for _, fact := range seq {
		b.WriteString("- ")
		b.WriteString(fact)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Facts returns a copy of the conversation's fact list.
func (l *Ledger) Facts(chatID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seq := l.facts[chatID]
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}
