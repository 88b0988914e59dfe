package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/starkproject/stark/internal/store"
)

func TestAppendKeepsMostRecentWithinWindow(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ctx, store.NewInMemoryStore(), 5)

	for i := 0; i < 12; i++ {
		l.Append(ctx, "chat-1", Turn{Role: RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}

	turns := l.Turns("chat-1")
	if len(turns) != 5 {
		t.Fatalf("len(turns) = %d, want window of 5", len(turns))
	}
	for i, turn := range turns {
		want := fmt.Sprintf("msg %d", 7+i)
		if turn.Content != want {
			t.Fatalf("turns[%d].Content = %q, want %q (oldest-first eviction)", i, turn.Content, want)
		}
	}
}

func TestAppendBelowWindowKeepsAll(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ctx, store.NewInMemoryStore(), 10)

	l.Append(ctx, "chat-1", Turn{Role: RoleUser, Content: "hello"})
	l.Append(ctx, "chat-1", Turn{Role: RoleAssistant, Content: "hi"})

	turns := l.Turns("chat-1")
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Content != "hello" || turns[1].Content != "hi" {
		t.Fatalf("unexpected order: %#v", turns)
	}
}

func TestResetClearsOnlyThatConversation(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ctx, store.NewInMemoryStore(), 10)

	l.Append(ctx, "chat-1", Turn{Role: RoleUser, Content: "a"})
	l.Append(ctx, "chat-2", Turn{Role: RoleUser, Content: "b"})

	l.Reset(ctx, "chat-1")

	if n := l.Len("chat-1"); n != 0 {
		t.Fatalf("chat-1 Len() = %d after reset, want 0", n)
	}
	if n := l.Len("chat-2"); n != 1 {
		t.Fatalf("chat-2 Len() = %d, want 1", n)
	}
}

func TestLedgerReloadsPersistedTurns(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()

	first := NewLedger(ctx, st, 10)
	first.Append(ctx, "chat-1", Turn{Role: RoleUser, Content: "remembered"})

	second := NewLedger(ctx, st, 10)
	turns := second.Turns("chat-1")
	if len(turns) != 1 || turns[0].Content != "remembered" {
		t.Fatalf("reloaded turns = %#v, want the persisted turn", turns)
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ctx, store.NewInMemoryStore(), 10)
	l.Append(ctx, "chat-1", Turn{Role: RoleUser, Content: "orig"})

	snap := l.Turns("chat-1")
	snap[0].Content = "mutated"

	if got := l.Turns("chat-1")[0].Content; got != "orig" {
		t.Fatalf("ledger content = %q, snapshot mutation leaked", got)
	}
}
