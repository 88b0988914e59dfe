package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/starkproject/stark/internal/memory"
	"github.com/starkproject/stark/internal/store"
	"github.com/starkproject/stark/internal/todo"
)

func newComposer(t *testing.T) (*Composer, *todo.Ledger, *memory.Ledger) {
	t.Helper()
	ctx := context.Background()
	todos := todo.NewLedger(ctx, store.NewInMemoryStore())
	facts := memory.NewLedger(ctx, store.NewInMemoryStore())
	return NewComposer(todos, facts), todos, facts
}

func TestComposeContainsPersonaAndContext(t *testing.T) {
	c, _, _ := newComposer(t)

	out := c.Compose("chat-1")
	if !strings.Contains(out, "Je bent Stark") {
		t.Fatalf("prompt missing persona preamble")
	}
	if !strings.Contains(out, "Fysio Assistent") {
		t.Fatalf("prompt missing project context document")
	}
	if !strings.Contains(out, "Geen taken op dit moment.") {
		t.Fatalf("prompt missing empty to-do sentinel")
	}
}

func TestComposeOmitsMemorySectionWhenEmpty(t *testing.T) {
	c, _, _ := newComposer(t)

	if strings.Contains(c.Compose("chat-1"), "Belangrijke Notities") {
		t.Fatalf("memory section present without facts")
	}
}

func TestComposeReflectsLatestLedgerState(t *testing.T) {
	ctx := context.Background()
	c, todos, facts := newComposer(t)

	before := c.Compose("chat-1")
	todos.Add(ctx, "chat-1", "deploy staging", "Ann")
	facts.Append(ctx, "chat-1", "budget approved")
	after := c.Compose("chat-1")

	if before == after {
		t.Fatalf("prompt did not change after ledger mutations")
	}
	if !strings.Contains(after, "1. [⬜] deploy staging (toegevoegd door Ann") {
		t.Fatalf("prompt missing to-do entry: %q", after)
	}
	if !strings.Contains(after, "## Belangrijke Notities & Besluiten\n- budget approved") {
		t.Fatalf("prompt missing memory section: %q", after)
	}
}

func TestComposeIsPerConversation(t *testing.T) {
	ctx := context.Background()
	c, todos, _ := newComposer(t)

	todos.Add(ctx, "chat-1", "alleen hier", "Ann")

	if strings.Contains(c.Compose("chat-2"), "alleen hier") {
		t.Fatalf("chat-2 prompt leaked chat-1 to-do")
	}
}
