// Package session runs one conversational turn against the model.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/starkproject/stark/internal/history"
	"github.com/starkproject/stark/internal/markers"
	"github.com/starkproject/stark/internal/memory"
	"github.com/starkproject/stark/internal/observability"
)

// Apology is the fixed reply for any model fault. Single attempt, no retry.
const Apology = "⚠️ Er ging iets mis met de AI. Probeer het opnieuw."

// Completer issues one completion request.
type Completer interface {
	Complete(ctx context.Context, system string, turns []history.Turn) (string, error)
}

// Composer builds the system prompt for a conversation.
type Composer interface {
	Compose(chatID string) string
}

// Session appends turns, invokes the model and harvests fact markers.
// The router serializes calls per conversation; Session itself assumes at
// most one in-flight turn per chat ID.
type Session struct {
	history  *history.Ledger
	memory   *memory.Ledger
	composer Composer
	model    Completer
	metrics  *observability.Metrics
}

func New(hist *history.Ledger, mem *memory.Ledger, composer Composer, model Completer, metrics *observability.Metrics) *Session {
	return &Session{
		history:  hist,
		memory:   mem,
		composer: composer,
		model:    model,
		metrics:  metrics,
	}
}

// HandleTurn records the user turn, calls the model and returns the raw
// reply (markers included; the router strips them before delivery). On a
// model fault the history gains no synthetic assistant turn and the fixed
// apology is returned.
func (s *Session) HandleTurn(ctx context.Context, chatID, text, senderName string) string {
	s.history.Append(ctx, chatID, history.Turn{
		Role:    history.RoleUser,
		Content: fmt.Sprintf("[%s]: %s", senderName, text),
	})

	system := s.composer.Compose(chatID)
	started := time.Now()
	raw, err := s.model.Complete(ctx, system, s.history.Turns(chatID))
	s.metrics.ModelLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		s.metrics.ModelCalls.WithLabelValues("error").Inc()
		log.Printf("session: model call failed for chat %s: %v", chatID, err)
		return Apology
	}
	s.metrics.ModelCalls.WithLabelValues("ok").Inc()

	s.history.Append(ctx, chatID, history.Turn{Role: history.RoleAssistant, Content: raw})

	if facts := markers.Facts(raw); len(facts) > 0 {
		s.memory.Append(ctx, chatID, facts...)
	}

	return raw
}

// Reset clears only the conversation's turn history.
func (s *Session) Reset(ctx context.Context, chatID string) {
	s.history.Reset(ctx, chatID)
}
