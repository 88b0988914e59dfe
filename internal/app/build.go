// Package app wires the service from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/starkproject/stark/internal/config"
	"github.com/starkproject/stark/internal/events"
	"github.com/starkproject/stark/internal/history"
	"github.com/starkproject/stark/internal/httpapi"
	"github.com/starkproject/stark/internal/llm"
	"github.com/starkproject/stark/internal/memory"
	"github.com/starkproject/stark/internal/observability"
	"github.com/starkproject/stark/internal/prompt"
	"github.com/starkproject/stark/internal/router"
	"github.com/starkproject/stark/internal/session"
	"github.com/starkproject/stark/internal/store"
	"github.com/starkproject/stark/internal/telegram"
	"github.com/starkproject/stark/internal/todo"
)

type BuildResult struct {
	Config  config.Config
	Router  *router.Router
	Poller  *telegram.Poller
	API     *httpapi.Server
	Bus     *events.Bus
	Metrics *observability.Metrics

	// Cleanup releases external resources (store pool) on shutdown.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	base, err := store.New(ctx, cfg.DatabaseURL, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("store init failed: %w", err)
	}
	st := store.NewInstrumented(base, func(table, outcome string) {
		metrics.LedgerSaves.WithLabelValues(table, outcome).Inc()
	})

	hist := history.NewLedger(ctx, st, cfg.HistoryWindow)
	todos := todo.NewLedger(ctx, st)
	facts := memory.NewLedger(ctx, st)
	metrics.KnownConversations.Set(float64(hist.ConversationCount()))

	model := llm.NewAnthropicClient(llm.Config{
		APIKey:    cfg.AnthropicAPIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})

	sess := session.New(hist, facts, prompt.NewComposer(todos, facts), model, metrics)
	bus := events.NewBus()

	tg := telegram.NewClient(telegram.Config{Token: cfg.TelegramToken})
	rt := router.New(cfg.BotUsername, tg, sess, todos, metrics, bus)

	dispatch := func(ctx context.Context, ev router.Event) {
		rt.Handle(ctx, ev)
		metrics.KnownConversations.Set(float64(hist.ConversationCount()))
	}
	poller := telegram.NewPoller(tg, dispatch, cfg.PollTimeout)

	api := httpapi.New(cfg, todos, facts, hist, sess, bus, metrics)

	return &BuildResult{
		Config:  cfg,
		Router:  rt,
		Poller:  poller,
		API:     api,
		Bus:     bus,
		Metrics: metrics,
		Cleanup: base.Close,
	}, nil
}
