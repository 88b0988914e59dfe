package store

import "context"

// Instrumented decorates a Store with a per-save observation hook.
type Instrumented struct {
	inner   Store
	observe func(table, outcome string)
}

func NewInstrumented(inner Store, observe func(table, outcome string)) *Instrumented {
	return &Instrumented{inner: inner, observe: observe}
}

func (s *Instrumented) LoadTable(ctx context.Context, table string, dest any) error {
	return s.inner.LoadTable(ctx, table, dest)
}

func (s *Instrumented) SaveTable(ctx context.Context, table string, value any) error {
	err := s.inner.SaveTable(ctx, table, value)
	if s.observe != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.observe(table, outcome)
	}
	return err
}

func (s *Instrumented) Close() error { return s.inner.Close() }
