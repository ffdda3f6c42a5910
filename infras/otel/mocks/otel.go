package mocks

import (
	"context"
	"hotel/infras/otel"
	"sync"
)

// Recorder is an in-memory otel.Otel for tests. It keeps every scope it
// opened so assertions can look at span names and traced errors.
type Recorder struct {
	mu     sync.Mutex
	scopes []*Scope
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	scope := newScope(scopeName, spanName)

	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()

	return ctx, scope
}

// Find returns the first recorded scope with the given span name.
func (r *Recorder) Find(spanName string) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, scope := range r.scopes {
		if scope.Span == spanName {
			return scope
		}
	}

	return nil
}

// SpanNames lists recorded span names in the order they were opened.
func (r *Recorder) SpanNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.scopes))
	for _, scope := range r.scopes {
		names = append(names, scope.Span)
	}

	return names
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func NewOtel() otel.Otel {
	return NewRecorder()
}
