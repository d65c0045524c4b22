// Package sink provides handlers consuming decoded events.
package sink

import (
	"context"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

// Mux dispatches every event to all handlers.
type Mux []dcsbios.EventHandler

// HandleEvent implements dcsbios.EventHandler.
// All handlers are called even if some fail.
func (m Mux) HandleEvent(ctx context.Context, ev dcsbios.Event) error {
	var errs fx.AggregatedError
	for _, h := range m {
		errs.Add(h.HandleEvent(ctx, ev))
	}
	return errs.Aggregate()
}

// Add appends handlers, skipping nil ones.
func (m *Mux) Add(handlers ...dcsbios.EventHandler) *Mux {
	for _, h := range handlers {
		if h != nil {
			*m = append(*m, h)
		}
	}
	return m
}

// Handler returns the single handler if there's only one.
func (m Mux) Handler() dcsbios.EventHandler {
	if len(m) == 1 {
		return m[0]
	}
	return m
}
