package events

import (
	"context"

	"job-board/internal/domain/event"
	"job-board/internal/metrics"
)

// Instrumented counts every publish attempt by type and outcome.
type Instrumented struct {
	next    event.Publisher
	metrics *metrics.Metrics
}

func NewInstrumented(next event.Publisher, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (i *Instrumented) Publish(ctx context.Context, evt event.Event) error {
	err := i.next.Publish(ctx, evt)
	i.metrics.ObserveEvent(string(evt.Type), err)
	return err
}
