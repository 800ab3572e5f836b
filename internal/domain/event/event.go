package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	JobCreated       Type = "job.created"
	JobUpdated       Type = "job.updated"
	JobDeleted       Type = "job.deleted"
	JobStatusChanged Type = "job.status_changed"
	UserRegistered   Type = "user.registered"
	UserActivated    Type = "user.activated"
)

// Event is the envelope published to the bus and the live feed.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	Subject    uuid.UUID `json:"subject"`
	ActorID    uuid.UUID `json:"actor_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, subject, actor uuid.UUID, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		Subject:    subject,
		ActorID:    actor,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events best-effort; a failure never fails the request.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher fans an event out to every publisher and returns the first error.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, evt Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}
