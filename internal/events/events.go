// Package events publishes moderation events after their database changes commit.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type names a moderation event.
type Type string

const (
	SuspensionCreated Type = "suspension.created"
	SuspensionUpdated Type = "suspension.updated"
	SuspensionLifted  Type = "suspension.lifted"
	ReportResolved    Type = "report.resolved"
)

// ModerationEvent is the wire format shared by every publisher.
type ModerationEvent struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	EntityType    string                 `json:"entity_type"`
	EntityID      uint                   `json:"entity_id"`
	StudentID     uint                   `json:"student_id"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// New stamps an event with an id and timestamp.
func New(eventType Type, entityType string, entityID, studentID uint, payload map[string]interface{}) ModerationEvent {
	return ModerationEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		StudentID:  studentID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers moderation events to a downstream channel.
type Publisher interface {
	Publish(ctx context.Context, event ModerationEvent) error
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, ModerationEvent) error { return nil }

// Multi fans an event out to several publishers and joins their errors.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, event ModerationEvent) error {
	var errs []error
	for _, publisher := range m {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
