package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// EventRepository defines persistence operations for automation events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event *entities.AutomationEvent) error
	// GetEvent returns (nil, nil) when the event does not exist.
	GetEvent(ctx context.Context, id uuid.UUID) (*entities.AutomationEvent, error)
	// UpdateEventStatus applies patch only if the event's current status
	// still equals expected. Returns false when another writer got there
	// first; the caller decides how to report the conflict.
	UpdateEventStatus(ctx context.Context, id uuid.UUID, expected entities.AutomationStatus, patch map[string]interface{}) (bool, error)
	// ListEvents filters by status; meetingID narrows to one meeting when
	// non-nil. Ordered oldest first.
	ListEvents(ctx context.Context, status entities.AutomationStatus, meetingID *uuid.UUID) ([]entities.AutomationEvent, error)
	// ListStalePending returns pending events created more than maxAge ago.
	ListStalePending(ctx context.Context, maxAgeSeconds int) ([]entities.AutomationEvent, error)
}
