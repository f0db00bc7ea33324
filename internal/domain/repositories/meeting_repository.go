package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	GetByExternalTranscriptID(ctx context.Context, externalID string) (*entities.Meeting, error)
	SetExternalTranscriptID(ctx context.Context, id uuid.UUID, externalID string) error
	Update(ctx context.Context, meeting *entities.Meeting) error
	// Delete removes a meeting and cascades to its windows, events, action
	// items and decisions.
	Delete(ctx context.Context, id uuid.UUID) error
}
