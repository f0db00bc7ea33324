package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// InsightRepository defines persistence for derived records produced by
// classification and summary generation.
type InsightRepository interface {
	SaveActionItems(ctx context.Context, items []*entities.ActionItem) error
	ListActionItemsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error)
	UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error

	SaveDecisions(ctx context.Context, decisions []*entities.Decision) error
	ListDecisionsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error)
}
