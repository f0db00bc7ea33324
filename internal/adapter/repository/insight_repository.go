package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// InsightRepository handles action item and decision data operations
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// SaveActionItems persists a batch of action items
func (r *InsightRepository) SaveActionItems(ctx context.Context, items []*entities.ActionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

// ListActionItemsByMeeting retrieves action items for a meeting, oldest first
func (r *InsightRepository) ListActionItemsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateActionItemStatus updates the status of one action item
func (r *InsightRepository) UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SaveDecisions persists a batch of decisions
func (r *InsightRepository) SaveDecisions(ctx context.Context, decisions []*entities.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(decisions).Error
}

// ListDecisionsByMeeting retrieves decisions for a meeting, oldest first
func (r *InsightRepository) ListDecisionsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error) {
	var decisions []entities.Decision
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&decisions).Error; err != nil {
		return nil, err
	}
	return decisions, nil
}
