package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// EventRepository handles automation event data operations
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new automation event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent creates a new automation event
func (r *EventRepository) CreateEvent(ctx context.Context, event *entities.AutomationEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvent retrieves an automation event by ID
func (r *EventRepository) GetEvent(ctx context.Context, id uuid.UUID) (*entities.AutomationEvent, error) {
	var event entities.AutomationEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// UpdateEventStatus applies patch only while the event still holds the
// expected status. The WHERE clause makes the transition atomic: of two
// concurrent writers exactly one sees RowsAffected == 1.
func (r *EventRepository) UpdateEventStatus(ctx context.Context, id uuid.UUID, expected entities.AutomationStatus, patch map[string]interface{}) (bool, error) {
	if len(patch) == 0 {
		return false, fmt.Errorf("empty patch for event %s", id)
	}
	result := r.db.WithContext(ctx).
		Model(&entities.AutomationEvent{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(patch)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListEvents retrieves events with the given status, oldest first,
// optionally narrowed to one meeting
func (r *EventRepository) ListEvents(ctx context.Context, status entities.AutomationStatus, meetingID *uuid.UUID) ([]entities.AutomationEvent, error) {
	var events []entities.AutomationEvent
	query := r.db.WithContext(ctx).Where("status = ?", status)
	if meetingID != nil {
		query = query.Where("meeting_id = ?", *meetingID)
	}
	if err := query.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListStalePending retrieves pending events older than maxAge, for the
// dismissal janitor
func (r *EventRepository) ListStalePending(ctx context.Context, maxAgeSeconds int) ([]entities.AutomationEvent, error) {
	cutoff := time.Now().Add(-time.Duration(maxAgeSeconds) * time.Second)
	var events []entities.AutomationEvent
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", entities.AutomationStatusPending, cutoff).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
