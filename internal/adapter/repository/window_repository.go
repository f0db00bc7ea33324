package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// WindowRepository handles transcript window data operations
type WindowRepository struct {
	db *gorm.DB
}

// NewWindowRepository creates a new window repository
func NewWindowRepository(db *gorm.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

// AppendToWindow merges a segment into the window for (meetingID, windowIndex),
// creating the row on first arrival. The existing row is locked for the length
// of the transaction so concurrent appends serialize instead of overwriting
// each other. A create that loses the first-chunk race falls back to append.
func (r *WindowRepository) AppendToWindow(ctx context.Context, window *entities.MinuteWindow, segment entities.WindowSegment) (*entities.MinuteWindow, error) {
	if window == nil {
		return nil, errors.New("window cannot be nil")
	}

	var result *entities.MinuteWindow
	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing entities.MinuteWindow
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("meeting_id = ? AND window_index = ?", window.MeetingID, window.WindowIndex).
				First(&existing).Error
			if err == nil {
				existing.Segments = append(existing.Segments, segment)
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				result = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			fresh := *window
			fresh.Segments = []entities.WindowSegment{segment}
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
			result = &fresh
			return nil
		})
		if err == nil {
			return result, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		// lost the first-chunk race, the row exists now
	}
	return nil, errors.New("window upsert did not converge")
}

// GetWindow retrieves one window by its meeting and index
func (r *WindowRepository) GetWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error) {
	var window entities.MinuteWindow
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND window_index = ?", meetingID, windowIndex).
		First(&window).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

// GetWindowsByMeeting retrieves all windows for a meeting ordered by index
func (r *WindowRepository) GetWindowsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error) {
	var windows []entities.MinuteWindow
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("window_index ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// MarkProcessed stores classification output and flips processed in one update
func (r *WindowRepository) MarkProcessed(ctx context.Context, windowID uuid.UUID, highlights []entities.Highlight) error {
	encoded, err := json.Marshal(highlights)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entities.MinuteWindow{}).
		Where("id = ?", windowID).
		Updates(map[string]interface{}{
			"highlights": datatypes.JSON(encoded),
			"processed":  true,
		}).Error
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
