package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
)

// Service handles meeting lifecycle and derived-record reads
type Service struct {
	meetings repositories.MeetingRepository
	insights repositories.InsightRepository
	logger   *zap.Logger
}

// NewService creates a new meeting service
func NewService(meetings repositories.MeetingRepository, insights repositories.InsightRepository, logger *zap.Logger) *Service {
	return &Service{meetings: meetings, insights: insights, logger: logger}
}

// Create starts a new meeting. A zero startedAt means now.
func (s *Service) Create(ctx context.Context, title string, startedAt time.Time) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(title, startedAt)
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	s.logger.Info("📅 meeting created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("title", meeting.Title))
	return meeting, nil
}

// Get returns one meeting by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrUnknownMeeting
	}
	return meeting, nil
}

// End closes an active meeting
func (s *Service) End(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !meeting.IsActive() {
		return nil, entities.ErrMeetingEnded
	}
	meeting.MarkAsEnded()
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}
	s.logger.Info("🏁 meeting ended", zap.String("meeting_id", id.String()))
	return meeting, nil
}

// Delete removes a meeting and everything derived from it
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("🗑️ meeting deleted", zap.String("meeting_id", id.String()))
	return nil
}

// ListActionItems returns a meeting's action items, oldest first
func (s *Service) ListActionItems(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.insights.ListActionItemsByMeeting(ctx, meetingID)
}

// ListDecisions returns a meeting's decisions, oldest first
func (s *Service) ListDecisions(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.insights.ListDecisionsByMeeting(ctx, meetingID)
}

// UpdateActionItemStatus sets the status of one action item
func (s *Service) UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	switch status {
	case entities.ActionItemStatusOpen, entities.ActionItemStatusDone, entities.ActionItemStatusDismissed:
	default:
		return entities.ErrInvalidRequest
	}
	return s.insights.UpdateActionItemStatus(ctx, id, status)
}
