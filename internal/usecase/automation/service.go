package automation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
	"github.com/scribeflow/scribeflow/pkg/dispatch"
	"github.com/scribeflow/scribeflow/pkg/resilience"
)

// Service owns the automation event state machine: pending events move
// through operator approval to dispatch, or to rejection and dismissal.
type Service struct {
	events     repositories.EventRepository
	dispatcher dispatch.Dispatcher
	retryCfg   resilience.RetryConfig
	logger     *zap.Logger

	pendingMaxAge   time.Duration
	janitorInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewService creates a new automation lifecycle service
func NewService(
	events repositories.EventRepository,
	dispatcher dispatch.Dispatcher,
	logger *zap.Logger,
	pendingMaxAge time.Duration,
	janitorInterval time.Duration,
) *Service {
	return &Service{
		events:          events,
		dispatcher:      dispatcher,
		retryCfg:        resilience.DefaultRetryConfig(),
		logger:          logger,
		pendingMaxAge:   pendingMaxAge,
		janitorInterval: janitorInterval,
		stopChan:        make(chan struct{}),
	}
}

// ListPending returns pending events, oldest first, optionally narrowed to
// one meeting
func (s *Service) ListPending(ctx context.Context, meetingID *uuid.UUID) ([]entities.AutomationEvent, error) {
	return s.events.ListEvents(ctx, entities.AutomationStatusPending, meetingID)
}

// GetEvent returns one event by id
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*entities.AutomationEvent, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, entities.ErrEventNotFound
	}
	return event, nil
}

// Approve claims a pending event and dispatches it. The claim is an atomic
// pending → triggered transition, so exactly one of two concurrent approvals
// wins; the loser gets ErrAlreadyProcessed. No lock is held across the
// dispatch call: the event is claimed, released, dispatched, then the
// terminal state is committed.
//
// editedParams, when non-nil, replaces any earlier edit wholesale and becomes
// the dispatched parameter set.
func (s *Service) Approve(ctx context.Context, eventID uuid.UUID, editedParams map[string]interface{}) (*entities.AutomationEvent, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, entities.ErrEventNotFound
	}
	if event.Status != entities.AutomationStatusPending {
		return event, entities.ErrAlreadyProcessed
	}

	now := time.Now()
	patch := map[string]interface{}{
		"status":      entities.AutomationStatusTriggered,
		"approved_at": now,
	}
	if editedParams != nil {
		patch["edited_parameters"] = datatypes.JSONMap(editedParams)
		event.EditedParameters = datatypes.JSONMap(editedParams)
	}

	claimed, err := s.events.UpdateEventStatus(ctx, eventID, entities.AutomationStatusPending, patch)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return event, entities.ErrAlreadyProcessed
	}
	event.Status = entities.AutomationStatusTriggered
	event.ApprovedAt = &now

	params := event.EffectiveParameters()

	var externalID string
	dispatchErr := resilience.WithRetry(ctx, s.logger, "dispatch:"+string(event.Intent), s.retryCfg, func(ctx context.Context) error {
		id, err := s.dispatcher.Dispatch(ctx, event, params)
		if err != nil {
			return err
		}
		externalID = id
		return nil
	})

	if dispatchErr != nil {
		s.logger.Error("❌ automation dispatch failed",
			zap.String("event_id", eventID.String()),
			zap.String("intent", string(event.Intent)),
			zap.Error(dispatchErr))

		sanitized := resilience.Sanitize(dispatchErr)
		if _, commitErr := s.events.UpdateEventStatus(ctx, eventID, entities.AutomationStatusTriggered, map[string]interface{}{
			"status": entities.AutomationStatusFailed,
			"error":  sanitized,
		}); commitErr != nil {
			s.logger.Error("failed to record dispatch failure",
				zap.String("event_id", eventID.String()),
				zap.Error(commitErr))
		}
		event.Status = entities.AutomationStatusFailed
		event.Error = &sanitized
		return event, dispatchErr
	}

	if _, err := s.events.UpdateEventStatus(ctx, eventID, entities.AutomationStatusTriggered, map[string]interface{}{
		"status":      entities.AutomationStatusCompleted,
		"external_id": externalID,
	}); err != nil {
		return nil, err
	}
	event.Status = entities.AutomationStatusCompleted
	event.ExternalID = &externalID

	s.logger.Info("✅ automation dispatched",
		zap.String("event_id", eventID.String()),
		zap.String("intent", string(event.Intent)),
		zap.String("external_id", externalID))
	return event, nil
}

// Reject moves a pending event to rejected. Any other starting state is an
// invalid transition.
func (s *Service) Reject(ctx context.Context, eventID uuid.UUID) (*entities.AutomationEvent, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, entities.ErrEventNotFound
	}
	if event.Status != entities.AutomationStatusPending {
		return event, entities.ErrInvalidTransition
	}

	ok, err := s.events.UpdateEventStatus(ctx, eventID, entities.AutomationStatusPending, map[string]interface{}{
		"status": entities.AutomationStatusRejected,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return event, entities.ErrInvalidTransition
	}
	event.Status = entities.AutomationStatusRejected

	s.logger.Info("🚫 automation rejected", zap.String("event_id", eventID.String()))
	return event, nil
}

// StartJanitor launches the background worker that dismisses pending events
// nobody reviewed within the configured age.
func (s *Service) StartJanitor() {
	if s.janitorInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.dismissStaleEvents()
			case <-s.stopChan:
				return
			}
		}
	}()
	s.logger.Info("🧹 automation janitor started",
		zap.Duration("interval", s.janitorInterval),
		zap.Duration("pending_max_age", s.pendingMaxAge))
}

// Stop shuts the janitor down and waits for it to finish
func (s *Service) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Service) dismissStaleEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale, err := s.events.ListStalePending(ctx, int(s.pendingMaxAge.Seconds()))
	if err != nil {
		s.logger.Error("failed to list stale pending events", zap.Error(err))
		return
	}

	for _, event := range stale {
		ok, err := s.events.UpdateEventStatus(ctx, event.ID, entities.AutomationStatusPending, map[string]interface{}{
			"status": entities.AutomationStatusDismissed,
		})
		if err != nil {
			s.logger.Error("failed to dismiss stale event",
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
			continue
		}
		if ok {
			s.logger.Info("🧹 dismissed stale automation event",
				zap.String("event_id", event.ID.String()),
				zap.String("intent", string(event.Intent)))
		}
	}
}
