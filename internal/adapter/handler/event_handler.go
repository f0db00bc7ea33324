package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/errors"
	"github.com/scribeflow/scribeflow/internal/adapter/dto"
	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/usecase/automation"
)

// Event handles automation event approval endpoints
type Event struct {
	svc    *automation.Service
	logger *zap.Logger
}

// NewEvent creates a new automation event handler
func NewEvent(svc *automation.Service, logger *zap.Logger) *Event {
	return &Event{svc: svc, logger: logger}
}

// ListPending godoc
// @Summary      List pending automation events
// @Tags         events
// @Produce      json
// @Param        meeting_id query string false "narrow to one meeting"
// @Success      200 {object} dto.SuccessResponse
// @Router       /events/pending [get]
func (h *Event) ListPending(c echo.Context) error {
	var meetingID *uuid.UUID
	if raw := c.QueryParam("meeting_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting_id"))
		}
		meetingID = &parsed
	}

	events, err := h.svc.ListPending(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, events)
}

// Get godoc
// @Summary      Get one automation event
// @Tags         events
// @Produce      json
// @Param        id path string true "event id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /events/{id} [get]
func (h *Event) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	event, err := h.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, event)
}

// Approve godoc
// @Summary      Approve a pending automation event and dispatch it
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path string true "event id"
// @Param        request body dto.ApproveEventRequest false "optional parameter override"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Router       /events/{id}/approve [post]
func (h *Event) Approve(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.ApproveEventRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	event, err := h.svc.Approve(c.Request().Context(), id, req.EditedParameters)
	if err != nil {
		if event != nil && event.Status == entities.AutomationStatusFailed {
			return HandleError(h.logger, c, errors.ErrDispatchFailed(err))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, event)
}

// Reject godoc
// @Summary      Reject a pending automation event
// @Tags         events
// @Produce      json
// @Param        id path string true "event id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /events/{id}/reject [post]
func (h *Event) Reject(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	event, err := h.svc.Reject(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, event)
}
