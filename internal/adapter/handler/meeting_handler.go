package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/errors"
	"github.com/scribeflow/scribeflow/internal/adapter/dto"
	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/usecase/meeting"
	"github.com/scribeflow/scribeflow/internal/usecase/summary"
	"github.com/scribeflow/scribeflow/internal/usecase/transcriber"
)

// Meeting handles meeting lifecycle endpoints
type Meeting struct {
	svc       *meeting.Service
	summaries *summary.Service
	recorder  *transcriber.Service
	logger    *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(svc *meeting.Service, summaries *summary.Service, recorder *transcriber.Service, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, summaries: summaries, recorder: recorder, logger: logger}
}

// Create godoc
// @Summary      Create a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateMeetingRequest true "meeting"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /meetings [post]
func (h *Meeting) Create(c echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	var startedAt time.Time
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}
	created, err := h.svc.Create(c.Request().Context(), req.Title, startedAt)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, created)
}

// Get godoc
// @Summary      Get a meeting
// @Tags         meetings
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// End godoc
// @Summary      End a meeting
// @Tags         meetings
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /meetings/{id}/end [post]
func (h *Meeting) End(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	ended, err := h.svc.End(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, ended)
}

// Delete godoc
// @Summary      Delete a meeting and everything derived from it
// @Tags         meetings
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// GenerateSummary godoc
// @Summary      Run a summary command over the meeting transcript
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path string true "meeting id"
// @Param        request body dto.GenerateSummaryRequest true "command"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /meetings/{id}/summary [post]
func (h *Meeting) GenerateSummary(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.GenerateSummaryRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.summaries.Generate(c.Request().Context(), id, summary.Command(req.Command))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.SummaryResponse{
		MeetingID: id.String(),
		Command:   req.Command,
		Result:    result,
	})
}

// SubmitRecording godoc
// @Summary      Submit a meeting recording for transcription
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path string true "meeting id"
// @Param        request body dto.SubmitRecordingRequest true "recording"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /meetings/{id}/recording [post]
func (h *Meeting) SubmitRecording(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.SubmitRecordingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcriptID, err := h.recorder.SubmitRecording(c.Request().Context(), id, req.AudioURL)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.SubmitRecordingResponse{
		MeetingID:    id.String(),
		TranscriptID: transcriptID,
	})
}

// ListActionItems godoc
// @Summary      List a meeting's action items
// @Tags         meetings
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Router       /meetings/{id}/action-items [get]
func (h *Meeting) ListActionItems(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	items, err := h.svc.ListActionItems(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, items)
}

// ListDecisions godoc
// @Summary      List a meeting's decisions
// @Tags         meetings
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Router       /meetings/{id}/decisions [get]
func (h *Meeting) ListDecisions(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	decisions, err := h.svc.ListDecisions(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, decisions)
}

// UpdateActionItem godoc
// @Summary      Update an action item's status
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        itemId path string true "action item id"
// @Param        request body dto.UpdateActionItemRequest true "status"
// @Success      200 {object} dto.SuccessResponse
// @Router       /action-items/{itemId} [patch]
func (h *Meeting) UpdateActionItem(c echo.Context) error {
	id, err := parseUUIDParam(c, "itemId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req dto.UpdateActionItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.svc.UpdateActionItemStatus(c.Request().Context(), id, entities.ActionItemStatus(req.Status)); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name)
	}
	return id, nil
}
