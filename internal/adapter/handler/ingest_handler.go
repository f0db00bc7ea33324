package handler

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/errors"
	"github.com/scribeflow/scribeflow/internal/adapter/dto"
	"github.com/scribeflow/scribeflow/internal/usecase/ingest"
)

// Ingest handles transcript chunk ingestion and window endpoints
type Ingest struct {
	windower *ingest.Windower
	logger   *zap.Logger
}

// NewIngest creates a new ingestion handler
func NewIngest(windower *ingest.Windower, logger *zap.Logger) *Ingest {
	return &Ingest{windower: windower, logger: logger}
}

// IngestChunk godoc
// @Summary      Ingest one transcript chunk into its minute window
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        request body dto.IngestChunkRequest true "chunk"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /chunks [post]
func (h *Ingest) IngestChunk(c echo.Context) error {
	var req dto.IngestChunkRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting_id"))
	}

	window, err := h.windower.Ingest(c.Request().Context(), ingest.TranscriptChunk{
		MeetingID:   meetingID,
		Speaker:     req.Speaker,
		Text:        req.Text,
		Timestamp:   req.Timestamp,
		WindowIndex: req.WindowIndex,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, window)
}

// CloseWindow godoc
// @Summary      Close a window and run classification over it
// @Tags         ingest
// @Produce      json
// @Param        id path string true "meeting id"
// @Param        index path int true "window index"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /meetings/{id}/windows/{index}/close [post]
func (h *Ingest) CloseWindow(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid window index"))
	}

	window, err := h.windower.CloseWindow(c.Request().Context(), meetingID, index)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, window)
}

// GetTimeline godoc
// @Summary      List a meeting's windows in order
// @Tags         ingest
// @Produce      json
// @Param        id path string true "meeting id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /meetings/{id}/windows [get]
func (h *Ingest) GetTimeline(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	windows, err := h.windower.GetTimeline(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, windows)
}
