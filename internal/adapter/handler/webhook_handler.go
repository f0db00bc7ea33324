package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/errors"
	"github.com/scribeflow/scribeflow/internal/adapter/dto"
	"github.com/scribeflow/scribeflow/internal/usecase/transcriber"
)

// Webhook handles incoming webhooks from the transcription provider
type Webhook struct {
	svc    *transcriber.Service
	logger *zap.Logger
}

// NewWebhook creates a new webhook handler
func NewWebhook(svc *transcriber.Service, logger *zap.Logger) *Webhook {
	return &Webhook{svc: svc, logger: logger}
}

// HandleTranscriptWebhook godoc
// @Summary      Receive a transcription completion notification
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /webhooks/assemblyai [post]
func (h *Webhook) HandleTranscriptWebhook(c echo.Context) error {
	// the provider sends the shared secret back in a header; try the
	// configured header then Authorization
	secret := c.Request().Header.Get("x-assemblyai-webhook-secret")
	if secret == "" {
		secret = c.Request().Header.Get("Authorization")
	}
	if !h.svc.VerifyWebhookSecret(secret) {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("webhook authentication failed"))
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	var req dto.TranscriptWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil || req.TranscriptID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if err := h.svc.HandleTranscriptWebhook(c.Request().Context(), req.TranscriptID, req.Status); err != nil {
		h.logger.Error("transcript webhook handler error", zap.Error(err))
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
}
