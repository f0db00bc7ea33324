package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/errors"
	"github.com/scribeflow/scribeflow/internal/adapter/dto"
	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/pkg/resilience"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := dto.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleError is the single exit point for every error that leaves the
// process over HTTP. The raw error is logged in full; the response body
// carries exactly one sanitized message field.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Int("http_code", appErr.HTTPCode),
			zap.Error(err),
		)
	}

	message := appErr.Message
	if message == "" {
		message = resilience.PublicMessage(err)
	}
	return c.JSON(appErr.HTTPCode, dto.ErrorResponse{Error: message})
}

// toAppError normalizes any error into an AppError, mapping the domain
// sentinels onto their transport representation.
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, entities.ErrInvalidChunk):
		return errors.ErrInvalidChunk("text is empty or malformed")
	case stdErrors.Is(err, entities.ErrUnknownMeeting):
		return errors.ErrUnknownMeeting("")
	case stdErrors.Is(err, entities.ErrWindowProcessed):
		return errors.ErrWindowAlreadyProcessed("", -1)
	case stdErrors.Is(err, entities.ErrWindowNotFound):
		return errors.ErrNotFound("window")
	case stdErrors.Is(err, entities.ErrEventNotFound):
		return errors.ErrEventNotFound("")
	case stdErrors.Is(err, entities.ErrAlreadyProcessed):
		return errors.ErrAlreadyProcessed("")
	case stdErrors.Is(err, entities.ErrInvalidTransition):
		return errors.ErrInvalidTransition("", "")
	case stdErrors.Is(err, entities.ErrMeetingEnded):
		return errors.ErrInvalidArgument("meeting has already ended")
	case stdErrors.Is(err, entities.ErrInvalidRequest):
		return errors.ErrInvalidPayload()
	default:
		return errors.ErrInternal(err)
	}
}
