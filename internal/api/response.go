package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError logs err and writes it with the status its type maps to.
// Internal details never reach the client.
func RespondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	apperrors.NewHandler(logger.WithContext(ctx)).Handle(ctx, err)

	status := apperrors.HTTPStatus(err)
	msg := http.StatusText(status)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		msg = appErr.Message
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      apperrors.Code(err),
			RequestID: c.GetString(requestIDKey),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
