package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexasparks/6-traits-annotations/internal/logging"
	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/rater"
	"github.com/alexasparks/6-traits-annotations/internal/service/annotate"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

// 错误响应中的 error 字段
const (
	errFetchFailed    = "Failed to fetch data"
	errInternal       = "Internal server error"
	errInvalidRater   = "Invalid rater"
	errInvalidRequest = "Invalid request"
	errUnavailable    = "Spreadsheet service unavailable"
)

// statusFor 错误到 HTTP 状态码与 error 字段的映射
func statusFor(err error, fallback string) (int, string) {
	switch {
	case rater.IsRaterError(err):
		return http.StatusBadRequest, errInvalidRater
	case errors.Is(err, annotate.ErrInvalidRequest):
		return http.StatusBadRequest, errInvalidRequest
	case sheets.IsTransient(err):
		return http.StatusServiceUnavailable, errUnavailable
	default:
		return http.StatusInternalServerError, fallback
	}
}

// respondError 写错误响应；5xx 记录错误日志
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg,
			zap.String("path", c.FullPath()),
			zap.String("request_id", logging.GetRequestID(c)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, model.ErrorResponse{Error: msg, Details: err.Error()})
}
