package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"photo-service/internal/apperr"
	"photo-service/internal/http/middleware"
)

type responseMeta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
	Path      string `json:"path,omitempty"`
}

type errorBody struct {
	Code        apperr.Code         `json:"code"`
	Message     string              `json:"message"`
	ShouldThrow bool                `json:"should_throw"`
	Key         string              `json:"key,omitempty"`
	Fields      map[string][]string `json:"fields,omitempty"`
	Detail      string              `json:"detail,omitempty"`
}

func meta(c *gin.Context) responseMeta {
	return responseMeta{
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *Handler) respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"data": data,
		"meta": meta(c),
	})
}

func (h *Handler) respondMessage(c *gin.Context, status int, data interface{}, message string) {
	m := meta(c)
	m.Message = message
	c.JSON(status, gin.H{
		"data": data,
		"meta": m,
	})
}

func (h *Handler) respondError(c *gin.Context, status int, body errorBody) {
	m := meta(c)
	m.Path = c.Request.URL.Path
	c.JSON(status, gin.H{
		"error": body,
		"meta":  m,
	})
}

func (h *Handler) validationError(c *gin.Context, fields map[string][]string) {
	h.respondError(c, http.StatusBadRequest, errorBody{
		Code:    apperr.CodeValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := errorBody{
			Code:        appErr.Code,
			Message:     appErr.Message,
			ShouldThrow: appErr.ShouldThrow,
			Key:         appErr.Key,
			Fields:      appErr.Fields,
		}
		if h.dev {
			if cause := appErr.Unwrap(); cause != nil {
				body.Detail = cause.Error()
			}
		}
		if appErr.Code == apperr.CodeInternal || appErr.Code == apperr.CodeExternalService {
			h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		}
		h.respondError(c, appErr.HTTPStatus(), body)
		return
	}

	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("handler error")
	body := errorBody{
		Code:    apperr.CodeInternal,
		Message: "internal error",
	}
	if h.dev {
		body.Detail = err.Error()
	}
	h.respondError(c, http.StatusInternalServerError, body)
}
