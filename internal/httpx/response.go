package httpx

import (
	"encoding/json"
	"net/http"

	apperrors "wmx/internal/errors"

	"go.uber.org/zap"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool                         `json:"success"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	TraceID string                       `json:"traceId"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
	Debug   string                       `json:"debug,omitempty"`
}

// Responder writes the JSON envelope shared by every handler. Raw error text
// is only echoed when debug is on.
type Responder struct {
	logger *zap.Logger
	debug  bool
}

func NewResponder(logger *zap.Logger, debug bool) *Responder {
	return &Responder{logger: logger, debug: debug}
}

func (rs *Responder) OK(w http.ResponseWriter, data any) {
	rs.writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: data})
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	traceID := TraceID(r.Context())
	status, code, message := classify(err)

	env := errorEnvelope{
		Error:   code,
		Message: message,
		TraceID: traceID,
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		env.Details = ve.Details
	}
	if rs.debug {
		env.Debug = err.Error()
	}

	logger := rs.logger.With(zap.String("traceId", traceID), zap.String("path", r.URL.Path))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.Int("status", status), zap.Error(err))
	}

	rs.writeJSON(w, status, env)
}

// ErrorWithMessage overrides the message of a classified error, used by
// customer-facing paths with localized text.
func (rs *Responder) ErrorWithMessage(w http.ResponseWriter, r *http.Request, err error, message string) {
	traceID := TraceID(r.Context())
	status, code, _ := classify(err)

	env := errorEnvelope{
		Error:   code,
		Message: message,
		TraceID: traceID,
	}
	if rs.debug {
		env.Debug = err.Error()
	}

	rs.writeJSON(w, status, env)
}

func classify(err error) (int, string, string) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest, "VALIDATION_ERROR", ve.Message
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		return http.StatusUnauthorized, "UNAUTHORIZED", ue.Message
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		return http.StatusForbidden, "FORBIDDEN", fe.Message
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound, "NOT_FOUND", nfe.Message
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		return http.StatusConflict, "CONFLICT", ce.Message
	}
	if te, ok := apperrors.IsTimeoutError(err); ok {
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", te.Service + " did not respond in time"
	}
	if ue, ok := apperrors.IsUpstreamError(err); ok {
		if ue.Blocked {
			return http.StatusBadGateway, "UPSTREAM_BLOCKED", ue.Message
		}
		return http.StatusBadGateway, "UPSTREAM_ERROR", ue.Message
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
}

func (rs *Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", zap.Error(err))
	}
}
