// file: internal/response/response.go
package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"faildaily/internal/middleware"
	"faildaily/internal/services"

	"go.uber.org/zap"
)

// APIResponse is the standard JSON envelope for all API endpoints.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// ErrorDetail describes an error in a response.
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Builder constructs and writes API responses.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a response builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// WriteSuccess writes a 200 response with data.
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.writeJSON(w, r, &APIResponse{Success: true, Data: data}, http.StatusOK)
}

// WriteCreated writes a 201 response with data.
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.writeJSON(w, r, &APIResponse{Success: true, Data: data}, http.StatusCreated)
}

// WriteError converts an error into the envelope. ServiceError carries its
// own HTTP status; anything else is treated as internal.
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	detail, status := b.convertError(err)
	b.logError(r.Context(), err, detail, status)
	b.writeJSON(w, r, &APIResponse{Success: false, Error: detail}, status)
}

// WriteValidationError writes a 400 with field details.
func (b *Builder) WriteValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]interface{}) {
	detail := &ErrorDetail{
		Type:    "VALIDATION_ERROR",
		Message: message,
		Details: fields,
	}
	b.writeJSON(w, r, &APIResponse{Success: false, Error: detail}, http.StatusBadRequest)
}

func (b *Builder) writeJSON(w http.ResponseWriter, r *http.Request, response *APIResponse, statusCode int) {
	response.RequestID = middleware.GetRequestID(r.Context())
	response.Timestamp = time.Now().Unix()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		b.logger.Error("Failed to encode response",
			zap.String("request_id", response.RequestID),
			zap.Error(err),
		)
	}
}

func (b *Builder) convertError(err error) (*ErrorDetail, int) {
	serviceErr := services.GetServiceError(err)
	message := serviceErr.Message
	if serviceErr.GetStatusCode() >= 500 {
		// Internal failure details stay in the logs, not on the wire.
		message = "An internal error occurred"
	}
	return &ErrorDetail{
		Type:    serviceErr.Type,
		Message: message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}, serviceErr.GetStatusCode()
}

func (b *Builder) logError(ctx context.Context, err error, detail *ErrorDetail, status int) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(ctx)),
		zap.String("error_type", detail.Type),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= 500 {
		b.logger.Error("Request failed", fields...)
	} else {
		b.logger.Warn("Request rejected", fields...)
	}
}
