package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/logger"
	"github.com/SampritiSC2/react-proshop/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format. Detail
// carries the underlying error chain and is only populated in development.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Writer writes JSON responses and maps application errors to HTTP status
// codes. Environment controls whether internal error detail is surfaced:
// in development the underlying error chain is included in the response,
// everywhere else internal errors are masked behind a generic message.
type Writer struct {
	Environment string
	Logger      *slog.Logger
}

// NewWriter creates a response writer for the given environment.
func NewWriter(environment string, l *slog.Logger) *Writer {
	return &Writer{Environment: environment, Logger: l}
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSON writes the given value wrapped in the standard envelope.
func (wr *Writer) JSON(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// Error writes a standardized error response based on the error type. It
// prefers the request-scoped logger from context over the fallback logger.
// Operational errors keep their message in every environment; unexpected
// errors are logged and masked unless running in development.
func (wr *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = wr.Logger
	}

	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: requestID,
			},
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status != http.StatusInternalServerError {
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	if apperrors.IsOperational(err) {
		code = "REQUEST_FAILED"
		message = err.Error()
	} else {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	resp := Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	}
	if status == http.StatusInternalServerError && wr.Environment == "development" {
		resp.Error.Detail = err.Error()
	}

	WriteJSON(w, status, resp)
}

// PaginatedResponse is the list response envelope. The page and pages fields
// mirror the shape the storefront frontend consumes.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
}

// NewPaginatedResponse constructs a PaginatedResponse, normalizing nil
// slices to empty ones so the JSON is always an array.
func NewPaginatedResponse[T any](items []T, page, pages, count int) PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse[T]{Items: items, Page: page, Pages: pages, Count: count}
}

// DecodeJSON decodes a JSON request body into target, rejecting bodies
// larger than 1 MB. Unknown fields are ignored; the storefront clients send
// richer objects than the handlers consume.
func DecodeJSON(r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return nil
}
