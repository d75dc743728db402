package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id,omitempty"`
	Failures  []RecordFailure `json:"failures,omitempty"`
}

// RecordFailure names one record that could not be encoded.
type RecordFailure struct {
	Index   int    `json:"index"`
	Serial  string `json:"serial"`
	Message string `json:"message"`
}

// statusFor maps an error code onto an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidRecord, errors.ErrCodeEmptyInput:
		return http.StatusBadRequest
	case errors.ErrCodeEncoding:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	var failures []RecordFailure
	var agg *errors.EncodingErrors
	if stderrors.As(err, &agg) {
		failures = make([]RecordFailure, len(agg.Failures))
		for i, f := range agg.Failures {
			failures[i] = RecordFailure{Index: f.Index, Serial: f.Serial, Message: errors.UserMessage(f.Err)}
		}
	}

	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	w.Header().Del("Content-Disposition")
	writeJSON(w, status, errorBody(r, string(code), msg, failures))
}

func errorBody(r *http.Request, code, msg string, failures []RecordFailure) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
		Failures:  failures,
	}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
