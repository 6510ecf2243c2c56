// Package httpapi exposes the conversion pipeline over HTTP: the W2N
// create/update endpoints, database schema lookup, health checks, image
// upload, and the standalone validation endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amberpixels/sn2n/internal/apperror"
)

// apiResponse is the envelope every endpoint returns: success carries data,
// failure carries a stable error code, message, and optional details.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorInfo  `json:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeJSON renders a successful response.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

// writeError renders err as a failure response, deriving the HTTP status
// from its apperror.Code when err wraps one, and falling back to
// defaultStatus otherwise.
func writeError(w http.ResponseWriter, err error, defaultStatus int) {
	status := defaultStatus

	var appErr *apperror.AppError
	info := &errorInfo{Code: string(apperror.CodeInternal), Message: "an internal error occurred"}

	if errors.As(err, &appErr) {
		status = statusForCode(appErr.Code)
		info.Code = string(appErr.Code)
		info.Message = appErr.Message
		info.Details = appErr.Details
	} else if err != nil {
		info.Message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Error: info})
}

func statusForCode(code apperror.Code) int {
	switch code {
	case apperror.CodeInvalidInput, apperror.CodePageArchived:
		return http.StatusBadRequest
	case apperror.CodeNotFound, apperror.CodeDatabaseNotAccessible:
		return http.StatusNotFound
	case apperror.CodeNotionUnreachable, apperror.CodeAppendFailed,
		apperror.CodeOrchestrationPartial, apperror.CodeValidationFailed, apperror.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
