package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

// WriteJSON writes data with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps err to its HTTP status and writes the error body. Server
// side failures are logged and their cause is kept out of the response.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	resp := ErrorResponse{
		Error:     apperrors.MessageOf(err),
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	entry := log.WithRequest(GetRequestID(r.Context())).WithError(err).WithField("code", apperrors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		resp.Details = string(apperrors.CodeOf(err))
		entry.Debug("Request rejected")
	}

	WriteJSON(w, status, resp)
}
