// Package shared centralizes JSON response writing and domain error
// translation so handlers never hand-roll status codes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "geostake/pkg/domain-errors"
)

// ErrorResponse is the uniform error body: a stable machine code plus a
// human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a coded domain error into an HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, statusFor(code), ErrorResponse{
		Error:   string(code),
		Message: messageFor(err),
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidCoordinates, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotTokenOwner, dErrors.CodeOwnerOnly:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeAlreadyUnlocked, dErrors.CodeNotEligibleForTransfer, dErrors.CodeAlreadyExists:
		return http.StatusConflict
	case dErrors.CodeLocationMismatch:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// messageFor keeps internal error details out of responses.
func messageFor(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) && de.ErrCode != dErrors.CodeInternal {
		return de.Message
	}
	return "internal error"
}
