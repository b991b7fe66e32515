package testutil

import (
	"net/http"

	id "geostake/pkg/domain"
	"geostake/pkg/requestcontext"
)

// WithCaller adds a caller identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, caller string) *http.Request {
	identity := id.Identity(caller)
	if identity.IsZero() {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), identity))
}

// WithSequence adds an execution sequence number to the request context.
func WithSequence(req *http.Request, sequence uint64) *http.Request {
	return req.WithContext(requestcontext.WithSequence(req.Context(), sequence))
}

// WithRequestID adds a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
