// Package types holds the JSON envelopes shared by every back-office
// endpoint. Handlers never write bare payloads; successes wrap under
// "data" and failures under "error" so the frontend can branch on shape.
package types

// SuccessEnvelope wraps every 2xx body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Code is one of the stable
// machine codes (VALIDATION_ERROR, NOT_FOUND, STATE_CONFLICT, ...);
// Message is human-readable and may change between releases.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
