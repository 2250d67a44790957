package entity

import "time"

// ErrorResponse is the body of every non-200 HTTP reply.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewErrorResponse(kind, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     kind,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}
