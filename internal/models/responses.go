package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse is returned when a run has been queued
type AcceptedResponse struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}
