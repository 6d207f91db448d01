package api

// ErrorResponse is the body of every error reply except validation failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every validation failure of a payload.
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// MessageResponse acknowledges an operation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
