package dto

// ErrorResponse is the failure envelope for every API error. Success is
// always false; Error carries a human-readable message and never internal
// identifiers or stack traces.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
