package services

import "errors"

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")

	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrAccountNotFound  = errors.New("user account not found for this purchase")
)

// StatusError is an error with an HTTP status attached, used where the
// error taxonomy maps one-to-one onto response codes (input 400, access
// 401/403, upstream 502, shape 422).
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// HTTPStatus extracts the status for err, or falls back to the given
// default for untyped errors.
func HTTPStatus(err error, fallback int) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return fallback
}
