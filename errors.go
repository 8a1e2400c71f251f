package bedrocklab

import (
	"fmt"
	"net/http"
)

// Error is a library error with a short title and a human-readable message.
type Error struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Title == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// ProviderError is an error returned by a model provider API.
type ProviderError struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Cause      error  `json:"-"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Title == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Cause }

// ErrorTitleForStatusCode maps an HTTP status code to a short error title.
func ErrorTitleForStatusCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusTooManyRequests:
		return "Rate Limited"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	case http.StatusServiceUnavailable:
		return "Service Unavailable"
	default:
		if statusCode >= 500 {
			return "Server Error"
		}
		return "API Error"
	}
}
