// Package api defines the JSON contract shared by every HTTP handler.
package api

// Response is the envelope wrapping every API response body.
// Success is true only when Data carries the payload; on failure Data is the zero value
// and Message/Errors describe what went wrong.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T, message string) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
		Errors:  []string{},
	}
}

// Fail builds a failed envelope. With no errs, message doubles as the single error entry.
func Fail[T any](message string, errs ...string) Response[T] {
	if len(errs) == 0 {
		errs = []string{message}
	}
	var zero T
	return Response[T]{
		Success: false,
		Message: message,
		Data:    zero,
		Errors:  errs,
	}
}
