package errors

import "fmt"

// ErrorCode represents a subloop error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrGroupNotFound     ErrorCode = "GROUP_NOT_FOUND"     // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrConflict          ErrorCode = "CONFLICT"            // 409
	ErrPlayerUnavailable ErrorCode = "PLAYER_UNAVAILABLE"  // 503
	ErrCancelled         ErrorCode = "CANCELLED"           // 499
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// SubloopError represents a structured error with code, status, and details.
type SubloopError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SubloopError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SubloopError {
	return &SubloopError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a phrase cannot be found.
func NewNotFound(identifier string) *SubloopError {
	return &SubloopError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("phrase not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewGroupNotFound creates a 404 error for when a group cannot be found.
func NewGroupNotFound(identifier string) *SubloopError {
	return &SubloopError{
		Code:    ErrGroupNotFound,
		Status:  404,
		Message: fmt.Sprintf("group not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import/export file.
func NewFileNotFound(path string) *SubloopError {
	return &SubloopError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for group name collisions.
func NewNameAlreadyExists(name string) *SubloopError {
	return &SubloopError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("group with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *SubloopError {
	return &SubloopError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewPlayerUnavailable creates a 503 error for when the media player
// cannot be reached over its IPC socket.
func NewPlayerUnavailable(socket string, err error) *SubloopError {
	msg := fmt.Sprintf("player unavailable at %s", socket)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &SubloopError{
		Code:    ErrPlayerUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"socket": socket},
	}
}

// NewCancelled creates a 499 error for a context-cancelled operation.
func NewCancelled(operation string) *SubloopError {
	return &SubloopError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SubloopError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SubloopError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a SubloopError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SubloopError); ok {
		return sErr.Code == code
	}
	return false
}
