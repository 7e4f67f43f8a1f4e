package usecase

import (
	"errors"
	"fmt"

	"translation_desk/internal/domain/lifecycle"
)

// Error kinds surfaced by the quote use cases. Handlers classify with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrUpstreamTimeout = fmt.Errorf("%w: timed out", ErrUpstreamFailure)
)

// UploadError names the file that could not be stored.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q failed: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// classifyLifecycleError maps state machine rejections onto the use case kinds.
func classifyLifecycleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, lifecycle.ErrNotPermitted) {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	if errors.Is(err, lifecycle.ErrCheckoutInProgress) || errors.Is(err, lifecycle.ErrCheckoutLost) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
