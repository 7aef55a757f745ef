package errors

import "errors"

var (
	ErrAlreadyExists             = errors.New("already exists")
	ErrNotFound                  = errors.New("not found")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrValidationFailed          = errors.New("validation failed")
	ErrPermissionDenied          = errors.New("permission denied")
	ErrInvalidTransition         = errors.New("invalid status transition")
	ErrCancellationWindowExpired = errors.New("cancellation window expired")
	ErrReviewNotAllowed          = errors.New("review not allowed")
	ErrOutOfStock                = errors.New("out of stock")
)
