package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrPlanLimitReached      = errors.New("plan limit reached")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
