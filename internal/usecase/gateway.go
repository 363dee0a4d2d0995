package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultGatewayTimeout bounds every persistence call issued by the
// services. A hung backend surfaces as ErrDependencyUnavailable instead
// of leaving the caller waiting indefinitely.
const DefaultGatewayTimeout = 10 * time.Second

func gatewayContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// wrapGatewayErr annotates a repository error with the operation name
// and converts deadline expiry into the dependency-unavailable class.
func wrapGatewayErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", ErrDependencyUnavailable, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
