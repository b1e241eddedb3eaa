// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Domain sentinels. Wrap them with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrQuotaExceeded    = errors.New("daily like quota exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDelivery         = errors.New("delivery failed")
	ErrNoLocation       = errors.New("location not set")
	ErrSelf             = errors.New("cannot act on own profile")
	ErrThrottled        = errors.New("too many requests")
)

// Validation wraps a user-input problem with a short reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// FromStore normalizes repository errors.
//
// Behavior:
//   - nil stays nil
//   - gorm.ErrRecordNotFound → ErrNotFound
//   - errors already carrying a domain sentinel pass through
//   - context errors pass through
//   - everything else is wrapped as ErrStoreUnavailable
func FromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrSelf), errors.Is(err, ErrNoLocation):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// Map converts domain/repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, ErrValidation), errors.Is(err, ErrSelf):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrNoLocation):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrThrottled):
		return status.Error(codes.ResourceExhausted, err.Error())

	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrDelivery):
		return status.Error(codes.Unavailable, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
