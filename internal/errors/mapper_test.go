package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	apperrors "github.com/oggyb/habesha-match/internal/errors"
)

func TestFromStore(t *testing.T) {
	assert.NoError(t, apperrors.FromStore(nil))
	assert.ErrorIs(t, apperrors.FromStore(gorm.ErrRecordNotFound), apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.FromStore(stderrors.New("dial tcp: refused")), apperrors.ErrStoreUnavailable)

	quota := fmt.Errorf("like: %w", apperrors.ErrQuotaExceeded)
	assert.Equal(t, quota, apperrors.FromStore(quota))
	assert.ErrorIs(t, apperrors.FromStore(context.Canceled), context.Canceled)
}

func TestMap(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{gorm.ErrRecordNotFound, codes.NotFound},
		{apperrors.Validation("age %d out of range", 17), codes.InvalidArgument},
		{apperrors.ErrSelf, codes.InvalidArgument},
		{apperrors.ErrNoLocation, codes.FailedPrecondition},
		{apperrors.ErrQuotaExceeded, codes.ResourceExhausted},
		{fmt.Errorf("x: %w", apperrors.ErrStoreUnavailable), codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{stderrors.New("boom"), codes.Internal},
		{status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}
	for _, tc := range cases {
		st, ok := status.FromError(apperrors.Map(tc.err))
		assert.True(t, ok)
		assert.Equal(t, tc.code, st.Code(), tc.err.Error())
	}
	assert.NoError(t, apperrors.Map(nil))
}

func TestValidationMessage(t *testing.T) {
	err := apperrors.Validation("name too long")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "name too long")
}
