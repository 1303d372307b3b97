package services

import (
	"context"
	"errors"

	"github.com/rsharan/dinehub/app/repositories"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/logger"
	"gorm.io/gorm"
)

// transient reports whether a storage error is worth one more attempt.
// Domain sentinels and context cancellation are deterministic and must not
// be retried; everything else from the driver is treated as transient
// (lost connection, timeout, failover).
func transient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrVersionConflict),
		errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, repositories.ErrRestaurantNotFound),
		errors.Is(err, repositories.ErrReviewNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// withRetry runs op, retrying exactly once on a transient storage error.
// A second failure surfaces as KindUnavailable so the transport layer can
// answer 503 instead of 500.
func withRetry(ctx context.Context, op func() error) error {
	err := op()
	if !transient(err) {
		return err
	}
	logger.WithCtx(ctx).Warn("transient storage error, retrying once", "error", err)
	if err = op(); err != nil {
		if transient(err) {
			return apperr.Unavailable(err)
		}
		return err
	}
	return nil
}
