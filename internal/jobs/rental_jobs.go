package jobs

import (
	"context"

	"farmshare-backend/internal/logger"
)

// ExpireStaleRentalRequests rejects pending requests whose start date has
// passed without the owner deciding.
func (jr *JobRunner) ExpireStaleRentalRequests() error {
	return jr.runWithRecovery("ExpireStaleRentalRequests", func(ctx context.Context) error {
		expired, err := jr.services.Rental.ExpireStaleRequests(ctx, jr.clock.Now())
		if err != nil {
			return err
		}
		logger.Info("Expired stale rental requests", "count", expired)
		return nil
	})
}
