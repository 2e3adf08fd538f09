package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/metrics"
	"github.com/codr1/courtside/internal/models"
)

const ExpiryJobName = "reservation_expiry"

// Sweeper expires pending reservations older than the configured TTL.
type Sweeper interface {
	ExpireStale(ctx context.Context, now time.Time) ([]models.Reservation, error)
}

// RegisterExpiryJob runs the stale reservation sweep on cronExpr.
func RegisterExpiryJob(svc *Service, sweeper Sweeper, cronExpr string, timeout time.Duration) error {
	if sweeper == nil {
		return fmt.Errorf("expiry job requires a sweeper")
	}

	jobLogger := log.With().
		Str("component", "reservation_expiry_job").
		Str("job_name", ExpiryJobName).
		Str("cron", cronExpr).
		Logger()

	_, err := svc.AddJob(ExpiryJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		runExpirySweep(jobLogger.WithContext(ctx), sweeper, time.Now())
	})
	return err
}

func runExpirySweep(ctx context.Context, sweeper Sweeper, now time.Time) int {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	expired, err := sweeper.ExpireStale(ctx, now)
	metrics.ExpirySweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Int("expired", len(expired)).Msg("Expiry sweep failed")
		return len(expired)
	}
	if len(expired) > 0 {
		logger.Info().Int("expired", len(expired)).Msg("Expired stale reservations")
	}
	return len(expired)
}
