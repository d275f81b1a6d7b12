package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const purgeTimeout = time.Minute

// StartPurger schedules removal of jobs older than ttl on a cron schedule
// such as "@every 5m". The returned cron must be stopped by the caller.
func StartPurger(store JobStore, schedule string, ttl time.Duration, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		n, err := store.PurgeOlderThan(ctx, time.Now().Add(-ttl))
		if err != nil {
			log.Error().Err(err).Msg("job purge failed")
			return
		}
		if n > 0 {
			log.Info().Int("purged", n).Msg("expired jobs removed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("StartPurger: unable to schedule job purge %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Dur("ttl", ttl).Msg("job purge scheduler started")
	return c, nil
}
