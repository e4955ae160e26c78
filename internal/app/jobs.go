package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const cartPurgeSchedule = "@hourly"

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartJobs schedules the catalog refresh and, for stores without native
// expiry, the purge of abandoned carts. Jobs run with ctx.
func (a *App) StartJobs(ctx context.Context) error {
	a.sched = cron.New(cron.WithLocation(time.Local), cron.WithParser(cronParser))

	if spec := a.Config.Catalog.RefreshCron; spec != "" {
		if _, err := a.sched.AddFunc(spec, func() { a.refreshCatalog(ctx) }); err != nil {
			return fmt.Errorf("catalog refresh schedule %q: %w", spec, err)
		}
	}
	if a.purger != nil && a.Config.CartTTL() > 0 {
		if _, err := a.sched.AddFunc(cartPurgeSchedule, func() { a.purgeCarts(ctx) }); err != nil {
			return err
		}
	}
	a.sched.Start()
	log.Info().Int("jobs", len(a.sched.Entries())).Msg("scheduler started")
	return nil
}

func (a *App) refreshCatalog(ctx context.Context) {
	if err := a.CatalogUC.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("catalog refresh")
		return
	}
	log.Debug().Msg("catalog refreshed")
}

func (a *App) purgeCarts(ctx context.Context) {
	cutoff := time.Now().Add(-a.Config.CartTTL())
	n, err := a.purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("cart purge")
		return
	}
	if n > 0 {
		log.Info().Int64("carts", n).Time("before", cutoff).Msg("abandoned carts purged")
	}
}
