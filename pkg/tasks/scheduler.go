package tasks

import (
	"context"
	"time"

	"github.com/gantapp/gant/pkg/models"
)

// StartIngestScheduler runs ingest cycles at the configured interval until
// ctx is cancelled. An interval of 0 disables the scheduler.
func StartIngestScheduler(ctx context.Context, ingestor *Ingestor) {
	interval := time.Duration(ingestor.appState.Config.Ingest.EveryHours) * time.Hour
	if interval == 0 {
		log.Debug("ingest scheduler disabled")
		return
	}

	log.Infof("starting ingest scheduler, fetching every %v", interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("stopping ingest scheduler")
				return
			default:
				if _, err := ingestor.RunOnce(ctx); err != nil {
					log.Errorf("ingest cycle failed: %v", err)
				}
			}
			time.Sleep(interval)
		}
	}()
}

// StartPurgeProcessor deletes auctions past the retention window at a
// regular interval. It is cancellable via the passed context. If
// retention.purge_every_minutes is 0, this function does nothing.
func StartPurgeProcessor(ctx context.Context, appState *models.AppState) {
	interval := time.Duration(appState.Config.Retention.PurgeEveryMinutes) * time.Minute
	if interval == 0 {
		log.Debug("purge processor disabled")
		return
	}

	maxAge := time.Duration(appState.Config.Retention.MaxAgeDays) * 24 * time.Hour

	log.Infof("starting purge processor, purging every %v", interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("stopping purge processor")
				return
			default:
				cutoff := time.Now().UTC().Add(-maxAge)
				purged, err := appState.PublicationStore.PurgeExpired(ctx, cutoff)
				if err != nil {
					log.Errorf("error purging expired auctions: %v", err)
				} else if purged > 0 {
					log.Infof("purged %d expired auctions", purged)
				}
			}
			time.Sleep(interval)
		}
	}()
}
