package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/shab"
)

var log = internal.GetLogger()

const (
	defaultDaysBack    = 1
	defaultConcurrency = 4
)

// IngestReport summarizes one fetch cycle.
type IngestReport struct {
	DateFrom   time.Time `json:"date_from"`
	DateTo     time.Time `json:"date_to"`
	Documents  int       `json:"documents"`
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Ingestor pulls a date window of gazette notices, extracts them, and
// hands the records to the publication store. One bad document never
// aborts the cycle; failures are logged and counted.
type Ingestor struct {
	appState *models.AppState
	parser   *shab.Parser

	running int32
}

func NewIngestor(appState *models.AppState) *Ingestor {
	return &Ingestor{
		appState: appState,
		parser:   shab.NewParser(appState.Fetcher),
	}
}

// RunOnce executes a single fetch cycle. Concurrent calls are collapsed:
// if a cycle is already running, RunOnce returns immediately with an error.
func (i *Ingestor) RunOnce(ctx context.Context) (*IngestReport, error) {
	if !atomic.CompareAndSwapInt32(&i.running, 0, 1) {
		return nil, fmt.Errorf("ingest cycle already running")
	}
	defer atomic.StoreInt32(&i.running, 0)

	cfg := i.appState.Config
	daysBack := cfg.Ingest.DaysBack
	if daysBack <= 0 {
		daysBack = defaultDaysBack
	}

	report := &IngestReport{
		DateTo:    time.Now().UTC(),
		StartedAt: time.Now().UTC(),
	}
	report.DateFrom = report.DateTo.AddDate(0, 0, -daysBack)

	exportURL := shab.ExportURL(cfg.SHAB.BaseURL, report.DateFrom, report.DateTo)
	log.Infof("ingest cycle starting, window %s to %s",
		report.DateFrom.Format("2006-01-02"), report.DateTo.Format("2006-01-02"))

	body, err := i.appState.Fetcher.Fetch(ctx, exportURL)
	if err != nil {
		return nil, fmt.Errorf("fetch export: %w", err)
	}

	refs := shab.ExtractPublicationRefs(body)
	if len(refs) == 0 {
		// Some export responses inline full publications instead of refs.
		saved, failed := i.saveAll(ctx, i.parser.Parse(ctx, body, ""))
		report.Documents = saved + failed
		report.Saved = saved
		report.Failed = failed
		report.FinishedAt = time.Now().UTC()
		log.Infof("ingest cycle done, %d saved, %d failed", report.Saved, report.Failed)
		return report, nil
	}

	report.Documents = len(refs)
	saved, failed := i.ingestRefs(ctx, refs)
	report.Saved = saved
	report.Failed = failed
	report.FinishedAt = time.Now().UTC()
	log.Infof("ingest cycle done, %d documents, %d saved, %d failed",
		report.Documents, report.Saved, report.Failed)
	return report, nil
}

// ingestRefs fetches and stores the referenced documents in bounded
// batches, pausing between batches to stay polite to the upstream API.
func (i *Ingestor) ingestRefs(ctx context.Context, refs []string) (saved, failed int) {
	cfg := i.appState.Config
	concurrency := cfg.Ingest.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	pause := time.Duration(cfg.Ingest.PauseMillis) * time.Millisecond

	var savedCount, failedCount int64
	for start := 0; start < len(refs); start += concurrency {
		if ctx.Err() != nil {
			break
		}
		end := start + concurrency
		if end > len(refs) {
			end = len(refs)
		}

		var wg sync.WaitGroup
		for _, publicationID := range refs[start:end] {
			wg.Add(1)
			go func(publicationID string) {
				defer wg.Done()
				if err := i.ingestOne(ctx, publicationID); err != nil {
					log.Warnf("publication %s skipped: %v", publicationID, err)
					atomic.AddInt64(&failedCount, 1)
					return
				}
				atomic.AddInt64(&savedCount, 1)
			}(publicationID)
		}
		wg.Wait()

		if pause > 0 && start+concurrency < len(refs) {
			time.Sleep(pause)
		}
	}
	return int(savedCount), int(failedCount)
}

func (i *Ingestor) ingestOne(ctx context.Context, publicationID string) error {
	documentURL := shab.PublicationURL(i.appState.Config.SHAB.BaseURL, publicationID)
	body, err := i.appState.Fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}

	publications := i.parser.Parse(ctx, body, documentURL)
	if len(publications) == 0 {
		return fmt.Errorf("no publication recovered from document")
	}
	for idx := range publications {
		if err := i.appState.PublicationStore.SavePublication(ctx, &publications[idx]); err != nil {
			return fmt.Errorf("save publication: %w", err)
		}
	}
	return nil
}

func (i *Ingestor) saveAll(ctx context.Context, publications []models.Publication) (saved, failed int) {
	for idx := range publications {
		if err := i.appState.PublicationStore.SavePublication(ctx, &publications[idx]); err != nil {
			log.Warnf("publication %s skipped: %v", publications[idx].ID, err)
			failed++
			continue
		}
		saved++
	}
	return saved, failed
}
