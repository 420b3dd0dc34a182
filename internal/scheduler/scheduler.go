// Package scheduler periodically re-ingests every tracked product page.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/tracker"
)

// Catalog lists tracked products.
type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Tracker ingests batches of product page URLs.
type Tracker interface {
	ProcessBatch(ctx context.Context, urls []string) ([]models.BatchResult, error)
}

// Scheduler re-checks prices of all tracked products on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	catalog Catalog
	tracker Tracker
	logger  *zerolog.Logger
}

// NewScheduler returns new Scheduler.
func NewScheduler(catalog Catalog, tracker Tracker, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		catalog: catalog,
		tracker: tracker,
		logger:  logger,
	}
}

// Start schedules re-checks with the provided cron expression and starts
// the scheduler.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.recheckAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("can't schedule price re-checks: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("price re-checks scheduled")

	return nil
}

// Stop stops the scheduler. Running re-checks finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// recheckAll re-ingests every tracked URL in batch-sized chunks, so a
// large catalog obeys the same batch limit as API callers.
func (s *Scheduler) recheckAll(ctx context.Context) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("can't list products for re-check")
		return
	}

	urls := make([]string, 0, len(products))
	for _, product := range products {
		urls = append(urls, product.URL)
	}

	checked := 0
	failed := 0
	for _, chunk := range lo.Chunk(urls, tracker.MaxBatchSize) {
		results, err := s.tracker.ProcessBatch(ctx, chunk)
		if err != nil {
			s.logger.Error().Err(err).Msg("can't re-check batch")
			continue
		}
		for _, result := range results {
			checked++
			if result.Err != nil {
				failed++
				s.logger.Warn().
					Err(result.Err).
					Str("url", result.URL).
					Msg("can't re-check page")
			}
		}
	}

	s.logger.Info().
		Int("checked", checked).
		Int("failed", failed).
		Msg("price re-check finished")
}
