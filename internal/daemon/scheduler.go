package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

const refreshJobName = "sitemap-refresh"

// Scheduler refreshes every site on a fixed interval.
type Scheduler struct {
	cron  gocron.Scheduler
	cache Cache
	warm  bool
	ctx   context.Context
}

func NewScheduler(cache Cache, warm bool) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{cron: cron, cache: cache, warm: warm, ctx: context.Background()}, nil
}

// Start runs the registered jobs until Stop. Refreshes use ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	slog.Info("Scheduler started", slog.Int("jobs", len(s.cron.Jobs())))
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// ScheduleRefresh registers the periodic refresh of sites. A run that is still
// busy when the next one is due pushes it back rather than overlapping.
func (s *Scheduler) ScheduleRefresh(interval time.Duration, sites []Site) (uuid.UUID, error) {
	job, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refreshAll, sites),
		gocron.WithName(refreshJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(gocron.AfterJobRunsWithError(func(_ uuid.UUID, name string, err error) {
			slog.Error("Scheduled job failed", slog.String("job", name), logfields.Error(err))
		})),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("schedule %s: %w", refreshJobName, err)
	}
	return job.ID(), nil
}

func (s *Scheduler) refreshAll(sites []Site) error {
	start := time.Now()
	var errs []error
	for _, site := range sites {
		if s.ctx.Err() != nil {
			break
		}
		if err := refresh(s.ctx, s.cache, site, s.warm); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", site.Name(), err))
		}
	}
	slog.Debug("Scheduled refresh finished", slog.Int("sites", len(sites)), logfields.Elapsed(start))
	return errors.Join(errs...)
}
