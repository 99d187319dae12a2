package preview

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// ReasonSchedule labels rebuilds requested by the periodic scheduler.
const ReasonSchedule = "schedule"

// Scheduler requests a rebuild every interval, keeping time-dependent
// values such as today's date current during long sessions.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler schedules request every interval. It does not start until Start.
func NewScheduler(interval time.Duration, request func(reason string)) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WatchError("failed to create scheduler").WithCause(err).Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(request, ReasonSchedule),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WatchError("failed to schedule periodic rebuild").
			WithCause(err).
			WithContext("interval", interval.String()).
			Build()
	}
	slog.Info("Periodic rebuild enabled", slog.Duration("interval", interval))
	return &Scheduler{scheduler: s}, nil
}

// Start begins the schedule.
func (s *Scheduler) Start() { s.scheduler.Start() }

// Stop shuts the scheduler down and waits for a running job.
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
}
