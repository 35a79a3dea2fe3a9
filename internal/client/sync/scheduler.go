package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// defaultProbeInterval is how often watch mode checks connectivity.
const defaultProbeInterval = 30 * time.Second

// Prober checks whether the remote service is reachable.
type Prober interface {
	Health(ctx context.Context) error
}

// Scheduler drives the orchestrator's time-based triggers in watch
// mode: a connectivity probe, the periodic drain/pull cycle, and the
// one-time startup cycle. All jobs funnel into Service.RunCycle, whose
// single-flight guard makes overlapping fires harmless.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	service       *Service
	probe         Prober
	logger        *slog.Logger
	probeInterval time.Duration
}

// NewScheduler creates a scheduler around the orchestrator. probe is
// typically the remote API client's health check.
func NewScheduler(service *Service, probe Prober, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler:     gocron.NewScheduler(time.UTC),
		service:       service,
		probe:         probe,
		logger:        logger,
		probeInterval: defaultProbeInterval,
	}
}

// Start registers the trigger jobs and runs the scheduler in the
// background.
func (s *Scheduler) Start() error {
	// Connectivity probe. Runs immediately so watch mode comes online
	// without waiting a full interval.
	if _, err := s.scheduler.Every(s.probeInterval).StartImmediately().Do(s.checkConnectivity); err != nil {
		return err
	}

	// Periodic drain/pull cycle while entitled and online.
	if _, err := s.scheduler.Every(DrainInterval).Do(s.runCycle); err != nil {
		return err
	}

	// One-time cycle shortly after startup.
	if _, err := s.scheduler.Every(StartupDelay).LimitRunsTo(1).Do(s.runCycle); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkConnectivity pings the service and feeds the result into the
// orchestrator. An offline-to-online transition triggers the
// reconnect drain.
func (s *Scheduler) checkConnectivity() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.probe.Health(ctx)
	online := err == nil
	if !online {
		s.logger.Debug("connectivity probe failed", "error", err)
	}
	if s.service.SetOnline(online) {
		s.service.Kick()
	}
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.service.RunCycle(ctx); err != nil {
		s.logger.Warn("scheduled sync cycle failed", "error", err)
	}
}
