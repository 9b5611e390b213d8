package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"openwonder/api/internal/config"
	"openwonder/api/internal/repository"
)

// Scheduler runs the maintenance work the legacy platform never had: a
// nightly rewrite of the denormalized follower counters from the follows
// table, and an hourly prune of seen notifications.
type Scheduler struct {
	cron          *cron.Cron
	follows       *repository.FollowRepository
	notifications *repository.NotificationRepository
	cfg           config.JobsConfig
	log           zerolog.Logger
}

func NewScheduler(
	follows *repository.FollowRepository,
	notifications *repository.NotificationRepository,
	cfg config.JobsConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		follows:       follows,
		notifications: notifications,
		cfg:           cfg,
		log:           log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ReconcileSpec, s.reconcileCounters); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.PruneSpec, s.pruneNotifications); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) reconcileCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fixed, err := s.follows.ReconcileCounters(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("counter reconciliation failed")
		return
	}
	if fixed > 0 {
		s.log.Info().Int64("users_fixed", fixed).Msg("follower counters reconciled")
	}
}

func (s *Scheduler) pruneNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := s.notifications.PruneSeen(ctx, s.cfg.PruneSeenAfter)
	if err != nil {
		s.log.Error().Err(err).Msg("notification prune failed")
		return
	}
	if pruned > 0 {
		s.log.Info().Int64("pruned", pruned).Msg("old notifications pruned")
	}
}
