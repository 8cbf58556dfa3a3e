package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/homebarber/internal/config"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

type Fetcher interface {
	Fetch(ctx context.Context) error
}

type Completer interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	specs     config.JobsConfig
	reference []Fetcher
	booking   Completer
	clock     timezone.Clock
	timeout   time.Duration
	log       zerolog.Logger
}

func NewScheduler(
	specs config.JobsConfig,
	reference []Fetcher,
	booking Completer,
	clock timezone.Clock,
	log zerolog.Logger,
) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		specs:     specs,
		reference: reference,
		booking:   booking,
		clock:     clock,
		timeout:   time.Minute,
		log:       log.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the jobs. An empty spec disables its job.
func (s *Scheduler) Start() error {
	if s.specs.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(s.specs.RefreshSpec, s.refreshReference); err != nil {
			return err
		}
	}
	if s.specs.CompleteSpec != "" {
		if _, err := s.cron.AddFunc(s.specs.CompleteSpec, s.completeElapsed); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("jobs still running at shutdown")
	}
}

func (s *Scheduler) refreshReference() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	for _, f := range s.reference {
		if err := f.Fetch(ctx); err != nil {
			s.log.Error().Err(err).Msg("reference refresh failed")
		}
	}
}

func (s *Scheduler) completeElapsed() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.booking.CompleteElapsed(ctx, s.clock())
	if err != nil {
		s.log.Error().Err(err).Int("completed", n).Msg("complete elapsed appointments failed")
		return
	}
	if n > 0 {
		s.log.Info().Int("completed", n).Msg("completed elapsed appointments")
	}
}
