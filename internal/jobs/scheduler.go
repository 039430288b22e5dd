package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"vuelas/api/internal/queue"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Scheduler enqueues periodic work for the worker. Specs use six fields,
// seconds first.
type Scheduler struct {
	cron       *cron.Cron
	events     Publisher
	digestSpec string
	log        zerolog.Logger
}

func NewScheduler(events Publisher, digestSpec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		events:     events,
		digestSpec: digestSpec,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if s.events == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.digestSpec, s.enqueueDigest); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("digest", s.digestSpec).Msg("scheduler started")
	return nil
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.events.Publish(ctx, queue.EventDigestRequested, nil); err != nil {
		s.log.Error().Err(err).Msg("enqueue digest failed")
		return
	}
	s.log.Debug().Msg("digest enqueued")
}
