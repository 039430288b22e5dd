package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vuelas/api/internal/queue"
)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.types)
}

func TestScheduler_EnqueuesDigest(t *testing.T) {
	events := &recordingPublisher{}
	s := NewScheduler(events, "* * * * * *", zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return events.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	events.mu.Lock()
	assert.Equal(t, queue.EventDigestRequested, events.types[0])
	events.mu.Unlock()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&recordingPublisher{}, "every day", zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestScheduler_NoPublisher(t *testing.T) {
	s := NewScheduler(nil, "not even parsed", zerolog.Nop())
	assert.NoError(t, s.Start())
	s.Stop(context.Background())
}
