package queue

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"sync"
	"video-stream/dto"
)

var (
	ErrQueueFull = errors.New("processing queue is full")
	ErrClosed    = errors.New("processing queue is closed")
)

// Dispatcher hands a processing job to whatever runs the processing hook.
// Dispatch must not wait for the job to run.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg dto.JobMessage) error
}

type Handler func(ctx context.Context, msg dto.JobMessage) error

// Pool runs jobs on a fixed number of in-process workers.
type Pool struct {
	jobs    chan dto.JobMessage
	handler Handler
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(ctx context.Context, numWorkers, size int, handler Handler) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if size < 1 {
		size = numWorkers
	}
	p := &Pool{
		jobs:    make(chan dto.JobMessage, size),
		handler: handler,
	}
	for i := 1; i <= numWorkers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	return p
}

func (p *Pool) work(ctx context.Context, workerId int) {
	defer p.wg.Done()
	logger := zerolog.Ctx(ctx).With().Int("worker", workerId).Logger()
	for msg := range p.jobs {
		if ctx.Err() != nil {
			logger.Debug().Str("job_id", msg.JobId.String()).Msg("skipping job, shutting down")
			continue
		}
		if err := p.handler(logger.WithContext(ctx), msg); err != nil {
			logger.Error().Err(err).Str("job_id", msg.JobId.String()).Msg("failed to handle job")
		}
	}
}

func (p *Pool) Dispatch(ctx context.Context, msg dto.JobMessage) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Discard drops every job.
type Discard struct{}

func (Discard) Dispatch(ctx context.Context, msg dto.JobMessage) error {
	zerolog.Ctx(ctx).Debug().Str("video_id", msg.VideoId).Msg("processing disabled, job dropped")
	return nil
}
