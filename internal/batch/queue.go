package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/metrics"
)

// CompletionFunc is called once a job has finished.
type CompletionFunc func(job Job, sum Summary)

// Queue runs each submitted job on its own goroutine. There is no cap on
// concurrent jobs and a job cannot be cancelled once submitted.
type Queue struct {
	Renderer   *Renderer
	OnComplete CompletionFunc
	Metrics    *metrics.Metrics

	ctx context.Context
	wg  sync.WaitGroup
}

// NewQueue creates a Queue whose jobs run under ctx.
func NewQueue(ctx context.Context, r *Renderer, onComplete CompletionFunc) *Queue {
	return &Queue{Renderer: r, OnComplete: onComplete, ctx: ctx}
}

// Submit starts job in the background and returns its id.
func (q *Queue) Submit(job Job) string {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	q.Metrics.BatchStarted(string(job.Mode))
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		// a panicking job still completes, with no entry counted as rendered
		sum := Summary{Total: len(job.Entries)}
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("job", job.ID).Msg("batch job panicked")
			}
			q.Metrics.BatchFinished(sum.OK, sum.Total)
			if q.OnComplete != nil {
				q.OnComplete(job, sum)
			}
		}()
		sum = q.Renderer.Run(q.ctx, job)
	}()
	return job.ID
}

// Wait blocks until every submitted job has finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}
