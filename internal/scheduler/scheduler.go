package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/watchlist"
)

// Submitter accepts batch jobs.
type Submitter interface {
	Submit(job batch.Job) string
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Store  watchlist.Store
	Queue  Submitter
	ChatID int64
	Days   int
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(store watchlist.Store, queue Submitter, chatID int64, days int) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Store:  store,
		Queue:  queue,
		ChatID: chatID,
		Days:   days,
	}
}

// Register adds the watchlist digest task.
func (s *Scheduler) Register(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDigestNow queues the digest immediately and returns the job id, or ""
// when the watchlist is empty.
func (s *Scheduler) RunDigestNow() string {
	return s.digest()
}

func (s *Scheduler) digestTask() {
	s.digest()
}

func (s *Scheduler) digest() string {
	entries := s.Store.List()
	if len(entries) == 0 {
		log.Info().Msg("digest skipped, watchlist is empty")
		return ""
	}
	id := s.Queue.Submit(batch.Job{
		ChatID:  s.ChatID,
		Entries: entries,
		Days:    s.Days,
		Mode:    batch.Combined,
	})
	log.Info().Str("job", id).Int("entries", len(entries)).Msg("digest queued")
	return id
}
