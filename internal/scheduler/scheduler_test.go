package scheduler

import (
	"os"
	"path/filepath"
	"testing"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/watchlist"
)

type recordingQueue struct {
	jobs []batch.Job
}

func (q *recordingQueue) Submit(job batch.Job) string {
	q.jobs = append(q.jobs, job)
	return "job-1"
}

func newStore(t *testing.T, content string) *watchlist.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	os.WriteFile(path, []byte(content), 0644)
	s, err := watchlist.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunDigestNow_QueuesCombinedJob(t *testing.T) {
	q := &recordingQueue{}
	s := NewScheduler(newStore(t, `{"A":"A.NS","B":"B.NS"}`), q, 99, 120)

	if id := s.RunDigestNow(); id != "job-1" {
		t.Fatalf("id = %q", id)
	}
	if len(q.jobs) != 1 {
		t.Fatalf("jobs = %d", len(q.jobs))
	}
	job := q.jobs[0]
	if job.Mode != batch.Combined || job.ChatID != 99 || job.Days != 120 || len(job.Entries) != 2 {
		t.Errorf("job = %+v", job)
	}
}

func TestRunDigestNow_EmptyWatchlist(t *testing.T) {
	q := &recordingQueue{}
	s := NewScheduler(newStore(t, `{}`), q, 99, 120)
	if id := s.RunDigestNow(); id != "" || len(q.jobs) != 0 {
		t.Errorf("id=%q jobs=%d", id, len(q.jobs))
	}
}

func TestRegister_InvalidSpec(t *testing.T) {
	s := NewScheduler(newStore(t, `{}`), &recordingQueue{}, 1, 180)
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected an error")
	}
	if err := s.Register("0 0 18 * * 1-5"); err != nil {
		t.Errorf("register: %v", err)
	}
	s.Start()
	s.Stop()
}
