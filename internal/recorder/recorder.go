package recorder

import "time"

// RenderEvent is one chart render attempt.
type RenderEvent struct {
	Symbol   string
	Days     int
	Status   string // "ok" or "error"
	Duration time.Duration
	Error    string
}

// BatchEvent is one finished batch job.
type BatchEvent struct {
	JobID  string
	Mode   string
	ChatID int64
	OK     int
	Total  int
}

// Recorder persists render history for analysis.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	RecordBatch(evt *BatchEvent) error
	Close() error
}
