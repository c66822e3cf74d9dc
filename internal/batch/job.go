package batch

import (
	"context"
	"fmt"

	"ChartSentinel/internal/model"
)

// Mode selects how a batch is delivered.
type Mode string

const (
	// PerItem sends one photo per successful entry as soon as it is rendered.
	PerItem Mode = "per-item"
	// Combined collects every entry into a single PDF document.
	Combined Mode = "combined"
)

// Job is one batch request over a set of watchlist entries.
type Job struct {
	ID      string
	ChatID  int64
	Entries []model.WatchlistEntry
	Days    int
	Mode    Mode
}

// Charter produces a chart artifact for one symbol.
type Charter interface {
	Chart(ctx context.Context, symbol string, days int) (*model.ChartArtifact, error)
}

// Deliverer is the outbound side a batch reports to.
type Deliverer interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

// Failure records one entry that could not be rendered or delivered.
type Failure struct {
	Entry model.WatchlistEntry
	Err   error
}

// Summary is the outcome of a batch.
type Summary struct {
	OK       int
	Total    int
	Failures []Failure
	// Pages is the page count of the combined document; zero for per-item
	// batches.
	Pages int
}

// String formats the summary as "<ok>/<total>".
func (s Summary) String() string {
	return fmt.Sprintf("%d/%d", s.OK, s.Total)
}
