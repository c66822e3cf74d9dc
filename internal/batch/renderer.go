package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/model"
	"ChartSentinel/internal/notifier"
	"ChartSentinel/internal/report"
)

// DefaultDelay is the pause between consecutive entries.
const DefaultDelay = 500 * time.Millisecond

// Renderer runs batch jobs one entry at a time.
type Renderer struct {
	Charter   Charter
	Deliverer Deliverer
	Delay     time.Duration
	// Sleep waits between entries; replaced in tests.
	Sleep func(ctx context.Context, d time.Duration)
	Now   func() time.Time
}

// NewRenderer creates a Renderer with the default pacing delay.
func NewRenderer(c Charter, d Deliverer) *Renderer {
	return &Renderer{Charter: c, Deliverer: d, Delay: DefaultDelay}
}

func (r *Renderer) pause(ctx context.Context) {
	if r.Delay <= 0 {
		return
	}
	if r.Sleep != nil {
		r.Sleep(ctx, r.Delay)
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(r.Delay):
	}
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run renders every entry of job in name order. A failing entry never stops
// the batch; it is reported and counted in the returned Summary.
func (r *Renderer) Run(ctx context.Context, job Job) Summary {
	entries := make([]model.WatchlistEntry, len(job.Entries))
	copy(entries, job.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	logger := log.With().Str("job", job.ID).Str("mode", string(job.Mode)).Logger()
	logger.Info().Int("entries", len(entries)).Int("days", job.Days).Msg("batch started")

	var sum Summary
	switch job.Mode {
	case Combined:
		sum = r.runCombined(ctx, job, entries)
	default:
		sum = r.runPerItem(ctx, job, entries)
	}

	logger.Info().Str("result", sum.String()).Int("failures", len(sum.Failures)).Msg("batch finished")
	if err := r.Deliverer.SendMessage(ctx, job.ChatID, fmt.Sprintf("✅ Done: %s charts generated.", sum)); err != nil {
		logger.Warn().Err(err).Msg("send batch summary")
	}
	return sum
}

func (r *Renderer) runPerItem(ctx context.Context, job Job, entries []model.WatchlistEntry) Summary {
	sum := Summary{Total: len(entries)}
	for i, e := range entries {
		if i > 0 {
			r.pause(ctx)
		}
		err := r.deliverOne(ctx, job, e)
		if err == nil {
			sum.OK++
			continue
		}
		log.Warn().Err(err).Str("job", job.ID).Str("symbol", e.Symbol).Msg("batch item failed")
		sum.Failures = append(sum.Failures, Failure{Entry: e, Err: err})
		if sendErr := r.Deliverer.SendMessage(ctx, job.ChatID, notifier.FormatItemFailure(e, err)); sendErr != nil {
			log.Warn().Err(sendErr).Str("job", job.ID).Msg("send item failure")
		}
	}
	return sum
}

func (r *Renderer) deliverOne(ctx context.Context, job Job, e model.WatchlistEntry) error {
	art, err := r.Charter.Chart(ctx, e.Symbol, job.Days)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s (%s)", e.Name, e.Symbol)
	if art.Caption != "" {
		caption = fmt.Sprintf("%s\n%s", caption, art.Caption)
	}
	return r.Deliverer.SendPhoto(ctx, job.ChatID, art.Filename, art.Data, caption)
}

func (r *Renderer) runCombined(ctx context.Context, job Job, entries []model.WatchlistEntry) Summary {
	sum := Summary{Total: len(entries)}
	doc := report.NewDocument(fmt.Sprintf("Watchlist %dd", job.Days))
	for i, e := range entries {
		if i > 0 {
			r.pause(ctx)
		}
		header := fmt.Sprintf("%s (%s)", e.Name, e.Symbol)
		art, err := r.Charter.Chart(ctx, e.Symbol, job.Days)
		if err == nil {
			err = doc.AddImagePage(header, art.Data)
		}
		if err != nil {
			log.Warn().Err(err).Str("job", job.ID).Str("symbol", e.Symbol).Msg("batch item failed")
			sum.Failures = append(sum.Failures, Failure{Entry: e, Err: err})
			doc.AddFailurePage(header, err.Error())
			continue
		}
		sum.OK++
	}

	data, err := doc.Bytes()
	if err != nil {
		log.Error().Err(err).Str("job", job.ID).Msg("assemble pdf")
		r.reportFatal(ctx, job, fmt.Errorf("assemble pdf: %w", err))
		return sum
	}
	sum.Pages = doc.Pages()
	filename := report.Filename("watchlist", job.Days, r.now())
	caption := fmt.Sprintf("📄 Watchlist charts (%dd) · %s · %s", job.Days, sum, report.SizeLabel(data))
	if err := r.Deliverer.SendDocument(ctx, job.ChatID, filename, data, caption); err != nil {
		log.Error().Err(err).Str("job", job.ID).Msg("send pdf")
		r.reportFatal(ctx, job, err)
	}
	return sum
}

func (r *Renderer) reportFatal(ctx context.Context, job Job, err error) {
	if sendErr := r.Deliverer.SendMessage(ctx, job.ChatID, fmt.Sprintf("Error: %v", err)); sendErr != nil {
		log.Warn().Err(sendErr).Str("job", job.ID).Msg("send batch error")
	}
}
