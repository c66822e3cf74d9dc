package bot

import (
	"time"

	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/chart"
	"ChartSentinel/internal/metrics"
	"ChartSentinel/internal/recorder"
)

// RenderObserver feeds every chart render into metrics and render history.
func RenderObserver(m *metrics.Metrics, rec recorder.Recorder) chart.Observer {
	return func(symbol string, days int, elapsed time.Duration, err error) {
		m.ObserveRender(elapsed, err == nil)
		evt := &recorder.RenderEvent{Symbol: symbol, Days: days, Status: "ok", Duration: elapsed}
		if err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
		}
		if rerr := rec.RecordRender(evt); rerr != nil {
			log.Error().Err(rerr).Msg("record render")
		}
	}
}

// BatchCompletion writes a finished batch to render history.
func BatchCompletion(rec recorder.Recorder) batch.CompletionFunc {
	return func(job batch.Job, sum batch.Summary) {
		if err := rec.RecordBatch(&recorder.BatchEvent{
			JobID:  job.ID,
			Mode:   string(job.Mode),
			ChatID: job.ChatID,
			OK:     sum.OK,
			Total:  sum.Total,
		}); err != nil {
			log.Error().Err(err).Msg("record batch")
		}
	}
}
