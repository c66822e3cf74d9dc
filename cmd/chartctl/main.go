// Package main provides an offline CLI that renders charts, watchlist PDFs
// and indicator spreadsheets without Telegram.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/chart"
	"ChartSentinel/internal/collector"
	"ChartSentinel/internal/export"
	"ChartSentinel/internal/watchlist"
)

var (
	days          int
	outputPath    string
	provider      string
	proxy         string
	width, height int
	watchlistFile string
	delay         time.Duration
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chartctl",
		Short: "Render stock charts and reports offline",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().IntVarP(&days, "days", "d", 180, "Calendar days to display")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: derived from the symbol)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "yahoo", "Market data provider: yahoo or mock")
	rootCmd.PersistentFlags().StringVar(&proxy, "proxy", os.Getenv("HTTPS_PROXY"), "HTTP proxy for market data")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	chartCmd := &cobra.Command{
		Use:   "chart SYMBOL",
		Short: "Render one symbol to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  runChart,
	}
	chartCmd.Flags().IntVar(&width, "width", 1600, "Image width in pixels")
	chartCmd.Flags().IntVar(&height, "height", 800, "Image height in pixels")

	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render every watchlist entry into one PDF",
		Args:  cobra.NoArgs,
		RunE:  runPDF,
	}
	pdfCmd.Flags().StringVar(&watchlistFile, "watchlist", "watchlist.json", "Watchlist JSON file")
	pdfCmd.Flags().DurationVar(&delay, "delay", batch.DefaultDelay, "Pause between entries")

	exportCmd := &cobra.Command{
		Use:   "export SYMBOL",
		Short: "Write OHLCV and indicator columns to an XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	rootCmd.AddCommand(chartCmd, pdfCmd, exportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newCollector() (*collector.Collector, error) {
	var f collector.Fetcher
	switch provider {
	case "yahoo":
		f = collector.NewYahooFetcher(proxy)
	case "mock":
		f = &collector.MockFetcher{}
	default:
		return nil, fmt.Errorf("invalid provider: %s (must be yahoo or mock)", provider)
	}
	return collector.NewCollector(f, 0), nil
}

func runChart(cmd *cobra.Command, args []string) error {
	col, err := newCollector()
	if err != nil {
		return err
	}
	cfg := chart.DefaultConfig()
	cfg.Width, cfg.Height = width, height

	art, err := chart.NewBuilder(col, cfg).Chart(cmd.Context(), args[0], days)
	if err != nil {
		return fmt.Errorf("chart failed: %w", err)
	}
	path := outputPath
	if path == "" {
		path = art.Filename
	}
	if err := os.WriteFile(path, art.Data, 0644); err != nil {
		return err
	}
	log.Info().Str("file", path).Str("caption", art.Caption).Msg("chart written")
	return nil
}

func runPDF(cmd *cobra.Command, args []string) error {
	col, err := newCollector()
	if err != nil {
		return err
	}
	store, err := watchlist.NewFileStore(watchlistFile)
	if err != nil {
		return err
	}

	out := &fileDeliverer{dir: ".", documentPath: outputPath}
	r := batch.NewRenderer(chart.NewBuilder(col, chart.DefaultConfig()), out)
	r.Delay = delay
	sum := r.Run(cmd.Context(), batch.Job{
		ID:      "chartctl",
		Entries: store.List(),
		Days:    days,
		Mode:    batch.Combined,
	})
	if out.err != nil {
		return out.err
	}
	for _, f := range sum.Failures {
		log.Warn().Err(f.Err).Str("name", f.Entry.Name).Str("symbol", f.Entry.Symbol).Msg("entry failed")
	}
	log.Info().Str("result", sum.String()).Msg("pdf done")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	col, err := newCollector()
	if err != nil {
		return err
	}
	series, err := col.Collect(cmd.Context(), args[0], days)
	if err != nil {
		return fmt.Errorf("collect failed: %w", err)
	}
	path := outputPath
	if path == "" {
		path = fmt.Sprintf("%s_%dd.xlsx", args[0], days)
	}
	if err := export.SaveSeries(series, path); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("rows", series.Len()).Msg("spreadsheet written")
	return nil
}

// fileDeliverer writes batch output to disk instead of a chat.
type fileDeliverer struct {
	dir          string
	documentPath string
	err          error
}

func (d *fileDeliverer) SendMessage(_ context.Context, _ int64, text string) error {
	fmt.Fprintln(os.Stdout, text)
	return nil
}

func (d *fileDeliverer) SendPhoto(_ context.Context, _ int64, filename string, data []byte, _ string) error {
	return d.write(filepath.Join(d.dir, filename), data)
}

func (d *fileDeliverer) SendDocument(_ context.Context, _ int64, filename string, data []byte, caption string) error {
	path := d.documentPath
	if path == "" {
		path = filepath.Join(d.dir, filename)
	}
	if err := d.write(path, data); err != nil {
		return err
	}
	log.Info().Str("file", path).Str("caption", caption).Msg("document written")
	return nil
}

func (d *fileDeliverer) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		d.err = err
		return err
	}
	return nil
}
