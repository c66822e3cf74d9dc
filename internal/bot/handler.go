package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/metrics"
	"ChartSentinel/internal/notifier"
	"ChartSentinel/internal/watchlist"
)

const (
	DefaultSymbol = "AAPL"
	DefaultDays   = 180
)

// Sender is everything the bot sends back to Telegram.
type Sender interface {
	batch.Deliverer
	SendKeyboard(ctx context.Context, chatID int64, text string, buttons []notifier.InlineButton) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Handler routes inbound updates to commands.
type Handler struct {
	Store   watchlist.Store
	Charter batch.Charter
	Queue   *batch.Queue
	Sender  Sender
	Metrics *metrics.Metrics

	DefaultSymbol string
	DefaultDays   int
}

// NewHandler creates a Handler with the default symbol and day count.
func NewHandler(store watchlist.Store, charter batch.Charter, queue *batch.Queue, sender Sender) *Handler {
	return &Handler{
		Store:         store,
		Charter:       charter,
		Queue:         queue,
		Sender:        sender,
		DefaultSymbol: DefaultSymbol,
		DefaultDays:   DefaultDays,
	}
}

// HandleUpdate processes one update. It never panics.
func (h *Handler) HandleUpdate(ctx context.Context, upd notifier.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("update_id", upd.UpdateID).Msg("update handler panicked")
		}
	}()

	switch {
	case upd.Message != nil:
		h.Metrics.ObserveUpdate("message")
		h.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.Metrics.ObserveUpdate("callback")
		h.handleCallback(ctx, upd.CallbackQuery)
	default:
		h.Metrics.ObserveUpdate("other")
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *notifier.Message) {
	cmd, ok := ParseCommand(msg.Text)
	if !ok {
		return
	}
	chatID := msg.Chat.ID
	log.Info().Int64("chat", chatID).Str("command", cmd.Name).Msg("command received")

	switch cmd.Name {
	case "/start", "/help":
		h.reply(ctx, chatID, notifier.HelpText)
	case "/chart":
		symbol := cmd.Arg(0)
		if symbol == "" {
			symbol = h.DefaultSymbol
		}
		h.sendChart(ctx, chatID, symbol, ParseDays(cmd.Arg(1), h.DefaultDays))
	case "/chartall":
		h.submitBatch(ctx, chatID, ParseDays(cmd.Arg(0), h.DefaultDays), batch.PerItem)
	case "/chartpdf":
		h.submitBatch(ctx, chatID, ParseDays(cmd.Arg(0), h.DefaultDays), batch.Combined)
	case "/watchlist":
		h.sendWatchlistKeyboard(ctx, chatID)
	case "/mywatchlist":
		h.reply(ctx, chatID, notifier.FormatWatchlist(h.Store.List()))
	case "/addwatch":
		h.addWatch(ctx, chatID, cmd)
	case "/removewatch":
		h.removeWatch(ctx, chatID, cmd)
	case "/bulkwatch":
		h.bulkWatch(ctx, chatID, cmd)
	default:
		h.reply(ctx, chatID, notifier.HelpText)
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *notifier.CallbackQuery) {
	if err := h.Sender.AnswerCallback(ctx, q.ID, ""); err != nil {
		log.Warn().Err(err).Msg("answer callback")
	}
	if q.Message == nil || strings.TrimSpace(q.Data) == "" {
		return
	}
	h.sendChart(ctx, q.Message.Chat.ID, strings.TrimSpace(q.Data), h.DefaultDays)
}

func (h *Handler) sendChart(ctx context.Context, chatID int64, symbol string, days int) {
	art, err := h.Charter.Chart(ctx, symbol, days)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Int("days", days).Msg("chart failed")
		h.reply(ctx, chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if err := h.Sender.SendPhoto(ctx, chatID, art.Filename, art.Data, art.Caption); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("send chart")
		h.reply(ctx, chatID, fmt.Sprintf("Error: %v", err))
	}
}

func (h *Handler) submitBatch(ctx context.Context, chatID int64, days int, mode batch.Mode) {
	entries := h.Store.List()
	if len(entries) == 0 {
		h.reply(ctx, chatID, notifier.FormatWatchlist(entries))
		return
	}
	text := fmt.Sprintf("⏳ Generating %d charts (%dd)...", len(entries), days)
	if mode == batch.Combined {
		text = fmt.Sprintf("⏳ Building a PDF of %d charts (%dd)...", len(entries), days)
	}
	h.reply(ctx, chatID, text)

	id := h.Queue.Submit(batch.Job{ChatID: chatID, Entries: entries, Days: days, Mode: mode})
	log.Info().Str("job", id).Str("mode", string(mode)).Int("entries", len(entries)).Msg("batch queued")
}

func (h *Handler) sendWatchlistKeyboard(ctx context.Context, chatID int64) {
	entries := h.Store.List()
	if len(entries) == 0 {
		h.reply(ctx, chatID, notifier.FormatWatchlist(entries))
		return
	}
	if err := h.Sender.SendKeyboard(ctx, chatID, "📊 Select a stock:", notifier.WatchlistButtons(entries)); err != nil {
		log.Error().Err(err).Msg("send watchlist keyboard")
		h.reply(ctx, chatID, fmt.Sprintf("Error: %v", err))
	}
}

func (h *Handler) addWatch(ctx context.Context, chatID int64, cmd Command) {
	entry, err := watchlist.ParseEntry(cmd.ArgText())
	if err != nil {
		h.reply(ctx, chatID, "Usage: /addwatch NAME SYMBOL")
		return
	}
	if err := h.Store.Set(entry.Name, entry.Symbol); err != nil {
		h.replySaveFailure(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("✅ Added %s -> %s to watchlist", entry.Name, entry.Symbol))
}

func (h *Handler) removeWatch(ctx context.Context, chatID int64, cmd Command) {
	name := watchlist.ParseName(cmd.ArgText())
	if name == "" {
		h.reply(ctx, chatID, "Usage: /removewatch NAME")
		return
	}
	removed, err := h.Store.Remove(name)
	switch {
	case err != nil:
		h.replySaveFailure(ctx, chatID, err)
	case !removed:
		h.reply(ctx, chatID, fmt.Sprintf("%s not found in watchlist", name))
	default:
		h.reply(ctx, chatID, fmt.Sprintf("❌ Removed %s from watchlist", name))
	}
}

func (h *Handler) bulkWatch(ctx context.Context, chatID int64, cmd Command) {
	entries, skipped := watchlist.ParseBulk(cmd.Body)
	for _, line := range skipped {
		log.Debug().Str("line", line).Msg("skipping invalid bulkwatch line")
	}
	if len(entries) > 0 {
		if err := h.Store.SetMany(entries); err != nil {
			h.replySaveFailure(ctx, chatID, err)
			return
		}
	}
	h.reply(ctx, chatID, notifier.FormatBulkResult(entries, skipped))
}

func (h *Handler) replySaveFailure(ctx context.Context, chatID int64, err error) {
	log.Error().Err(err).Msg("save watchlist")
	h.reply(ctx, chatID, fmt.Sprintf("❌ Failed to save watchlist: %v", err))
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.Sender.SendMessage(ctx, chatID, text); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send reply")
	}
}
