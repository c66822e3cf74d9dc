package notifier

import (
	"fmt"
	"strings"

	"ChartSentinel/internal/model"
)

// HelpText lists the supported commands.
const HelpText = `Available commands:
/chart SYMBOL [days] - chart one symbol (default 180 days)
/chartall [days] - chart every watchlist entry
/chartpdf [days] - all watchlist charts in one PDF
/watchlist - pick a stock from the watchlist
/mywatchlist - list the watchlist
/addwatch NAME SYMBOL - add or update an entry
/removewatch NAME - remove an entry
/bulkwatch - add entries, one "NAME SYMBOL" per line`

// FormatWatchlist renders the watchlist as plain text, one entry per line.
func FormatWatchlist(entries []model.WatchlistEntry) string {
	if len(entries) == 0 {
		return "📭 Your watchlist is empty.\nUse /addwatch NAME SYMBOL to add one."
	}
	var b strings.Builder
	b.WriteString("📋 Your watchlist:\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s: %s\n", e.Name, e.Symbol))
	}
	return strings.TrimRight(b.String(), "\n")
}

// WatchlistButtons builds one inline button per entry with the symbol as payload.
func WatchlistButtons(entries []model.WatchlistEntry) []InlineButton {
	buttons := make([]InlineButton, len(entries))
	for i, e := range entries {
		buttons[i] = InlineButton{Text: e.Name, CallbackData: e.Symbol}
	}
	return buttons
}

// FormatBulkResult reports the entries accepted by /bulkwatch.
func FormatBulkResult(added []model.WatchlistEntry, skipped []string) string {
	if len(added) == 0 {
		return "⚠️ No valid entries found.\nFormat: NAME SYMBOL"
	}
	var b strings.Builder
	b.WriteString("✅ Bulk upload successful:\n")
	for _, e := range added {
		b.WriteString(fmt.Sprintf("%s -> %s\n", e.Name, e.Symbol))
	}
	if len(skipped) > 0 {
		b.WriteString(fmt.Sprintf("Skipped %d invalid line(s):\n", len(skipped)))
		for _, s := range skipped {
			b.WriteString("  " + s + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatItemFailure is the inline report for one failed batch entry.
func FormatItemFailure(e model.WatchlistEntry, err error) string {
	return fmt.Sprintf("❌ %s (%s): %v", e.Name, e.Symbol, err)
}
