package watchlist

import (
	"fmt"
	"strings"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

// NameSeparator joins multi-word display names.
const NameSeparator = "_"

// ParseName joins whitespace-separated words into a single display name.
func ParseName(args string) string {
	return strings.Join(strings.Fields(args), NameSeparator)
}

// ParseEntry reads "NAME... SYMBOL": the last token is the symbol and the
// preceding tokens form the name.
func ParseEntry(args string) (model.WatchlistEntry, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return model.WatchlistEntry{}, fmt.Errorf("expected NAME SYMBOL, got %q: %w", strings.TrimSpace(args), customerrors.ErrMalformedCommand)
	}
	return model.WatchlistEntry{
		Name:   strings.Join(fields[:len(fields)-1], NameSeparator),
		Symbol: fields[len(fields)-1],
	}, nil
}

// ParseBulk reads one entry per line, returning the valid entries and the
// lines that could not be parsed. Blank lines are ignored.
func ParseBulk(text string) (entries []model.WatchlistEntry, skipped []string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			skipped = append(skipped, line)
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}
