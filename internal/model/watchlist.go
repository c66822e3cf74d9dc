package model

// WatchlistEntry maps a display name to a ticker symbol.
type WatchlistEntry struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
