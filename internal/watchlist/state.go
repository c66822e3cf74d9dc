package watchlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultEntries seeds a fresh watchlist when no file exists yet.
var DefaultEntries = map[string]string{
	"Reliance": "RELIANCE.NS",
	"M&M":      "M&M.NS",
	"ARE&M":    "ARE&M.NS",
	"SMLISUZU": "SMLISUZU.NS",
	"ASHOKLEY": "ASHOKLEY.NS",
	"EICHER":   "EICHERMOT.NS",
}

// LoadState reads the name->symbol mapping from a JSON file. The boolean is
// false when the file does not exist.
func LoadState(filePath string) (map[string]string, bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, false, nil
		}
		return nil, false, err
	}
	state := map[string]string{}
	if len(data) == 0 {
		return state, true, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return state, true, nil
}

// SaveState rewrites the whole file. encoding/json orders map keys, so the
// snapshot is always sorted by name.
func SaveState(filePath string, state map[string]string) error {
	// symbols such as M&M.NS are written literally, not as \u0026
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, buf.Bytes(), 0644)
}
