package watchlist

import (
	"fmt"
	"sort"
	"sync"

	"ChartSentinel/internal/model"
)

// Store is the durable display-name -> symbol mapping.
type Store interface {
	List() []model.WatchlistEntry
	Get(name string) (string, bool)
	Set(name, symbol string) error
	SetMany(entries []model.WatchlistEntry) error
	Remove(name string) (bool, error)
}

// FileStore keeps the watchlist in memory and rewrites a JSON snapshot on
// every mutation. The mutex protects the map only; concurrent edit commands
// still race at the command level and the last save wins.
type FileStore struct {
	mu       sync.Mutex
	entries  map[string]string
	filePath string
}

// NewFileStore loads filePath, seeding DefaultEntries when it does not exist.
func NewFileStore(filePath string) (*FileStore, error) {
	state, exists, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	if !exists {
		for k, v := range DefaultEntries {
			state[k] = v
		}
	}
	return &FileStore{entries: state, filePath: filePath}, nil
}

// List returns all entries sorted by name.
func (s *FileStore) List() []model.WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedEntries(s.entries)
}

// Get looks up the symbol stored under name.
func (s *FileStore) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[name]
	return v, ok
}

// Set adds or replaces one entry and persists the snapshot.
func (s *FileStore) Set(name, symbol string) error {
	return s.SetMany([]model.WatchlistEntry{{Name: name, Symbol: symbol}})
}

// SetMany adds or replaces several entries with a single save.
func (s *FileStore) SetMany(entries []model.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copyState(s.entries)
	for _, e := range entries {
		next[e.Name] = e.Symbol
	}
	return s.commit(next)
}

// Remove deletes name. It reports false when the name was not present.
func (s *FileStore) Remove(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return false, nil
	}
	next := copyState(s.entries)
	delete(next, name)
	return true, s.commit(next)
}

// commit saves next and only then makes it the live state.
func (s *FileStore) commit(next map[string]string) error {
	if err := SaveState(s.filePath, next); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	s.entries = next
	return nil
}

func copyState(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedEntries(m map[string]string) []model.WatchlistEntry {
	out := make([]model.WatchlistEntry, 0, len(m))
	for k, v := range m {
		out = append(out, model.WatchlistEntry{Name: k, Symbol: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
