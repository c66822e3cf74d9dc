package watchlist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

func TestNewFileStore_SeedsDefaults(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "watchlist.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got := len(s.List()); got != len(DefaultEntries) {
		t.Errorf("got %d entries, want %d defaults", got, len(DefaultEntries))
	}
}

func TestSaveState_AmpersandWrittenLiterally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := SaveState(path, map[string]string{"M&M": "M&M.NS"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"M&M": "M&M.NS"`) {
		t.Errorf("file = %s", raw)
	}
	state, _, err := LoadState(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state["M&M"] != "M&M.NS" {
		t.Errorf("state = %v", state)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.SetMany([]model.WatchlistEntry{
		{Name: "Zeta", Symbol: "Z.NS"},
		{Name: "Alpha", Symbol: "A.NS"},
		{Name: "M&M", Symbol: "M&M.NS"},
	}); err != nil {
		t.Fatalf("set many: %v", err)
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(s.List(), reloaded.List()) {
		t.Errorf("round trip mismatch:\n%v\n%v", s.List(), reloaded.List())
	}

	state, _, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"Zeta": "Z.NS", "Alpha": "A.NS", "M&M": "M&M.NS"}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("file mapping = %v, want %v", state, want)
	}
}

func TestFileStore_ListSortedByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	os.WriteFile(path, []byte(`{"b":"B","a":"A","c":"C"}`), 0644)
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	list := s.List()
	if list[0].Name != "a" || list[1].Name != "b" || list[2].Name != "c" {
		t.Errorf("not sorted: %v", list)
	}
}

func TestFileStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	os.WriteFile(path, []byte(`{"A":"A.NS"}`), 0644)
	s, _ := NewFileStore(path)

	removed, err := s.Remove("missing")
	if err != nil || removed {
		t.Errorf("remove missing: removed=%v err=%v", removed, err)
	}
	removed, err = s.Remove("A")
	if err != nil || !removed {
		t.Fatalf("remove A: removed=%v err=%v", removed, err)
	}
	if _, ok := s.Get("A"); ok {
		t.Error("A still present")
	}
}

func TestFileStore_SaveFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	os.WriteFile(blocker, []byte("x"), 0644)
	path := filepath.Join(blocker, "watchlist.json")

	s := &FileStore{entries: map[string]string{"A": "A.NS"}, filePath: path}
	if err := s.Set("B", "B.NS"); err == nil {
		t.Fatal("expected a save error")
	}
	if _, ok := s.Get("B"); ok {
		t.Error("failed save should not change the in-memory watchlist")
	}
}

func TestParseEntry_MultiWordName(t *testing.T) {
	e, err := ParseEntry("Blue Chip Fund ABC.NS")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Name != "Blue_Chip_Fund" || e.Symbol != "ABC.NS" {
		t.Errorf("got %+v", e)
	}
}

func TestParseEntry_MissingSymbol(t *testing.T) {
	if _, err := ParseEntry("OnlyName"); !errors.Is(err, customerrors.ErrMalformedCommand) {
		t.Errorf("expected ErrMalformedCommand, got %v", err)
	}
}

func TestParseBulk(t *testing.T) {
	entries, skipped := ParseBulk("Reliance RELIANCE.NS\n\nbad\n  Tata Motors TATAMOTORS.NS  ")
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[1].Name != "Tata_Motors" || entries[1].Symbol != "TATAMOTORS.NS" {
		t.Errorf("unexpected entry %+v", entries[1])
	}
	if len(skipped) != 1 || skipped[0] != "bad" {
		t.Errorf("skipped = %v", skipped)
	}
}
