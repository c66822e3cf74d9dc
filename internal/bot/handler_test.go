package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/chart"
	"ChartSentinel/internal/collector"
	"ChartSentinel/internal/notifier"
	"ChartSentinel/internal/watchlist"
)

type outMsg struct {
	kind    string
	chatID  int64
	text    string
	buttons []notifier.InlineButton
}

type fakeSender struct {
	mu  sync.Mutex
	out []outMsg
}

func (f *fakeSender) add(m outMsg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, m)
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.add(outMsg{kind: "message", chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) SendPhoto(_ context.Context, chatID int64, filename string, _ []byte, caption string) error {
	f.add(outMsg{kind: "photo", chatID: chatID, text: filename + "|" + caption})
	return nil
}

func (f *fakeSender) SendDocument(_ context.Context, chatID int64, filename string, _ []byte, caption string) error {
	f.add(outMsg{kind: "document", chatID: chatID, text: filename + "|" + caption})
	return nil
}

func (f *fakeSender) SendKeyboard(_ context.Context, chatID int64, text string, buttons []notifier.InlineButton) error {
	f.add(outMsg{kind: "keyboard", chatID: chatID, text: text, buttons: buttons})
	return nil
}

func (f *fakeSender) AnswerCallback(_ context.Context, id, _ string) error {
	f.add(outMsg{kind: "answer", text: id})
	return nil
}

func (f *fakeSender) last() outMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.out) == 0 {
		return outMsg{}
	}
	return f.out[len(f.out)-1]
}

func (f *fakeSender) kinds(kind string) []outMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outMsg
	for _, m := range f.out {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type env struct {
	h       *Handler
	sender  *fakeSender
	fetcher *collector.MockFetcher
	queue   *batch.Queue
	path    string
}

func newEnv(t *testing.T, initial string) *env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if initial != "" {
		if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := watchlist.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	fetcher := &collector.MockFetcher{Missing: map[string]bool{"MISSING.NS": true}}
	col := collector.NewCollector(fetcher, 0)
	col.Now = func() time.Time { return time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC) }
	builder := chart.NewBuilder(col, chart.DefaultConfig())

	sender := &fakeSender{}
	r := batch.NewRenderer(builder, sender)
	r.Delay = 0
	q := batch.NewQueue(context.Background(), r, nil)
	return &env{
		h:       NewHandler(store, builder, q, sender),
		sender:  sender,
		fetcher: fetcher,
		queue:   q,
		path:    path,
	}
}

func (e *env) send(text string) {
	e.h.HandleUpdate(context.Background(), notifier.Update{
		Message: &notifier.Message{Chat: notifier.Chat{ID: 7}, Text: text},
	})
}

func TestAddWatch_MultiWordName(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/addwatch Blue Chip Fund ABC.NS")
	if got := e.sender.last().text; got != "✅ Added Blue_Chip_Fund -> ABC.NS to watchlist" {
		t.Errorf("reply = %q", got)
	}

	e.send("/mywatchlist")
	if got := e.sender.last().text; !strings.Contains(got, "Blue_Chip_Fund: ABC.NS") {
		t.Errorf("watchlist = %q", got)
	}

	state, _, err := watchlist.LoadState(e.path)
	if err != nil {
		t.Fatal(err)
	}
	if state["Blue_Chip_Fund"] != "ABC.NS" {
		t.Errorf("persisted = %v", state)
	}
}

func TestAddWatch_Usage(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/addwatch OnlyName")
	if got := e.sender.last().text; !strings.HasPrefix(got, "Usage: /addwatch") {
		t.Errorf("reply = %q", got)
	}
}

type failingStore struct {
	watchlist.Store
}

func (failingStore) Set(string, string) error {
	return errors.New("disk full")
}

func TestAddWatch_SaveFailure(t *testing.T) {
	e := newEnv(t, `{}`)
	e.h.Store = failingStore{Store: e.h.Store}

	e.send("/addwatch Foo FOO.NS")
	if got := e.sender.last().text; got != "❌ Failed to save watchlist: disk full" {
		t.Errorf("reply = %q", got)
	}
}

func TestRemoveWatch(t *testing.T) {
	e := newEnv(t, `{"Blue_Chip":"BC.NS"}`)
	e.send("/removewatch Nope")
	if got := e.sender.last().text; got != "Nope not found in watchlist" {
		t.Errorf("reply = %q", got)
	}
	e.send("/removewatch Blue Chip")
	if got := e.sender.last().text; got != "❌ Removed Blue_Chip from watchlist" {
		t.Errorf("reply = %q", got)
	}
	if _, ok := e.h.Store.Get("Blue_Chip"); ok {
		t.Error("entry still present")
	}
}

func TestBulkWatch(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/bulkwatch\nReliance RELIANCE.NS\nbroken\nTata Motors TATAMOTORS.NS")
	got := e.sender.last().text
	if !strings.Contains(got, "Reliance -> RELIANCE.NS") || !strings.Contains(got, "Tata_Motors -> TATAMOTORS.NS") {
		t.Errorf("reply = %q", got)
	}
	if len(e.h.Store.List()) != 2 {
		t.Errorf("store = %v", e.h.Store.List())
	}

	e.send("/bulkwatch")
	if got := e.sender.last().text; !strings.Contains(got, "No valid entries") {
		t.Errorf("reply = %q", got)
	}
}

func TestChart_DefaultsAndCaption(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/chart")
	photos := e.sender.kinds("photo")
	if len(photos) != 1 {
		t.Fatalf("photos = %v", e.sender.out)
	}
	if !strings.HasPrefix(photos[0].text, "AAPL_180d.png|AAPL | Pivot=") {
		t.Errorf("photo = %q", photos[0].text)
	}
	if req := e.fetcher.Requests[0]; req.Symbol != "AAPL" {
		t.Errorf("fetched %s", req.Symbol)
	}
}

func TestChart_ErrorReported(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/chart MISSING.NS 30")
	if got := e.sender.last().text; !strings.HasPrefix(got, "Error: ") {
		t.Errorf("reply = %q", got)
	}
}

// rejectingSender fails photo and keyboard uploads the way the Bot API does
// for a bad request, while text messages still go through.
type rejectingSender struct {
	*fakeSender
}

func (rejectingSender) SendPhoto(context.Context, int64, string, []byte, string) error {
	return errors.New("telegram sendPhoto: status 400 Bad Request: IMAGE_PROCESS_FAILED")
}

func (rejectingSender) SendKeyboard(context.Context, int64, string, []notifier.InlineButton) error {
	return errors.New("telegram sendMessage: status 400 Bad Request: BUTTON_DATA_INVALID")
}

func TestChart_SendFailureReported(t *testing.T) {
	e := newEnv(t, `{}`)
	e.h.Sender = rejectingSender{fakeSender: e.sender}

	e.send("/chart ABC.NS 30")
	got := e.sender.last()
	if got.kind != "message" || got.chatID != 7 {
		t.Fatalf("last = %+v", got)
	}
	if !strings.HasPrefix(got.text, "Error: telegram sendPhoto: status 400") {
		t.Errorf("reply = %q", got.text)
	}
}

func TestWatchlistKeyboard_SendFailureReported(t *testing.T) {
	e := newEnv(t, `{"A":"A.NS"}`)
	e.h.Sender = rejectingSender{fakeSender: e.sender}

	e.send("/watchlist")
	if got := e.sender.last().text; !strings.HasPrefix(got, "Error: telegram sendMessage: status 400") {
		t.Errorf("reply = %q", got)
	}
}

func TestCallbackCharts180Days(t *testing.T) {
	e := newEnv(t, `{}`)
	e.h.HandleUpdate(context.Background(), notifier.Update{
		CallbackQuery: &notifier.CallbackQuery{
			ID:      "cb1",
			Data:    "TSLA",
			Message: &notifier.Message{Chat: notifier.Chat{ID: 9}},
		},
	})
	if len(e.sender.kinds("answer")) != 1 {
		t.Error("callback not answered")
	}
	photos := e.sender.kinds("photo")
	if len(photos) != 1 || photos[0].chatID != 9 || !strings.HasPrefix(photos[0].text, "TSLA_180d.png") {
		t.Errorf("photos = %+v", photos)
	}
}

func TestWatchlistKeyboard(t *testing.T) {
	e := newEnv(t, `{"B":"B.NS","A":"A.NS"}`)
	e.send("/watchlist")
	kb := e.sender.last()
	if kb.kind != "keyboard" || len(kb.buttons) != 2 {
		t.Fatalf("got %+v", kb)
	}
	if kb.buttons[0].Text != "A" || kb.buttons[0].CallbackData != "A.NS" {
		t.Errorf("buttons = %+v", kb.buttons)
	}
}

func TestChartAll_QueuesPerItemJob(t *testing.T) {
	e := newEnv(t, `{"A":"A.NS","B":"B.NS","C":"MISSING.NS","D":"D.NS","E":"E.NS"}`)
	e.send("/chartall 60")
	e.queue.Wait()

	if got := len(e.sender.kinds("photo")); got != 4 {
		t.Errorf("photos = %d, want 4", got)
	}
	if got := e.sender.last().text; !strings.Contains(got, "4/5") {
		t.Errorf("summary = %q", got)
	}
}

func TestChartPDF_QueuesCombinedJob(t *testing.T) {
	e := newEnv(t, `{"A":"A.NS","B":"B.NS"}`)
	e.send("/chartpdf")
	e.queue.Wait()

	docs := e.sender.kinds("document")
	if len(docs) != 1 || !strings.HasPrefix(docs[0].text, "watchlist_180d_") {
		t.Errorf("documents = %+v", docs)
	}
}

func TestUnknownCommandRepliesHelp(t *testing.T) {
	e := newEnv(t, `{}`)
	e.send("/whatever")
	if got := e.sender.last().text; got != notifier.HelpText {
		t.Errorf("reply = %q", got)
	}
	n := len(e.sender.out)
	e.send("just chatting")
	if len(e.sender.out) != n {
		t.Error("plain text should be ignored")
	}
}
