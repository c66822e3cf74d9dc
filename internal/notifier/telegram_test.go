package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifierWithBaseURL(srv.URL, "TOKEN", "")
	if err := tn.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["text"] != "hello" || got["chat_id"] != float64(42) {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendPhoto_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendPhoto" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("chat_id") != "7" || r.FormValue("caption") != "cap" {
			t.Errorf("unexpected form: %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("photo")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "a.png" || string(data) != "PNGDATA" {
			t.Errorf("unexpected file %s %q", hdr.Filename, data)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifierWithBaseURL(srv.URL, "TOKEN", "")
	if err := tn.SendPhoto(context.Background(), 7, "a.png", []byte("PNGDATA"), "cap"); err != nil {
		t.Fatalf("send photo: %v", err)
	}
}

func TestCall_APIErrorIsDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifierWithBaseURL(srv.URL, "TOKEN", "")
	err := tn.SendMessage(context.Background(), 1, "x")
	if !errors.Is(err, customerrors.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry the API description: %v", err)
	}
}

func TestSendKeyboard_OneButtonPerRow(t *testing.T) {
	var got struct {
		ReplyMarkup struct {
			InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	entries := []model.WatchlistEntry{{Name: "A", Symbol: "A.NS"}, {Name: "B", Symbol: "B.NS"}}
	tn := NewTelegramNotifierWithBaseURL(srv.URL, "TOKEN", "")
	if err := tn.SendKeyboard(context.Background(), 1, "pick", WatchlistButtons(entries)); err != nil {
		t.Fatalf("send keyboard: %v", err)
	}
	rows := got.ReplyMarkup.InlineKeyboard
	if len(rows) != 2 || rows[1][0].CallbackData != "B.NS" {
		t.Errorf("unexpected keyboard: %+v", rows)
	}
}

func TestFormatWatchlist(t *testing.T) {
	text := FormatWatchlist([]model.WatchlistEntry{{Name: "Blue_Chip_Fund", Symbol: "ABC.NS"}})
	if !strings.Contains(text, "Blue_Chip_Fund: ABC.NS") {
		t.Errorf("unexpected text: %s", text)
	}
	if !strings.Contains(FormatWatchlist(nil), "empty") {
		t.Error("empty watchlist should say so")
	}
}

func TestTruncateCaption(t *testing.T) {
	long := strings.Repeat("x", 2000)
	if n := len([]rune(truncateCaption(long))); n != 1024 {
		t.Errorf("caption length %d, want 1024", n)
	}
}
