package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/metrics"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier sends messages, photos and documents via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	Metrics  *metrics.Metrics

	client  *resty.Client
	limiter *rate.Limiter
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, proxyURL string) *TelegramNotifier {
	return NewTelegramNotifierWithBaseURL(telegramAPI, botToken, proxyURL)
}

// NewTelegramNotifierWithBaseURL points the notifier at a custom Bot API server.
func NewTelegramNotifierWithBaseURL(baseURL, botToken, proxyURL string) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", baseURL, botToken)).
		SetTimeout(60 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		BotToken: botToken,
		client:   client,
		// Telegram allows about 30 messages per second across chats.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramNotifier) call(ctx context.Context, method string, req *resty.Request) (*apiResponse, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", method, err, customerrors.ErrDelivery)
	}
	var out apiResponse
	resp, err := req.SetContext(ctx).SetResult(&out).SetError(&out).Post("/" + method)
	if err != nil {
		t.Metrics.ObserveTelegramCall(method, false)
		return nil, fmt.Errorf("%s: %v: %w", method, err, customerrors.ErrDelivery)
	}
	if resp.IsError() || !out.OK {
		t.Metrics.ObserveTelegramCall(method, false)
		return nil, fmt.Errorf("telegram %s: status %d: %s: %w", method, resp.StatusCode(), out.Description, customerrors.ErrDelivery)
	}
	t.Metrics.ObserveTelegramCall(method, true)
	return &out, nil
}

// SendMessage sends a plain text message to chatID.
func (t *TelegramNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := t.call(ctx, "sendMessage", t.client.R().SetBody(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}))
	return err
}

// SendKeyboard sends text with one inline button per row.
func (t *TelegramNotifier) SendKeyboard(ctx context.Context, chatID int64, text string, buttons []InlineButton) error {
	rows := make([][]InlineButton, len(buttons))
	for i, b := range buttons {
		rows[i] = []InlineButton{b}
	}
	_, err := t.call(ctx, "sendMessage", t.client.R().SetBody(map[string]interface{}{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": map[string]interface{}{"inline_keyboard": rows},
	}))
	return err
}

// SendPhoto uploads an image attachment.
func (t *TelegramNotifier) SendPhoto(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	return t.upload(ctx, "sendPhoto", "photo", chatID, filename, data, caption)
}

// SendDocument uploads a file attachment.
func (t *TelegramNotifier) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	return t.upload(ctx, "sendDocument", "document", chatID, filename, data, caption)
}

func (t *TelegramNotifier) upload(ctx context.Context, method, field string, chatID int64, filename string, data []byte, caption string) error {
	form := map[string]string{"chat_id": strconv.FormatInt(chatID, 10)}
	if caption != "" {
		form["caption"] = truncateCaption(caption)
	}
	_, err := t.call(ctx, method, t.client.R().
		SetFormData(form).
		SetFileReader(field, filename, bytes.NewReader(data)))
	if err == nil {
		log.Debug().Str("method", method).Int64("chat_id", chatID).Str("file", filename).Int("bytes", len(data)).Msg("telegram upload sent")
	}
	return err
}

// AnswerCallback acknowledges an inline button press.
func (t *TelegramNotifier) AnswerCallback(ctx context.Context, callbackID, text string) error {
	body := map[string]interface{}{"callback_query_id": callbackID}
	if text != "" {
		body["text"] = text
	}
	_, err := t.call(ctx, "answerCallbackQuery", t.client.R().SetBody(body))
	return err
}

// Captions are limited to 1024 characters by the Bot API.
func truncateCaption(s string) string {
	const max = 1024
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
