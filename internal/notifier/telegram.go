package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const telegramHost = "https://api.telegram.org"

// TelegramNotifier delivers monitoring reports to the operator chat via
// the Telegram Bot API.
type TelegramNotifier struct {
	chatID string
	api    string // "<host>/bot<token>", overridable in tests
	client *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		chatID: chatID,
		api:    fmt.Sprintf("%s/bot%s", telegramHost, botToken),
		client: &http.Client{
			// Long polling holds requests open for up to 30s.
			Timeout:   35 * time.Second,
			Transport: transport,
		},
	}
}

// apiReply is the envelope every Bot API method responds with.
type apiReply struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	Parameters  *replyParams    `json:"parameters"`
	Result      json.RawMessage `json:"result"`
}

type replyParams struct {
	RetryAfter int `json:"retry_after"`
}

// apiError carries the Bot API failure details, including the server's
// requested backoff on rate limiting.
type apiError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *apiError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// call invokes one Bot API method with form-encoded parameters and returns
// the raw result payload.
func (t *TelegramNotifier) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", t.api+"/"+method,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var reply apiReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !reply.OK {
		apiErr := &apiError{Method: method, Code: reply.ErrorCode, Description: reply.Description}
		if reply.Parameters != nil {
			apiErr.RetryAfter = time.Duration(reply.Parameters.RetryAfter) * time.Second
		}
		return nil, apiErr
	}
	return reply.Result, nil
}

func (t *TelegramNotifier) send(ctx context.Context, text string) error {
	_, err := t.call(ctx, "sendMessage", url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	})
	return err
}

// Send delivers one message to the operator chat.
func (t *TelegramNotifier) Send(text string) error {
	return t.send(context.Background(), text)
}

// SendWithRetry retries failed sends with exponential backoff. When the
// API rate-limits the bot, the server's retry_after wins over the
// computed backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = t.send(ctx, text)
		if lastErr == nil {
			return nil
		}
		if attempt >= maxRetries {
			break
		}

		wait := time.Duration(1<<uint(attempt)) * time.Second
		if apiErr, ok := lastErr.(*apiError); ok && apiErr.RetryAfter > wait {
			wait = apiErr.RetryAfter
		}
		log.Printf("[WARN] notification send failed (attempt %d/%d): %v, retrying in %v",
			attempt+1, maxRetries+1, lastErr, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("all %d attempts exhausted: %w", maxRetries+1, lastErr)
}
