package notifier

import (
	"context"
	"log"
)

// Notifier delivers monitoring reports and alerts.
type Notifier interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// LogNotifier writes notifications to the process log. Used when no
// Telegram credentials are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Send(text string) error {
	log.Printf("[INFO] notification:\n%s", text)
	return nil
}

func (n *LogNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	return n.Send(text)
}
