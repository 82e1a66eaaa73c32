package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CommandHandler turns one operator command into a reply. An empty reply
// suppresses the response message.
type CommandHandler func(command string) string

type update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// fetchUpdates long-polls the Bot API for updates past offset.
func (t *TelegramNotifier) fetchUpdates(ctx context.Context, offset int) ([]update, error) {
	result, err := t.call(ctx, "getUpdates", url.Values{
		"offset":  {strconv.Itoa(offset)},
		"timeout": {"30"},
	})
	if err != nil {
		return nil, err
	}
	var updates []update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("telegram getUpdates: decode result: %w", err)
	}
	return updates, nil
}

// StartPolling long-polls for operator commands and dispatches them to
// handler. Only messages from the configured chat are accepted; the bot
// is an operator console, not a public one. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := t.fetchUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] poll for commands: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if from := strconv.FormatInt(u.Message.Chat.ID, 10); from != t.chatID {
				log.Printf("[WARN] ignoring command from unknown chat %s", from)
				continue
			}
			command := strings.TrimSpace(u.Message.Text)
			log.Printf("[INFO] received command: %s", command)
			if reply := handler(command); reply != "" {
				if err := t.send(ctx, reply); err != nil {
					log.Printf("[ERROR] send command reply: %v", err)
				}
			}
		}
	}
	log.Println("[INFO] command polling stopped")
}
