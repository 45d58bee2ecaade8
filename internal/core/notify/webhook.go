package notify

import (
	"context"
	"fmt"
	"time"

	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Message webhook 訊息，text 欄位相容 Slack 型式的 incoming webhook
type Message struct {
	Text   string                 `json:"text"`
	Event  string                 `json:"event,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
	SentAt time.Time              `json:"sent_at"`
}

// Notifier webhook 通知
type Notifier struct {
	client  *resty.Client
	url     string
	enabled bool
}

// NewNotifier 創建通知器，未啟用時 Notify 不做任何事
func NewNotifier(cfg *config.WebhookConfig) *Notifier {
	return &Notifier{
		client: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
	}
}

// Enabled 是否會實際發送
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// Notify 發送通知
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	if !n.Enabled() {
		return nil
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	start := time.Now()
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(n.url)
	if err != nil {
		err = common.ErrWebhookFailed.Wrap(err)
	} else if resp.IsError() {
		err = common.ErrWebhookFailed.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	common.LogUpstreamCall("webhook", msg.Event, time.Since(start), err)
	return err
}
