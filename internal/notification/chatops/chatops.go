// Package chatops posts messages to Slack-style incoming webhooks.
package chatops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const postTimeout = 5 * time.Second

// Sender posts one text message to an incoming webhook URL.
type Sender interface {
	Send(ctx context.Context, webhookURL, text string) error
}

// Webhook is the HTTP implementation.
type Webhook struct {
	httpClient *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{httpClient: &http.Client{Timeout: postTimeout}}
}

func (w *Webhook) Send(ctx context.Context, webhookURL, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
