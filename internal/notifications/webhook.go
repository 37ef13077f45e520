package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tgaskin/birdwatch-backend/internal/httputil"
)

// Sender pushes rendered summaries to a chat webhook. With no URL configured
// it degrades to a console echo, so commands can call it unconditionally.
type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewSender(webhookURL, botName string) *Sender {
	if botName == "" {
		botName = "Birdwatch"
	}
	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send delivers msg to the configured webhook. Delivery failures are logged,
// not returned: a summary that printed locally already served its purpose.
func (s *Sender) Send(ctx context.Context, msg string) {
	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(s.formatPayload(msg))
	if err != nil {
		fmt.Printf("[NOTIFY] marshal: %v\n", err)
		return
	}

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		fmt.Printf("[NOTIFY] Failed to deliver after retries: %v\n", err)
		return
	}
	resp.Body.Close()
	fmt.Printf("[NOTIFY] Summary delivered via webhook (%s)\n", s.botName)
}

// formatPayload picks the payload shape by webhook host: Discord wants
// "content", Slack-compatible hooks want "text". Summaries are multi-line,
// so the Slack form is wrapped in a code block.
func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("```%s```", msg),
		"username": s.botName,
	}
}
