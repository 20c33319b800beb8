package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/service"
)

const maxResponseSize = 64 << 10

type webhookMessage struct {
	RoomID  string `json:"room_id"`
	Body    string `json:"body"`
	MsgType string `json:"msgtype"`
}

type webhookReply struct {
	EventID string `json:"event_id"`
}

// WebhookSink hands each notification to an HTTP endpoint that posts it to the chat network.
type WebhookSink struct {
	client *http.Client
	url    string
	token  string
}

func NewWebhookSink(client *http.Client, url, token string) *WebhookSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookSink{client: client, url: url, token: token}
}

func (s *WebhookSink) Deliver(ctx context.Context, roomID, text string, mode model.DeliveryMode) (string, error) {
	payload, err := json.Marshal(webhookMessage{RoomID: roomID, Body: text, MsgType: msgType(mode)})
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", service.ErrDelivery, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", service.ErrDelivery, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply webhookReply
	if err := json.Unmarshal(body, &reply); err == nil && reply.EventID != "" {
		return reply.EventID, nil
	}
	return uuid.NewString(), nil
}

func msgType(mode model.DeliveryMode) string {
	if mode == model.DeliveryText {
		return "m.text"
	}
	return "m.notice"
}
