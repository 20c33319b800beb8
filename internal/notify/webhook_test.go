package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/notify"
	"github.com/maubot/rss/internal/service"

	"github.com/stretchr/testify/require"
)

func TestWebhookSink_Deliver(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"event_id":"$evt1"}`))
	}))
	defer srv.Close()

	sink := notify.NewWebhookSink(srv.Client(), srv.URL, "secret")
	id, err := sink.Deliver(context.Background(), "!room", "hello", model.DeliveryNotice)
	require.NoError(t, err)
	require.Equal(t, "$evt1", id)
	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, map[string]string{"room_id": "!room", "body": "hello", "msgtype": "m.notice"}, got)
}

func TestWebhookSink_TextModeAndGeneratedID(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := notify.NewWebhookSink(nil, srv.URL, "")
	id, err := sink.Deliver(context.Background(), "!room", "hi", model.DeliveryText)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Empty(t, auth)
	require.Equal(t, "m.text", got["msgtype"])
}

func TestWebhookSink_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "room not joined", http.StatusForbidden)
	}))
	defer srv.Close()

	sink := notify.NewWebhookSink(srv.Client(), srv.URL, "")
	_, err := sink.Deliver(context.Background(), "!room", "hello", model.DeliveryNotice)
	require.ErrorIs(t, err, service.ErrDelivery)
	require.Contains(t, err.Error(), "403")
	require.Contains(t, err.Error(), "room not joined")
}

func TestWebhookSink_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sink := notify.NewWebhookSink(nil, srv.URL, "")
	_, err := sink.Deliver(context.Background(), "!room", "hello", model.DeliveryNotice)
	require.ErrorIs(t, err, service.ErrDelivery)
}

func TestLogSink_Deliver(t *testing.T) {
	id, err := notify.LogSink{}.Deliver(context.Background(), "!room", "hello", model.DeliveryNotice)
	require.NoError(t, err)
	require.NotEmpty(t, id)
}
