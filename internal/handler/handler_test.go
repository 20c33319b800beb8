package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/handler"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/service"
	"github.com/maubot/rss/internal/service/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) (*echo.Echo, *mock.MockFeedService, *mock.MockPollService) {
	ctrl := gomock.NewController(t)
	feeds := mock.NewMockFeedService(ctrl)
	poll := mock.NewMockPollService(ctrl)

	e := echo.New()
	api := e.Group("/api")
	handler.NewFeedHandler(feeds).RegisterRoutes(api)
	handler.NewSubscriptionHandler(feeds).RegisterRoutes(api)
	handler.NewRoomHandler(feeds).RegisterRoutes(api)
	handler.NewPollHandler(poll).RegisterRoutes(api)
	return e, feeds, poll
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSubscribe(t *testing.T) {
	e, feeds, _ := newServer(t)

	feeds.EXPECT().Subscribe(gomock.Any(), "https://example.com/rss", "!room:example.com", "@alice:example.com").
		Return(model.Feed{ID: 42, URL: "https://example.com/rss", Title: "Example", ErrorCount: 2,
			Subscriptions: []model.Subscription{{FeedID: 42, RoomID: "!room:example.com", SendNotice: true}}}, nil)

	rec := do(e, http.MethodPost, "/api/subscriptions", `{"url":"https://example.com/rss","roomId":"!room:example.com","userId":"@alice:example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "42", body["id"])
	require.Equal(t, true, body["degraded"])
	require.Len(t, body["subscriptions"], 1)
}

func TestSubscribe_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid", service.ErrInvalid, http.StatusBadRequest},
		{"conflict", &service.SubscriptionConflictError{Feed: model.Feed{URL: "https://example.com/rss"}, RoomID: "!r"}, http.StatusConflict},
		{"fetch", fmt.Errorf("%w: %w", service.ErrFeedFetch, feed.ErrMalformedFeed), http.StatusBadGateway},
		{"internal", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, feeds, _ := newServer(t)
			feeds.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Feed{}, tt.err)

			rec := do(e, http.MethodPost, "/api/subscriptions", `{"url":"x","roomId":"!r"}`)
			require.Equal(t, tt.status, rec.Code)
			require.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestUnsubscribe_EscapedRoom(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().Unsubscribe(gomock.Any(), int64(7), "!room:example.com").Return(nil)

	rec := do(e, http.MethodDelete, "/api/feeds/7/subscriptions/%21room%3Aexample.com", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnsubscribe_InvalidID(t *testing.T) {
	e, _, _ := newServer(t)

	rec := do(e, http.MethodDelete, "/api/feeds/abc/subscriptions/!room", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTemplate(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().UpdateTemplate(gomock.Any(), int64(7), "!room", "$title").Return("Sample entry", nil)

	rec := do(e, http.MethodPut, "/api/feeds/7/subscriptions/!room/template", `{"template":"$title"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Sample entry", decode(t, rec)["sample"])
}

func TestSetSendNotice(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().SetSendNotice(gomock.Any(), int64(7), "!room", false).Return(nil)

	rec := do(e, http.MethodPut, "/api/feeds/7/subscriptions/!room/notice", `{"sendNotice":false}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodPut, "/api/feeds/7/subscriptions/!room/notice", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostAll(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().PostAll(gomock.Any(), int64(7), "!room").Return(service.BroadcastReport{Delivered: 3, Failed: 1}, nil)

	rec := do(e, http.MethodPost, "/api/feeds/7/subscriptions/!room/post-all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, float64(3), body["delivered"])
	require.Equal(t, float64(1), body["failed"])
}

func TestListFeeds(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().List(gomock.Any()).Return([]model.Feed{{ID: 1, URL: "https://a"}, {ID: 2, URL: "https://b", ErrorCount: 1}}, nil)

	rec := do(e, http.MethodGet, "/api/feeds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, false, body[1]["degraded"])
	require.Equal(t, []any{}, body[0]["subscriptions"])
}

func TestPreviewAndEntries(t *testing.T) {
	e, feeds, _ := newServer(t)
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	feeds.EXPECT().Preview(gomock.Any(), "https://example.com/rss").
		Return(model.FeedMetadata{URL: "https://example.com/rss", Title: "Example"}, []model.Entry{{ID: "a", Date: date}}, nil)
	feeds.EXPECT().Entries(gomock.Any(), int64(9)).Return(nil, service.ErrNotFound)

	rec := do(e, http.MethodGet, "/api/feeds/preview?url=https://example.com/rss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Example", body["title"])
	entries := body["entries"].([]any)
	require.Equal(t, "2024-01-02T03:04:05Z", entries[0].(map[string]any)["date"])

	rec = do(e, http.MethodGet, "/api/feeds/preview", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/feeds/9/entries", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRooms(t *testing.T) {
	e, feeds, _ := newServer(t)
	feeds.EXPECT().ListByRoom(gomock.Any(), "!room").Return([]model.RoomFeed{{Feed: model.Feed{ID: 3}, UserID: "@bob"}}, nil)
	feeds.EXPECT().MoveRoom(gomock.Any(), "!room", "!new").Return(int64(2), nil)

	rec := do(e, http.MethodGet, "/api/rooms/!room/feeds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"userId":"@bob"`)

	rec = do(e, http.MethodPut, "/api/rooms/!room", `{"newRoomId":"!new"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(2), decode(t, rec)["moved"])
}

func TestPoll(t *testing.T) {
	e, _, poll := newServer(t)
	poll.EXPECT().PollOnce(gomock.Any()).Return(service.CycleReport{ID: "cycle", Due: 2, NewEntries: 5}, nil)
	poll.EXPECT().PollOnce(gomock.Any()).Return(service.CycleReport{}, service.ErrAlreadyPolling)
	poll.EXPECT().IsPolling().Return(true)

	rec := do(e, http.MethodPost, "/api/poll", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "cycle", body["id"])
	require.Equal(t, float64(5), body["newEntries"])

	rec = do(e, http.MethodPost, "/api/poll", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodGet, "/api/poll/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["polling"])
}

