package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type subscriptionResponse struct {
	RoomID               string `json:"roomId"`
	UserID               string `json:"userId"`
	NotificationTemplate string `json:"notificationTemplate"`
	SendNotice           bool   `json:"sendNotice"`
	CreatedAt            string `json:"createdAt,omitempty"`
}

type feedResponse struct {
	ID            string                 `json:"id"`
	URL           string                 `json:"url"`
	Title         string                 `json:"title"`
	Subtitle      string                 `json:"subtitle,omitempty"`
	Link          string                 `json:"link,omitempty"`
	ErrorCount    int                    `json:"errorCount"`
	NextRetry     int64                  `json:"nextRetry"`
	Degraded      bool                   `json:"degraded"`
	Subscriptions []subscriptionResponse `json:"subscriptions"`
}

type entryResponse struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Title   string  `json:"title"`
	Summary string  `json:"summary,omitempty"`
	Link    string  `json:"link,omitempty"`
	Content *string `json:"content,omitempty"`
}

type broadcastResponse struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

func writeServiceError(c echo.Context, err error) error {
	var conflict *service.SubscriptionConflictError
	switch {
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "room is already subscribed to " + conflict.Feed.URL})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAlreadyPolling):
		return c.JSON(http.StatusConflict, errorResponse{Error: "conflict"})
	case errors.Is(err, service.ErrFeedFetch):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "module", "handler", "action", "request", "resource", "http", "result", "failed", "path", c.Request().URL.Path, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func toFeedResponse(feed model.Feed) feedResponse {
	subs := make([]subscriptionResponse, 0, len(feed.Subscriptions))
	for _, sub := range feed.Subscriptions {
		subs = append(subs, toSubscriptionResponse(sub))
	}
	return feedResponse{
		ID:            strconv.FormatInt(feed.ID, 10),
		URL:           feed.URL,
		Title:         feed.Title,
		Subtitle:      feed.Subtitle,
		Link:          feed.Link,
		ErrorCount:    feed.ErrorCount,
		NextRetry:     feed.NextRetry,
		Degraded:      feed.Degraded(),
		Subscriptions: subs,
	}
}

func toSubscriptionResponse(sub model.Subscription) subscriptionResponse {
	resp := subscriptionResponse{
		RoomID:               sub.RoomID,
		UserID:               sub.UserID,
		NotificationTemplate: sub.NotificationTemplate,
		SendNotice:           sub.SendNotice,
	}
	if !sub.CreatedAt.IsZero() {
		resp.CreatedAt = sub.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toEntryResponses(entries []model.Entry) []entryResponse {
	resp := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, entryResponse{
			ID:      entry.ID,
			Date:    entry.Date.UTC().Format(time.RFC3339),
			Title:   entry.Title,
			Summary: entry.Summary,
			Link:    entry.Link,
			Content: entry.Content,
		})
	}
	return resp
}
