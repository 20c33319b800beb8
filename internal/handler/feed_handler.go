package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/service"
)

type FeedHandler struct {
	service service.FeedService
}

type feedPreviewResponse struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Link     string          `json:"link,omitempty"`
	Entries  []entryResponse `json:"entries"`
}

func NewFeedHandler(service service.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/feeds", h.List)
	g.GET("/feeds/preview", h.Preview)
	g.GET("/feeds/:id/entries", h.Entries)
}

// List returns every feed with its subscriptions and error state.
// @Summary List feeds
// @Description List every feed with its subscriptions and error state
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Success 200 {array} feedResponse
// @Failure 401 {object} errorResponse
// @Router /feeds [get]
func (h *FeedHandler) List(c echo.Context) error {
	feeds, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]feedResponse, 0, len(feeds))
	for _, feed := range feeds {
		response = append(response, toFeedResponse(feed))
	}
	return c.JSON(http.StatusOK, response)
}

// Preview fetches and parses a feed without subscribing.
// @Summary Preview a feed
// @Description Fetch and parse a feed without storing anything
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param url query string true "Feed URL"
// @Success 200 {object} feedPreviewResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /feeds/preview [get]
func (h *FeedHandler) Preview(c echo.Context) error {
	rawURL := strings.TrimSpace(c.QueryParam("url"))
	if rawURL == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	meta, entries, err := h.service.Preview(c.Request().Context(), rawURL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toFeedPreviewResponse(meta, entries))
}

// Entries returns the stored entries of a feed, oldest first.
// @Summary List feed entries
// @Description Stored entries of a feed, oldest first
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feed ID"
// @Success 200 {array} entryResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/entries [get]
func (h *FeedHandler) Entries(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	entries, err := h.service.Entries(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

func toFeedPreviewResponse(meta model.FeedMetadata, entries []model.Entry) feedPreviewResponse {
	return feedPreviewResponse{
		URL:      meta.URL,
		Title:    meta.Title,
		Subtitle: meta.Subtitle,
		Link:     meta.Link,
		Entries:  toEntryResponses(entries),
	}
}
