package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/service"
)

type SubscriptionHandler struct {
	service service.FeedService
}

type subscribeRequest struct {
	URL    string `json:"url"`
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type templateRequest struct {
	Template string `json:"template"`
}

type templateResponse struct {
	Sample string `json:"sample"`
}

type noticeRequest struct {
	SendNotice *bool `json:"sendNotice"`
}

func NewSubscriptionHandler(service service.FeedService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/subscriptions", h.Subscribe)
	g.DELETE("/feeds/:id/subscriptions/:room", h.Unsubscribe)
	g.PUT("/feeds/:id/subscriptions/:room/template", h.UpdateTemplate)
	g.PUT("/feeds/:id/subscriptions/:room/notice", h.SetSendNotice)
	g.POST("/feeds/:id/subscriptions/:room/post-all", h.PostAll)
}

// Subscribe subscribes a room to a feed, creating the feed on first use.
// @Summary Subscribe a room
// @Description Subscribe a room to a feed, fetching the feed first when it is unknown
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body subscribeRequest true "Subscription request"
// @Success 201 {object} feedResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	feed, err := h.service.Subscribe(c.Request().Context(), req.URL, req.RoomID, req.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toFeedResponse(feed))
}

// Unsubscribe removes a room's subscription.
// @Summary Unsubscribe a room
// @Description Remove a room's subscription to a feed
// @Tags subscriptions
// @Security BearerAuth
// @Param id path int true "Feed ID"
// @Param room path string true "Room ID"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/subscriptions/{room} [delete]
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.service.Unsubscribe(c.Request().Context(), id, roomParam(c)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateTemplate stores a notification template and returns a sample rendering.
// @Summary Update notification template
// @Description Store a template and return a sample notification rendered with it
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feed ID"
// @Param room path string true "Room ID"
// @Param body body templateRequest true "Template"
// @Success 200 {object} templateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/subscriptions/{room}/template [put]
func (h *SubscriptionHandler) UpdateTemplate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	sample, err := h.service.UpdateTemplate(c.Request().Context(), id, roomParam(c), req.Template)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, templateResponse{Sample: sample})
}

// SetSendNotice switches a subscription between notice and text messages.
// @Summary Set notice mode
// @Tags subscriptions
// @Accept json
// @Security BearerAuth
// @Param id path int true "Feed ID"
// @Param room path string true "Room ID"
// @Param body body noticeRequest true "Notice mode"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/subscriptions/{room}/notice [put]
func (h *SubscriptionHandler) SetSendNotice(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	var req noticeRequest
	if err := c.Bind(&req); err != nil || req.SendNotice == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.service.SetSendNotice(c.Request().Context(), id, roomParam(c), *req.SendNotice); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PostAll re-sends every stored entry of the feed to the room.
// @Summary Repost all entries
// @Description Send every stored entry of the feed to the room again
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feed ID"
// @Param room path string true "Room ID"
// @Success 200 {object} broadcastResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/subscriptions/{room}/post-all [post]
func (h *SubscriptionHandler) PostAll(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	report, err := h.service.PostAll(c.Request().Context(), id, roomParam(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, broadcastResponse{Delivered: report.Delivered, Failed: report.Failed})
}
