package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/service"
)

type RoomHandler struct {
	service service.FeedService
}

type roomFeedResponse struct {
	Feed   feedResponse `json:"feed"`
	UserID string       `json:"userId"`
}

type moveRoomRequest struct {
	NewRoomID string `json:"newRoomId"`
}

type moveRoomResponse struct {
	Moved int64 `json:"moved"`
}

func NewRoomHandler(service service.FeedService) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/rooms/:room/feeds", h.ListFeeds)
	g.PUT("/rooms/:room", h.Move)
}

// ListFeeds returns the feeds a room is subscribed to.
// @Summary List room feeds
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param room path string true "Room ID"
// @Success 200 {array} roomFeedResponse
// @Router /rooms/{room}/feeds [get]
func (h *RoomHandler) ListFeeds(c echo.Context) error {
	feeds, err := h.service.ListByRoom(c.Request().Context(), roomParam(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]roomFeedResponse, 0, len(feeds))
	for _, rf := range feeds {
		response = append(response, roomFeedResponse{Feed: toFeedResponse(rf.Feed), UserID: rf.UserID})
	}
	return c.JSON(http.StatusOK, response)
}

// Move carries a room's subscriptions over to its replacement after a room upgrade.
// @Summary Move a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room path string true "Room ID"
// @Param body body moveRoomRequest true "Replacement room"
// @Success 200 {object} moveRoomResponse
// @Failure 400 {object} errorResponse
// @Router /rooms/{room} [put]
func (h *RoomHandler) Move(c echo.Context) error {
	var req moveRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	moved, err := h.service.MoveRoom(c.Request().Context(), roomParam(c), req.NewRoomID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, moveRoomResponse{Moved: moved})
}
