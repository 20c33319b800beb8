package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/service"
)

type PollHandler struct {
	service service.PollService
}

type cycleResponse struct {
	ID               string `json:"id"`
	StartedAt        string `json:"startedAt"`
	DurationMs       int64  `json:"durationMs"`
	Feeds            int    `json:"feeds"`
	Due              int    `json:"due"`
	Failed           int    `json:"failed"`
	NewEntries       int    `json:"newEntries"`
	Deliveries       int    `json:"deliveries"`
	DeliveryFailures int    `json:"deliveryFailures"`
}

type pollStatusResponse struct {
	Polling bool `json:"polling"`
}

func NewPollHandler(service service.PollService) *PollHandler {
	return &PollHandler{service: service}
}

func (h *PollHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/poll", h.Poll)
	g.GET("/poll/status", h.Status)
}

// Poll runs one poll cycle and returns its report.
// @Summary Run a poll cycle
// @Description Poll every due feed once and return the cycle report
// @Tags poll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cycleResponse
// @Failure 409 {object} errorResponse
// @Router /poll [post]
func (h *PollHandler) Poll(c echo.Context) error {
	report, err := h.service.PollOnce(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toCycleResponse(report))
}

// Status reports whether a poll cycle is running.
// @Summary Poll status
// @Tags poll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pollStatusResponse
// @Router /poll/status [get]
func (h *PollHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, pollStatusResponse{Polling: h.service.IsPolling()})
}

func toCycleResponse(report service.CycleReport) cycleResponse {
	return cycleResponse{
		ID:               report.ID,
		StartedAt:        report.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:       report.Duration.Milliseconds(),
		Feeds:            report.Feeds,
		Due:              report.Due,
		Failed:           report.Failed,
		NewEntries:       report.NewEntries,
		Deliveries:       report.Deliveries,
		DeliveryFailures: report.DeliveryFailures,
	}
}
