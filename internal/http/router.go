package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/maubot/rss/docs"
	"github.com/maubot/rss/internal/handler"
)

type Handlers struct {
	Feeds         *handler.FeedHandler
	Subscriptions *handler.SubscriptionHandler
	Rooms         *handler.RoomHandler
	Poll          *handler.PollHandler
}

func NewRouter(handlers Handlers, apiToken string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", TokenAuthMiddleware(apiToken))
	handlers.Feeds.RegisterRoutes(api)
	handlers.Subscriptions.RegisterRoutes(api)
	handlers.Rooms.RegisterRoutes(api)
	handlers.Poll.RegisterRoutes(api)

	return e
}
