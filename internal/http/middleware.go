package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maubot/rss/internal/logger"
)

// RequestLoggerMiddleware logs HTTP requests using logger.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			result := "ok"
			log := logger.Debug
			switch {
			case status >= 500:
				result = "failed"
				log = logger.Error
			case status >= 400:
				result = "failed"
				log = logger.Warn
			}
			log("http request",
				"module", "http",
				"action", "request",
				"resource", "http",
				"result", result,
				"method", req.Method,
				"path", req.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)

			return nil
		}
	}
}

// TokenAuthMiddleware requires "Authorization: Bearer <token>". An empty
// token disables the check.
func TokenAuthMiddleware(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if token == "" {
			return next
		}
		return func(c echo.Context) error {
			var provided string
			authHeader := c.Request().Header.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				provided = strings.TrimSpace(parts[1])
			}

			if provided == "" {
				logger.Warn("auth missing", "module", "http", "action", "request", "resource", "auth", "result", "failed",
					"method", c.Request().Method, "path", c.Request().URL.Path, "remote_ip", c.RealIP())
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authentication"})
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logger.Warn("auth invalid", "module", "http", "action", "request", "resource", "auth", "result", "failed",
					"method", c.Request().Method, "path", c.Request().URL.Path, "remote_ip", c.RealIP())
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			return next(c)
		}
	}
}
