package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// roomParam returns the unescaped room id. Matrix room ids contain ':' and '!'
// which clients usually percent-encode in paths.
func roomParam(c echo.Context) string {
	raw := c.Param("room")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return strings.TrimSpace(raw)
}
