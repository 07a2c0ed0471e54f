package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness.  It intentionally touches no backing store
// so orchestrators do not recycle the process on a database hiccup.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
