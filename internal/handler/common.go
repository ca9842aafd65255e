package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"analytics-service/pkg/config"
)

const dateLayout = "2006-01-02"

var cfg *config.Config

// Init binds the handler package to the loaded configuration. Must run
// before any route is served.
func Init(c *config.Config) {
	cfg = c
}

// dateRange reads start_date and end_date query parameters, falling back to
// the trailing window of defaultDays ending today.
func dateRange(c echo.Context, defaultDays int) (string, string, error) {
	end := c.QueryParam("end_date")
	start := c.QueryParam("start_date")
	if end == "" {
		end = time.Now().Format(dateLayout)
	}
	if start == "" {
		start = time.Now().AddDate(0, 0, -defaultDays).Format(dateLayout)
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return "", "", echo.NewHTTPError(http.StatusBadRequest, "dates must use YYYY-MM-DD format")
		}
	}
	if start > end {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "start_date must not be after end_date")
	}
	return start, end, nil
}

// positiveIntParam reads an optional positive integer query parameter.
func positiveIntParam(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}
