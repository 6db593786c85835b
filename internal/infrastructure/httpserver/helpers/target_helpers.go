package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetTargetIDParam parses the positive integer path parameter name, e.g. the media id of a favorite.
func GetTargetIDParam(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be positive", name))
	}
	return id, nil
}

// GetRatingParam parses the rating path parameter. Range checks happen in the service.
func GetRatingParam(c echo.Context, name string) (float64, error) {
	raw := c.Param(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}
