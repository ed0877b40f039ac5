package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "github.com/fbedussi/ganpro/internal/dto"
)

func ValidateTaskRequest(r *dto.TaskRequest) error {
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if r.StartDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "startDate is required")
	}
	if r.Length < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "length must be at least 1")
	}
	return nil
}

func ValidateRescheduleRequest(r *dto.RescheduleRequest) error {
	if r.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	return nil
}
