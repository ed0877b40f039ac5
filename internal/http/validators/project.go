package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "github.com/fbedussi/ganpro/internal/dto"
)

func ValidateProjectRequest(r *dto.ProjectRequest) error {
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}
