package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/fbedussi/ganpro/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/projects", h.CreateProject)
	e.GET("/projects", h.ListProjects)
	e.GET("/projects/:id", h.GetProject)
	e.GET("/projects/:id/tasks", h.ListProjectTasks)
	e.GET("/projects/:id/calendar", h.ProjectCalendar)
	e.POST("/projects/:id/tasks", h.CreateTask)

	e.GET("/tasks/:id", h.GetTask)
	e.PUT("/tasks/:id", h.UpdateTask)
	e.POST("/tasks/:id/reschedule", h.ConfirmReschedule)
	e.DELETE("/tasks/:id", h.DeleteTask)
}
