package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "github.com/fbedussi/ganpro/internal/dto"
	apperrors "github.com/fbedussi/ganpro/internal/errors"
	"github.com/fbedussi/ganpro/internal/http/validators"
	"github.com/fbedussi/ganpro/internal/services"
)

type Handler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
}

func NewHandler(taskService *services.TaskService, projectService *services.ProjectService) *Handler {
	return &Handler{
		taskService:    taskService,
		projectService: projectService,
	}
}

func (h *Handler) CreateProject(c echo.Context) error {
	var req dto.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(projects),
		"projects": projects,
	})
}

func (h *Handler) GetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

func (h *Handler) ListProjectTasks(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListByProject(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) ProjectCalendar(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.taskService.ProjectCalendar(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateTask(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), projectID, taskInput(req))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTask answers 200 with the updated record when the edit commits
// directly, or 409 with a reschedule plan when dependent tasks would shift
// and the caller must confirm first.
func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTaskRequest(&req); err != nil {
		return err
	}

	task, plan, err := h.taskService.UpdateTask(c.Request().Context(), id, taskInput(req))
	if err != nil {
		return serviceError(c, err)
	}
	if plan != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "tasks depending on this one start before its new end date",
			"plan":  plan,
		})
	}
	return c.JSON(http.StatusOK, task)
}

// ConfirmReschedule commits or discards a pending plan by token. The token
// must have been issued for the addressed task.
func (h *Handler) ConfirmReschedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateRescheduleRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.ConfirmReschedule(c.Request().Context(), id, req.Token, req.Confirm)
	if err != nil {
		return serviceError(c, err)
	}
	if task == nil {
		// declined: nothing was mutated
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func taskInput(req dto.TaskRequest) services.TaskInput {
	return services.TaskInput{
		Name:           req.Name,
		StartDate:      req.StartDate,
		Length:         req.Length,
		Assignee:       req.Assignee,
		DependenciesID: req.DependenciesID,
	}
}

func serviceError(c echo.Context, err error) error {
	var valErr *apperrors.Validation
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "validation failed",
			"fields": valErr.Fields,
		})
	}
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
