package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "childcare-tasks.com/childcare-tasks/internal/data_models"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	middleware "childcare-tasks.com/childcare-tasks/internal/http/middlewares"
	"childcare-tasks.com/childcare-tasks/internal/services"
)

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	// Decoded directly so absent and null fields stay distinguishable.
	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid JSON payload")
	}
	req.ID = c.Param("id")

	task, err := h.taskService.Update(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.DeleteTaskResponse{Success: true})
}

func (h *Handler) ListTasks(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	var req dto.ListTasksRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid query parameters")
	}
	if values, ok := c.QueryParams()["limit"]; ok {
		limit, err := strconv.Atoi(values[0])
		if err != nil {
			return apperrors.ErrInvalidLimit
		}
		req.Limit = &limit
	}

	page, err := h.taskService.GetAll(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetStats(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.taskService.GetStats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
