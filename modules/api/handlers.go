package api

import (
	"errors"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	api := app.Group("/api", m.rateLimiter(), BasicAuth(m.cfg.Auth))

	api.Get("/tasks", m.listTasks)
	api.Post("/tasks", m.createTask)
	api.Put("/tasks/:id", m.updateTask)
	api.Delete("/tasks/:id", m.deleteTask)

	api.Get("/logs", m.listLogs)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Resource not found"})
	})
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// listTasks handles GET /api/tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	reply, err := m.taskPort.ListTasks(c.UserContext(), task.ListTasksRequest{
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
		Search: c.Query("search"),
	})
	if err != nil {
		return m.internalError(c, err, "Server error occurred while fetching tasks")
	}
	return c.JSON(reply)
}

// createTask handles POST /api/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	created, err := m.taskPort.CreateTask(c.UserContext(), payload)
	if err != nil {
		return m.respondError(c, err, "Server error occurred while creating task")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// updateTask handles PUT /api/tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	updated, err := m.taskPort.UpdateTask(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return m.respondError(c, err, "Server error occurred while updating task")
	}
	return c.JSON(updated)
}

// deleteTask handles DELETE /api/tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.taskPort.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return m.respondError(c, err, "Server error occurred while deleting task")
	}
	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}

// listLogs handles GET /api/logs.
func (m *APIModule) listLogs(c *fiber.Ctx) error {
	reply, err := m.taskPort.ListLogs(c.UserContext(), task.ListLogsRequest{
		Page:  c.Query("page"),
		Limit: c.Query("limit"),
	})
	if err != nil {
		return m.internalError(c, err, "Server error occurred while fetching logs")
	}
	return c.JSON(reply)
}

// parsePayload decodes a JSON body. Bodies of any other type, and empty
// bodies, yield an empty payload that then fails validation.
func parsePayload(c *fiber.Ctx) (task.Payload, error) {
	payload := task.Payload{}
	if len(c.Body()) == 0 || !c.Is("json") {
		return payload, nil
	}
	if err := c.BodyParser(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// respondError maps expected task errors to client responses.
func (m *APIModule) respondError(c *fiber.Ctx, err error, message string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{Errors: verr.Errors})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Task not found"})
	case errors.Is(err, domain.ErrMalformedID):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid task ID"})
	}
	return m.internalError(c, err, message)
}

// internalError logs err and replies 500. Outside production the reply
// carries the error text.
func (m *APIModule) internalError(c *fiber.Ctx, err error, message string) error {
	m.logger.Error(message,
		"request_id", c.Locals("requestid"),
		"path", c.Path(),
		"error", err)

	if !m.cfg.IsProduction() {
		message = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: message})
}
